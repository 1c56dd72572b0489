package ltn2ch

import (
	"fmt"
	"sort"

	"github.com/paulmach/osm"
)

type RoadID int64
type IntersectionID int64

// RoadGraph is a read-only view over the road network which filter edits are
// placed upon. Identifiers are stable and never reused within a session.
type RoadGraph interface {
	// IncidentRoads returns roads incident to given intersection in stable
	// clockwise order
	IncidentRoads(i IntersectionID) []RoadID
	// RoadEndpoints returns identifiers of source and target intersections for given road
	RoadEndpoints(r RoadID) (IntersectionID, IntersectionID)
	// RoadLengthMeters returns length of given road in meters
	RoadLengthMeters(r RoadID) float64
	// IsDriveable reports whether given road is eligible for motor vehicle routing
	IsDriveable(r RoadID) bool
	// OnewayForDriving reports whether given road is one way for motor vehicles
	OnewayForDriving(r RoadID) bool
	// IsDeadendForDriving reports whether given road leads nowhere for motor vehicles
	IsDeadendForDriving(r RoadID) bool
}

// Road is a single carriageway segment between two intersections
type Road struct {
	geom         []GeoPoint
	name         string
	ID           RoadID
	osmWayID     osm.WayID
	sourceNodeID osm.NodeID
	targetNodeID osm.NodeID
	SourceID     IntersectionID
	TargetID     IntersectionID
	lengthMeters float64
	Oneway       bool
	driveable    bool
}

// Intersection is a junction node shared by two or more roads
type Intersection struct {
	geomGeo       GeoPoint
	ID            IntersectionID
	osmNodeID     osm.NodeID
	incidentRoads []RoadID
}

// Network implements RoadGraph over in-memory roads and intersections
type Network struct {
	roads         map[RoadID]*Road
	intersections map[IntersectionID]*Intersection
}

// NewNetwork returns empty road network
func NewNetwork() *Network {
	return &Network{
		roads:         make(map[RoadID]*Road),
		intersections: make(map[IntersectionID]*Intersection),
	}
}

// AddIntersection registers intersection with given identifier and position
func (net *Network) AddIntersection(id IntersectionID, pt GeoPoint) *Intersection {
	intersection := &Intersection{
		geomGeo: pt,
		ID:      id,
	}
	net.intersections[id] = intersection
	return intersection
}

// AddRoad registers road between two known intersections. Road length is
// evaluated from the geometry when it has not been set explicitly
func (net *Network) AddRoad(road *Road) error {
	if _, ok := net.intersections[road.SourceID]; !ok {
		return fmt.Errorf("No source intersection with ID '%d' for road '%d'", road.SourceID, road.ID)
	}
	if _, ok := net.intersections[road.TargetID]; !ok {
		return fmt.Errorf("No target intersection with ID '%d' for road '%d'", road.TargetID, road.ID)
	}
	if road.lengthMeters == 0 {
		road.lengthMeters = getSphericalLengthMeters(road.geom)
	}
	net.roads[road.ID] = road
	net.intersections[road.SourceID].incidentRoads = append(net.intersections[road.SourceID].incidentRoads, road.ID)
	net.intersections[road.TargetID].incidentRoads = append(net.intersections[road.TargetID].incidentRoads, road.ID)
	return nil
}

// SortIncidentRoads orders incident roads of every intersection clockwise
// (by initial bearing of each road leaving the intersection). Should be
// called once after all roads have been added
func (net *Network) SortIncidentRoads() {
	for _, intersection := range net.intersections {
		bearings := make(map[RoadID]float64, len(intersection.incidentRoads))
		for _, roadID := range intersection.incidentRoads {
			road := net.roads[roadID]
			line := road.geom
			if road.TargetID == intersection.ID {
				line = reverseLine(line)
			}
			if len(line) < 2 {
				bearings[roadID] = 0.0
				continue
			}
			bearings[roadID] = bearingDegrees(line[0], line[1])
		}
		sort.Slice(intersection.incidentRoads, func(i, j int) bool {
			left := intersection.incidentRoads[i]
			right := intersection.incidentRoads[j]
			if bearings[left] == bearings[right] {
				return left < right
			}
			return bearings[left] < bearings[right]
		})
	}
}

// IncidentRoads returns roads incident to given intersection in clockwise order
func (net *Network) IncidentRoads(i IntersectionID) []RoadID {
	intersection, ok := net.intersections[i]
	if !ok {
		return nil
	}
	return intersection.incidentRoads
}

// RoadEndpoints returns identifiers of source and target intersections for given road
func (net *Network) RoadEndpoints(r RoadID) (IntersectionID, IntersectionID) {
	road, ok := net.roads[r]
	if !ok {
		return -1, -1
	}
	return road.SourceID, road.TargetID
}

// RoadLengthMeters returns length of given road in meters
func (net *Network) RoadLengthMeters(r RoadID) float64 {
	road, ok := net.roads[r]
	if !ok {
		return 0.0
	}
	return road.lengthMeters
}

// IsDriveable reports whether given road is eligible for motor vehicle routing
func (net *Network) IsDriveable(r RoadID) bool {
	road, ok := net.roads[r]
	if !ok {
		return false
	}
	return road.driveable
}

// OnewayForDriving reports whether given road is one way for motor vehicles
func (net *Network) OnewayForDriving(r RoadID) bool {
	road, ok := net.roads[r]
	if !ok {
		return false
	}
	return road.Oneway
}

// IsDeadendForDriving reports whether one of road's endpoints has no other
// driveable road attached
func (net *Network) IsDeadendForDriving(r RoadID) bool {
	road, ok := net.roads[r]
	if !ok {
		return true
	}
	for _, endpoint := range [2]IntersectionID{road.SourceID, road.TargetID} {
		others := 0
		for _, incidentRoadID := range net.IncidentRoads(endpoint) {
			if incidentRoadID == r {
				continue
			}
			if net.IsDriveable(incidentRoadID) {
				others++
			}
		}
		if others == 0 {
			return true
		}
	}
	return false
}

// driveableRoads returns driveable incident roads of given intersection
// preserving the provider's clockwise order
func driveableRoads(graph RoadGraph, i IntersectionID) []RoadID {
	incident := graph.IncidentRoads(i)
	roads := make([]RoadID, 0, len(incident))
	for _, r := range incident {
		if graph.IsDriveable(r) {
			roads = append(roads, r)
		}
	}
	return roads
}
