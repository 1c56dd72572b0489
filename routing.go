package ltn2ch

import (
	"sort"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// Movement is an ordered pair of roads meeting at an intersection
type Movement struct {
	From RoadID
	To   RoadID
}

// RoutingConstraints is what an edit set means to a routing engine: roads to
// drop from path search entirely and ordered road pairs which may not be
// chained at their shared intersection
type RoutingConstraints struct {
	ExcludedRoads      map[RoadID]struct{}
	ForbiddenMovements map[Movement]struct{}
}

// Project derives routing constraints from given edits. Pure and side effect
// free; recompute it whenever the edits' ChangeKey changes (the result is
// safe to cache under that key)
func Project(edits *Edits) RoutingConstraints {
	constraints := RoutingConstraints{
		ExcludedRoads:      make(map[RoadID]struct{}, len(edits.Roads)),
		ForbiddenMovements: make(map[Movement]struct{}),
	}
	for r := range edits.Roads {
		constraints.ExcludedRoads[r] = struct{}{}
	}
	for _, filter := range edits.Intersections {
		for _, movement := range filter.avoidMovementsBetweenRoads() {
			constraints.ForbiddenMovements[movement] = struct{}{}
		}
	}
	return constraints
}

// ExpandedEdge is an edge of the edge-expanded routing graph: its vertices
// are directed road traversals and the edge itself is a legal movement
// between two roads at their shared intersection
type ExpandedEdge struct {
	Geom       []GeoPoint
	ID         int64
	Source     int64
	Target     int64
	SourceRoad RoadID
	TargetRoad RoadID
	Via        IntersectionID
	CostMeters float64
}

// directedVertexID returns vertex label for a directed traversal of given
// road. Forward means source to target
func directedVertexID(r RoadID, forward bool) int64 {
	v := int64(r) * 2
	if !forward {
		v++
	}
	return v
}

// ExpandLegalMovements builds the edge-expanded legal movement graph for the
// network under given constraints. Roads under a road-level filter are
// dropped entirely; movements forbidden by diagonal filters and U-turns
// produce no edge. Cost of an edge is half the source road plus half the
// target road. Output is sorted by edge ID so repeated runs are comparable
func ExpandLegalMovements(net *Network, constraints RoutingConstraints) []ExpandedEdge {
	expanded := []ExpandedEdge{}
	edgeID := int64(0)

	intersectionIDs := make([]IntersectionID, 0, len(net.intersections))
	for i := range net.intersections {
		intersectionIDs = append(intersectionIDs, i)
	}
	sort.Slice(intersectionIDs, func(i, j int) bool { return intersectionIDs[i] < intersectionIDs[j] })

	for _, i := range intersectionIDs {
		incoming := incomingTraversals(net, i, constraints)
		outgoing := outgoingTraversals(net, i, constraints)
		for _, in := range incoming {
			for _, out := range outgoing {
				if in.road == out.road {
					// No U-turns in the expanded graph
					continue
				}
				if _, forbidden := constraints.ForbiddenMovements[Movement{From: in.road, To: out.road}]; forbidden {
					continue
				}
				source := net.roads[in.road]
				target := net.roads[out.road]
				cost := (source.lengthMeters + target.lengthMeters) / 2.0
				expanded = append(expanded, ExpandedEdge{
					Geom: []GeoPoint{
						pointAlongLine(source.geom, source.lengthMeters/2.0),
						net.intersections[i].geomGeo,
						pointAlongLine(target.geom, target.lengthMeters/2.0),
					},
					ID:         edgeID,
					Source:     directedVertexID(in.road, in.forward),
					Target:     directedVertexID(out.road, out.forward),
					SourceRoad: in.road,
					TargetRoad: out.road,
					Via:        i,
					CostMeters: cost,
				})
				edgeID++
			}
		}
	}
	return expanded
}

// BuildContractedGraph wraps expanded edges into a routing engine graph and
// optionally prepares contraction hierarchies
func BuildContractedGraph(edges []ExpandedEdge, contract bool) (*ch.Graph, error) {
	graph := ch.Graph{}
	for _, edge := range edges {
		err := graph.CreateVertex(edge.Source)
		if err != nil {
			return nil, errors.Wrap(err, "Can't create source vertex")
		}
		err = graph.CreateVertex(edge.Target)
		if err != nil {
			return nil, errors.Wrap(err, "Can't create target vertex")
		}
		err = graph.AddEdge(edge.Source, edge.Target, edge.CostMeters)
		if err != nil {
			return nil, errors.Wrap(err, "Can't wrap source and target vertices as edge")
		}
	}
	if contract {
		graph.PrepareContractionHierarchies()
	}
	return &graph, nil
}

type directedTraversal struct {
	road    RoadID
	forward bool
}

// incomingTraversals returns directed road traversals ending at given
// intersection, skipping non-driveable and excluded roads
func incomingTraversals(net *Network, i IntersectionID, constraints RoutingConstraints) []directedTraversal {
	traversals := []directedTraversal{}
	for _, r := range net.IncidentRoads(i) {
		if !net.IsDriveable(r) {
			continue
		}
		if _, excluded := constraints.ExcludedRoads[r]; excluded {
			continue
		}
		road := net.roads[r]
		if road.TargetID == i {
			traversals = append(traversals, directedTraversal{road: r, forward: true})
		}
		if road.SourceID == i && !road.Oneway {
			traversals = append(traversals, directedTraversal{road: r, forward: false})
		}
	}
	return traversals
}

// outgoingTraversals returns directed road traversals starting at given
// intersection, skipping non-driveable and excluded roads
func outgoingTraversals(net *Network, i IntersectionID, constraints RoutingConstraints) []directedTraversal {
	traversals := []directedTraversal{}
	for _, r := range net.IncidentRoads(i) {
		if !net.IsDriveable(r) {
			continue
		}
		if _, excluded := constraints.ExcludedRoads[r]; excluded {
			continue
		}
		road := net.roads[r]
		if road.SourceID == i {
			traversals = append(traversals, directedTraversal{road: r, forward: true})
		}
		if road.TargetID == i && !road.Oneway {
			traversals = append(traversals, directedTraversal{road: r, forward: false})
		}
	}
	return traversals
}
