package ltn2ch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// OsmConfiguration allows to filter ways by certain tags from OSM data
type OsmConfiguration struct {
	EntityName string // Currently we support 'highway' only
	Tags       []string
}

// CheckTag checks if incoming tag is represented in configuration
func (cfg *OsmConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// Highway classes which motor vehicles can't use. Such roads still land in
// the network (they matter for crossings and rendering) but are not
// driveable
var nonDriveableHighways = map[string]struct{}{
	"footway":    {},
	"cycleway":   {},
	"path":       {},
	"steps":      {},
	"pedestrian": {},
	"bridleway":  {},
	"corridor":   {},
}

var junctionTypes = map[string]struct{}{
	"roundabout": {},
	"circular":   {},
}

type rawWay struct {
	name       string
	nodes      []osm.NodeID
	ID         osm.WayID
	oneway     bool
	isReversed bool
	driveable  bool
}

func prepareScanner(filename string, file *os.File) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(context.Background(), file), nil
	case ".pbf", ".osm.pbf":
		return osmpbf.New(context.Background(), file, 4), nil
	}
	return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
}

// NetworkFromOSMFile reads *.osm [*.xml] or *.osm.pbf file and builds the
// road network: ways are filtered by given configuration, split into roads at
// junction nodes and incident roads of every intersection are put into
// clockwise order
func NetworkFromOSMFile(filename string, cfg *OsmConfiguration, verbose bool) (*Network, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	/* Process ways */
	if verbose {
		fmt.Printf("\tProcessing ways... ")
	}
	st := time.Now()
	ways := []*rawWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	useCount := make(map[osm.NodeID]int)
	{
		scannerWays, err := prepareScanner(filename, file)
		if err != nil {
			return nil, err
		}
		defer scannerWays.Close()

		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != "way" {
				continue
			}
			way := obj.(*osm.Way)
			tagValue := way.Tags.Find(cfg.EntityName)
			if tagValue == "" || !cfg.CheckTag(tagValue) {
				continue
			}
			if len(way.Nodes) < 2 {
				continue
			}
			oneway := false
			isReversed := false
			onewayText := way.Tags.Find("oneway")
			if onewayText != "" {
				if onewayText == "yes" || onewayText == "1" {
					oneway = true
				} else if onewayText == "no" || onewayText == "0" {
					oneway = false
				} else if onewayText == "-1" {
					oneway = true
					isReversed = true
				} else {
					fmt.Printf("[WARNING]: Unhandled `oneway` tag value has been met: '%s'. Way ID: '%d'\n", onewayText, way.ID)
				}
			} else {
				junctionText := way.Tags.Find("junction")
				if _, ok := junctionTypes[junctionText]; ok {
					oneway = true
				}
			}
			_, notDriveable := nonDriveableHighways[tagValue]
			preparedWay := &rawWay{
				name:       way.Tags.Find("name"),
				nodes:      make([]osm.NodeID, 0, len(way.Nodes)),
				ID:         way.ID,
				oneway:     oneway,
				isReversed: isReversed,
				driveable:  !notDriveable,
			}
			for _, node := range way.Nodes {
				nodesSeen[node.ID] = struct{}{}
				preparedWay.nodes = append(preparedWay.nodes, node.ID)
			}
			// Mark shared nodes so ways can be split into roads at junctions
			counted := make(map[osm.NodeID]struct{}, len(preparedWay.nodes))
			for _, nodeID := range preparedWay.nodes {
				if _, ok := counted[nodeID]; ok {
					continue
				}
				counted[nodeID] = struct{}{}
				useCount[nodeID]++
			}
			ways = append(ways, preparedWay)
		}
		err = scannerWays.Err()
		if err != nil {
			return nil, err
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	if verbose {
		fmt.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	nodes := make(map[osm.NodeID]GeoPoint)
	{
		scannerNodes, err := prepareScanner(filename, file)
		if err != nil {
			return nil, err
		}
		defer scannerNodes.Close()

		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != "node" {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; ok {
				delete(nodesSeen, node.ID)
				nodes[node.ID] = GeoPoint{Lat: node.Lat, Lon: node.Lon}
			}
		}
		err = scannerNodes.Err()
		if err != nil {
			return nil, err
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	/* Split ways into roads and collect intersections */
	if verbose {
		fmt.Printf("\tBuilding road network... ")
	}
	st = time.Now()
	net := NewNetwork()
	intersectionIDs := make(map[osm.NodeID]IntersectionID)
	lastIntersectionID := IntersectionID(0)
	lastRoadID := RoadID(0)

	registerIntersection := func(nodeID osm.NodeID) (IntersectionID, error) {
		if id, ok := intersectionIDs[nodeID]; ok {
			return id, nil
		}
		pt, ok := nodes[nodeID]
		if !ok {
			return -1, fmt.Errorf("No coordinates for node '%d'", nodeID)
		}
		id := lastIntersectionID
		lastIntersectionID++
		intersectionIDs[nodeID] = id
		intersection := net.AddIntersection(id, pt)
		intersection.osmNodeID = nodeID
		return id, nil
	}

	for _, way := range ways {
		wayNodes := way.nodes
		if way.isReversed {
			reversed := make([]osm.NodeID, len(wayNodes))
			for i, nodeID := range wayNodes {
				reversed[len(wayNodes)-i-1] = nodeID
			}
			wayNodes = reversed
		}
		segmentStart := 0
		for idx := 1; idx < len(wayNodes); idx++ {
			junction := useCount[wayNodes[idx]] > 1
			if !junction && idx != len(wayNodes)-1 {
				continue
			}
			sourceID, err := registerIntersection(wayNodes[segmentStart])
			if err != nil {
				return nil, errors.Wrapf(err, "Can't register source intersection for way '%d'", way.ID)
			}
			targetID, err := registerIntersection(wayNodes[idx])
			if err != nil {
				return nil, errors.Wrapf(err, "Can't register target intersection for way '%d'", way.ID)
			}
			geom := make([]GeoPoint, 0, idx-segmentStart+1)
			for _, nodeID := range wayNodes[segmentStart : idx+1] {
				pt, ok := nodes[nodeID]
				if !ok {
					return nil, fmt.Errorf("No coordinates for node '%d' of way '%d'", nodeID, way.ID)
				}
				geom = append(geom, pt)
			}
			road := &Road{
				geom:         geom,
				name:         way.name,
				ID:           lastRoadID,
				osmWayID:     way.ID,
				sourceNodeID: wayNodes[segmentStart],
				targetNodeID: wayNodes[idx],
				SourceID:     sourceID,
				TargetID:     targetID,
				Oneway:       way.oneway,
				driveable:    way.driveable,
			}
			err = net.AddRoad(road)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't add road for way '%d'", way.ID)
			}
			lastRoadID++
			segmentStart = idx
		}
	}
	net.SortIncidentRoads()
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Number of roads: %d\n", len(net.roads))
		fmt.Printf("Number of intersections: %d\n", len(net.intersections))
	}
	return net, nil
}
