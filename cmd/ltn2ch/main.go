package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/ltn2ch"
	"github.com/pkg/errors"
)

var (
	tagStr        = flag.String("tags", "motorway,primary,primary_link,road,secondary,secondary_link,residential,tertiary,tertiary_link,unclassified,trunk,trunk_link,motorway_link,living_street,service,cycleway,footway", "Set of needed tags (separated by commas)")
	osmFileName   = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm [*.xml] or *.osm.pbf file")
	editsFileName = flag.String("edits", "", "Filename of edit script ('Comma-Separated Values' with ';' separator). Commands: place;road;dist;filter_type | remove;road | cycle;intersection;filter_type | crossing;road;dist;crossing_type | oneway;road;direction | speed;road;kmh | undo")
	out           = flag.String("out", "my_graph.csv", "Filename of CSV formatted file. E.g.: if file name is 'map.csv' then 3 files will be produced: 'map.csv' (expanded edges), 'map_vertices.csv', 'map_shortcuts.csv'")
	geomFormat    = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	geojsonOut    = flag.String("geojson", "", "Filename of GeoJSON file for placed filters and crossings (keep empty to skip)")
	doContraction = flag.Bool("contract", true, "Prepare contraction hierarchies?")
	verbose       = flag.Bool("verbose", true, "Verbose output?")
)

func main() {
	flag.Parse()

	tags := strings.Split(*tagStr, ",")
	cfg := ltn2ch.OsmConfiguration{
		EntityName: "highway", // Currently we do not support others
		Tags:       tags,
	}

	net, err := ltn2ch.NetworkFromOSMFile(*osmFileName, &cfg, *verbose)
	if err != nil {
		fmt.Println(err)
		return
	}

	edits := ltn2ch.NewEdits()
	if *editsFileName != "" {
		err = applyEditScript(net, edits, *editsFileName)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	constraints := ltn2ch.Project(edits)
	if *verbose {
		fmt.Printf("Excluded roads: %d\n", len(constraints.ExcludedRoads))
		fmt.Printf("Forbidden movements: %d\n", len(constraints.ForbiddenMovements))
	}
	expandedEdges := ltn2ch.ExpandLegalMovements(net, constraints)

	fnamePart := strings.Split(*out, ".csv") // to guarantee proper filename and its extension
	fnameEdges := fmt.Sprintf(fnamePart[0] + ".csv")
	fnameVertices := fmt.Sprintf(fnamePart[0] + "_vertices.csv")
	fnameShortcuts := fmt.Sprintf(fnamePart[0] + "_shortcuts.csv")

	/* Edges file */
	fileEdges, err := os.Create(fnameEdges)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer fileEdges.Close()
	writerEdges := csv.NewWriter(fileEdges)
	defer writerEdges.Flush()
	writerEdges.Comma = ';'
	// 		from_vertex_id - int64, ID of source directed road traversal
	// 		to_vertex_id - int64, ID of target directed road traversal
	// 		weight - float64, Weight of an edge (meters)
	//      geom - geometry (WKT or GeoJSON representation)
	//      edge_id - int64, ID of generated edge
	// 		from_road - int64, ID of source road
	// 		to_road - int64, ID of target road
	// 		via_intersection - int64, ID of intersection the movement goes through
	err = writerEdges.Write([]string{"from_vertex_id", "to_vertex_id", "weight", "geom", "edge_id", "from_road", "to_road", "via_intersection"})
	if err != nil {
		fmt.Println(err)
		return
	}

	verticesGeoms := make(map[int64]ltn2ch.GeoPoint)
	for _, edge := range expandedEdges {
		if _, ok := verticesGeoms[edge.Source]; !ok {
			verticesGeoms[edge.Source] = edge.Geom[0]
		}
		if _, ok := verticesGeoms[edge.Target]; !ok {
			verticesGeoms[edge.Target] = edge.Geom[len(edge.Geom)-1]
		}
		geomStr := ""
		if strings.ToLower(*geomFormat) == "geojson" {
			geomStr = ltn2ch.PrepareGeoJSONLinestring(edge.Geom)
		} else {
			geomStr = ltn2ch.PrepareWKTLinestring(edge.Geom)
		}
		err = writerEdges.Write([]string{
			fmt.Sprintf("%d", edge.Source),
			fmt.Sprintf("%d", edge.Target),
			fmt.Sprintf("%f", edge.CostMeters),
			geomStr,
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.SourceRoad),
			fmt.Sprintf("%d", edge.TargetRoad),
			fmt.Sprintf("%d", edge.Via),
		})
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	if *verbose && *doContraction {
		fmt.Println("Starting contraction process....")
	}
	st := time.Now()
	graph, err := ltn2ch.BuildContractedGraph(expandedEdges, *doContraction)
	if err != nil {
		fmt.Println(err)
		return
	}
	if *verbose && *doContraction {
		fmt.Printf("Done contraction process in %v\n", time.Since(st))
	}

	/* Vertices file */
	fileVertices, err := os.Create(fnameVertices)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer fileVertices.Close()
	writerVertices := csv.NewWriter(fileVertices)
	defer writerVertices.Flush()
	writerVertices.Comma = ';'
	// 		vertex_id - int64, ID of vertex
	// 		order_pos - int, Position of vertex in hierarchies (evaluted by library)
	// 		importance - int, Importance of vertex in graph (evaluted by library)
	//      geom - geometry (WKT or GeoJSON representation)
	err = writerVertices.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		fmt.Println(err)
		return
	}
	vertices := graph.Vertices
	for i := 0; i < len(vertices); i++ {
		currentVertexExternal := vertices[i].Label
		vertexGeom := verticesGeoms[currentVertexExternal]
		geomStr := ""
		if strings.ToLower(*geomFormat) == "geojson" {
			geomStr = ltn2ch.PrepareGeoJSONPoint(vertexGeom)
		} else {
			geomStr = ltn2ch.PrepareWKTPoint(vertexGeom)
		}
		err = writerVertices.Write([]string{
			fmt.Sprintf("%d", currentVertexExternal),
			fmt.Sprintf("%d", graph.Vertices[i].OrderPos()),
			fmt.Sprintf("%d", graph.Vertices[i].Importance()),
			geomStr,
		})
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	if *doContraction {
		/* Write shortcuts */
		// 	from_vertex_id - int64, ID of source vertex
		// 	to_vertex_id - int64, ID of target vertex
		// 	weight - float64, Weight of an edge
		// 	via_vertex_id - int64, ID of vertex through which the shortcut exists
		err = graph.ExportShortcutsToFile(fnameShortcuts)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	if *geojsonOut != "" {
		b, err := ltn2ch.ExportEditsToGeoJSON(net, edits)
		if err != nil {
			fmt.Println(err)
			return
		}
		err = ioutil.WriteFile(*geojsonOut, b, 0644)
		if err != nil {
			fmt.Println(err)
			return
		}
	}
}

// applyEditScript replays edit commands from given file onto the edit set.
// Every mutating command snapshots the state first so 'undo' works the same
// way it does in an interactive session
func applyEditScript(net *ltn2ch.Network, edits *ltn2ch.Edits, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "Can't open edit script")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "Can't read edit script")
		}
		line++
		err = applyEditCommand(net, edits, record)
		if err != nil {
			return errors.Wrapf(err, "Can't apply edit script line %d", line)
		}
	}
	return nil
}

func applyEditCommand(net *ltn2ch.Network, edits *ltn2ch.Edits, record []string) error {
	if len(record) == 0 {
		return nil
	}
	switch record[0] {
	case "place":
		if len(record) != 4 {
			return fmt.Errorf("Command 'place' needs road, distance and filter type")
		}
		road, dist, err := parseRoadDist(record[1], record[2])
		if err != nil {
			return err
		}
		filterType := ltn2ch.ParseFilterType(record[3])
		if filterType == ltn2ch.FILTER_UNDEFINED {
			return fmt.Errorf("Unknown filter type '%s'", record[3])
		}
		edits.BeforeEdit()
		edits.PlaceRoadFilter(road, dist, filterType)
	case "remove":
		if len(record) != 2 {
			return fmt.Errorf("Command 'remove' needs road")
		}
		road, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Can't parse road '%s'", record[1])
		}
		edits.BeforeEdit()
		edits.RemoveRoadFilter(ltn2ch.RoadID(road))
	case "cycle":
		if len(record) != 3 {
			return fmt.Errorf("Command 'cycle' needs intersection and filter type")
		}
		intersection, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Can't parse intersection '%s'", record[1])
		}
		filterType := ltn2ch.ParseFilterType(record[2])
		if filterType == ltn2ch.FILTER_UNDEFINED {
			return fmt.Errorf("Unknown filter type '%s'", record[2])
		}
		edits.BeforeEdit()
		ltn2ch.CycleThroughAlternatives(net, edits, ltn2ch.IntersectionID(intersection), filterType)
	case "crossing":
		if len(record) != 4 {
			return fmt.Errorf("Command 'crossing' needs road, distance and crossing type")
		}
		road, dist, err := parseRoadDist(record[1], record[2])
		if err != nil {
			return err
		}
		crossingType := ltn2ch.ParseCrossingType(record[3])
		if crossingType == ltn2ch.CROSSING_UNDEFINED {
			return fmt.Errorf("Unknown crossing type '%s'", record[3])
		}
		edits.BeforeEdit()
		edits.AddCrossing(road, crossingType, dist)
	case "oneway":
		if len(record) != 3 {
			return fmt.Errorf("Command 'oneway' needs road and direction")
		}
		road, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Can't parse road '%s'", record[1])
		}
		var direction ltn2ch.DirectionRestriction
		switch record[2] {
		case "both":
			direction = ltn2ch.DIRECTION_BOTH
		case "forward":
			direction = ltn2ch.DIRECTION_FORWARD
		case "backward":
			direction = ltn2ch.DIRECTION_BACKWARD
		default:
			return fmt.Errorf("Unknown direction '%s'", record[2])
		}
		edits.BeforeEdit()
		edits.SetRoadState(ltn2ch.RoadID(road), ltn2ch.RoadEditState{Direction: direction})
	case "speed":
		if len(record) != 3 {
			return fmt.Errorf("Command 'speed' needs road and km/h value")
		}
		road, speed, err := parseRoadDist(record[1], record[2])
		if err != nil {
			return err
		}
		edits.BeforeEdit()
		edits.SetSpeedLimit(road, speed)
	case "undo":
		edits.Undo()
	default:
		return fmt.Errorf("Unknown command '%s'", record[0])
	}
	return nil
}

func parseRoadDist(roadStr, distStr string) (ltn2ch.RoadID, float64, error) {
	road, err := strconv.ParseInt(roadStr, 10, 64)
	if err != nil {
		return -1, 0, errors.Wrapf(err, "Can't parse road '%s'", roadStr)
	}
	dist, err := strconv.ParseFloat(distStr, 64)
	if err != nil {
		return -1, 0, errors.Wrapf(err, "Can't parse distance '%s'", distStr)
	}
	return ltn2ch.RoadID(road), dist, nil
}
