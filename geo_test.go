package ltn2ch

import (
	"math"
	"strings"
	"testing"
)

func TestRoadGeometry(t *testing.T) {
	net := threeWay(t)
	line := net.RoadGeometry(1)
	if len(line) != 2 {
		t.Fatalf("Road 1 geometry must keep its 2 points, but got %d", len(line))
	}
	road := net.roads[1]
	for i := range line {
		if line[i][0] != road.geom[i].Lon || line[i][1] != road.geom[i].Lat {
			t.Errorf("Point %d must be longitude first as [%f, %f], but got %v", i, road.geom[i].Lon, road.geom[i].Lat, line[i])
		}
	}
	if net.RoadGeometry(999) != nil {
		t.Errorf("Unknown road must have no geometry")
	}
}

func TestPrepareWKT(t *testing.T) {
	line := []GeoPoint{
		{Lat: 55.75, Lon: 37.64},
		{Lat: 55.76, Lon: 37.65},
	}
	lineWKT := PrepareWKTLinestring(line)
	if !strings.HasPrefix(lineWKT, "LINESTRING") {
		t.Errorf("Line must marshal as WKT LINESTRING, but got '%s'", lineWKT)
	}
	if !strings.Contains(lineWKT, "37.64 55.75") {
		t.Errorf("WKT linestring must contain longitude first coordinates, but got '%s'", lineWKT)
	}
	pointWKT := PrepareWKTPoint(GeoPoint{Lat: 55.75, Lon: 37.64})
	if pointWKT != "POINT(37.64 55.75)" {
		t.Errorf("Point WKT must be 'POINT(37.64 55.75)', but got '%s'", pointWKT)
	}
}

func TestDiagonalFilterGeometry(t *testing.T) {
	net := fourWay(t)
	filter := newDiagonalFilter(net, 0, 1, 2, FILTER_WALK_CYCLE_ONLY)

	line := net.DiagonalFilterGeometry(filter)
	if len(line) != 2 {
		t.Fatalf("Diagonal geometry must be a 2 point segment, but got %v", line)
	}
	center := net.intersections[0].geomGeo
	for i := range line {
		offMeters := greatCircleDistance(center, line[i]) * 1000.0
		if offMeters > 2.0*diagonalGeometryOffsetMeters {
			t.Errorf("Segment endpoint %d must sit next to the intersection, but is %f meters away", i, offMeters)
		}
	}

	mid := net.DiagonalFilterMidpoint(filter)
	expected := middlePointSegment(line[0], line[1])
	if mid != expected {
		t.Errorf("Icon anchor must be the middle of the segment %v, but got %v", expected, mid)
	}
	if math.Abs(mid.Lat-center.Lat) > 0.001 || math.Abs(mid.Lon-center.Lon) > 0.001 {
		t.Errorf("Icon anchor must land near the intersection %v, but got %v", center, mid)
	}
}
