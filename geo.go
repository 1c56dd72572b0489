package ltn2ch

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// diagonalGeometryOffsetMeters is how far from the intersection the endpoints
// of a drawn diagonal filter sit on their boundary roads
const diagonalGeometryOffsetMeters = 5.0

// RoadGeometry returns road's geometry as orb.LineString (longitude first)
func (net *Network) RoadGeometry(r RoadID) orb.LineString {
	road, ok := net.roads[r]
	if !ok {
		return nil
	}
	line := make(orb.LineString, len(road.geom))
	for i, pt := range road.geom {
		line[i] = orb.Point{pt.Lon, pt.Lat}
	}
	return line
}

// RoadFilterPosition returns the point where given road filter physically
// sits. Out of range distances clamp to the nearest end of the road
func (net *Network) RoadFilterPosition(r RoadID, filter RoadFilter) GeoPoint {
	road, ok := net.roads[r]
	if !ok {
		return GeoPoint{}
	}
	return pointAlongLine(road.geom, filter.Dist)
}

// CrossingPosition returns the point where given crossing physically sits
func (net *Network) CrossingPosition(r RoadID, crossing Crossing) GeoPoint {
	road, ok := net.roads[r]
	if !ok {
		return GeoPoint{}
	}
	return pointAlongLine(road.geom, crossing.Dist)
}

// DiagonalFilterGeometry returns the segment a diagonal filter is drawn as: a
// short line between its two boundary roads next to the intersection
func (net *Network) DiagonalFilterGeometry(filter DiagonalFilter) []GeoPoint {
	p1 := net.pointNearIntersection(filter.r1, filter.i)
	p2 := net.pointNearIntersection(filter.r2, filter.i)
	return []GeoPoint{p1, p2}
}

// DiagonalFilterMidpoint returns the middle of the drawn diagonal segment.
// Renderers center the filter icon on it
func (net *Network) DiagonalFilterMidpoint(filter DiagonalFilter) GeoPoint {
	line := net.DiagonalFilterGeometry(filter)
	return middlePointSegment(line[0], line[1])
}

// pointNearIntersection returns a point on given road a few meters away from
// given intersection end
func (net *Network) pointNearIntersection(r RoadID, i IntersectionID) GeoPoint {
	road, ok := net.roads[r]
	if !ok {
		return GeoPoint{}
	}
	line := road.geom
	if road.TargetID == i {
		line = reverseLine(line)
	}
	offset := diagonalGeometryOffsetMeters
	if road.lengthMeters/2.0 < offset {
		offset = road.lengthMeters / 2.0
	}
	return pointAlongLine(line, offset)
}

// PrepareWKTLinestring returns WKT representation of LineString
func PrepareWKTLinestring(pts []GeoPoint) string {
	line := make(orb.LineString, len(pts))
	for i := range pts {
		line[i] = orb.Point{pts[i].Lon, pts[i].Lat}
	}
	return wkt.MarshalString(line)
}

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt GeoPoint) string {
	return wkt.MarshalString(orb.Point{pt.Lon, pt.Lat})
}
