package ltn2ch

import (
	"math"
	"testing"
)

// offsetPoint returns point placed at given bearing (degrees clockwise from
// the North) and given angular distance (degrees) from origin
func offsetPoint(origin GeoPoint, bearing, distDeg float64) GeoPoint {
	rad := degreesToRadians(bearing)
	return GeoPoint{
		Lat: origin.Lat + distDeg*math.Cos(rad),
		Lon: origin.Lon + distDeg*math.Sin(rad)/math.Cos(degreesToRadians(origin.Lat)),
	}
}

// makeStar builds an intersection (ID 0) with one arm road per given bearing.
// Arm roads get IDs 1..n and run from the center outward. Every arm continues
// with an extra road (IDs 100, 101, ...) so arms are not dead ends for
// driving. Roads listed in oneway get the flag set; roads listed in footpath
// are not driveable
func makeStar(t *testing.T, bearings []float64, oneway map[RoadID]bool, footpath map[RoadID]bool) *Network {
	t.Helper()
	net := NewNetwork()
	center := GeoPoint{Lat: 55.751849, Lon: 37.641735}
	net.AddIntersection(0, center)
	for idx, brng := range bearings {
		armEnd := offsetPoint(center, brng, 0.001)
		farEnd := offsetPoint(center, brng, 0.002)
		armNode := IntersectionID(idx*2 + 1)
		farNode := IntersectionID(idx*2 + 2)
		net.AddIntersection(armNode, armEnd)
		net.AddIntersection(farNode, farEnd)
		armID := RoadID(idx + 1)
		err := net.AddRoad(&Road{
			geom:      []GeoPoint{center, armEnd},
			ID:        armID,
			SourceID:  0,
			TargetID:  armNode,
			Oneway:    oneway[armID],
			driveable: !footpath[armID],
		})
		if err != nil {
			t.Fatalf("Can't add arm road: %v", err)
		}
		err = net.AddRoad(&Road{
			geom:      []GeoPoint{armEnd, farEnd},
			ID:        RoadID(100 + idx),
			SourceID:  armNode,
			TargetID:  farNode,
			driveable: !footpath[armID],
		})
		if err != nil {
			t.Fatalf("Can't add continuation road: %v", err)
		}
	}
	net.SortIncidentRoads()
	return net
}

// fourWay is a plain crossroads with arms 1 (north), 2 (east), 3 (south), 4 (west)
func fourWay(t *testing.T) *Network {
	return makeStar(t, []float64{0, 90, 180, 270}, nil, nil)
}

// threeWay is a T-junction with arms 1 (north), 2 (east), 3 (west)
func threeWay(t *testing.T) *Network {
	return makeStar(t, []float64{0, 90, 270}, nil, nil)
}
