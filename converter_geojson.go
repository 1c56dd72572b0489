package ltn2ch

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// ExportEditsToGeoJSON returns feature collection with a point feature for
// every placed road filter and crossing and a line feature for every diagonal
// filter. Feature properties carry the filter kind so a renderer can pick an
// icon
func ExportEditsToGeoJSON(net *Network, edits *Edits) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for r, filter := range edits.Roads {
		pt := net.RoadFilterPosition(r, filter)
		feature := geojson.NewPointFeature([]float64{pt.Lon, pt.Lat})
		feature.SetProperty("kind", "road_filter")
		feature.SetProperty("road", int64(r))
		feature.SetProperty("filter_type", filter.FilterType.String())
		feature.SetProperty("user_modified", filter.UserModified)
		fc.AddFeature(feature)
	}

	for i, filter := range edits.Intersections {
		line := net.DiagonalFilterGeometry(filter)
		pts2d := make([][]float64, len(line))
		for idx := range line {
			pts2d[idx] = []float64{line[idx].Lon, line[idx].Lat}
		}
		feature := geojson.NewLineStringFeature(pts2d)
		feature.SetProperty("kind", "diagonal_filter")
		feature.SetProperty("intersection", int64(i))
		feature.SetProperty("filter_type", filter.FilterType.String())
		feature.SetProperty("user_modified", filter.userModified)
		anchor := net.DiagonalFilterMidpoint(filter)
		feature.SetProperty("icon_anchor", []float64{anchor.Lon, anchor.Lat})
		fc.AddFeature(feature)
	}

	for r, crossings := range edits.Crossings {
		for _, crossing := range crossings {
			pt := net.CrossingPosition(r, crossing)
			feature := geojson.NewPointFeature([]float64{pt.Lon, pt.Lat})
			feature.SetProperty("kind", "crossing")
			feature.SetProperty("road", int64(r))
			feature.SetProperty("crossing_type", crossing.Kind.String())
			feature.SetProperty("user_modified", crossing.UserModified)
			fc.AddFeature(feature)
		}
	}

	return fc.MarshalJSON()
}
