package ltn2ch

// RoadFilter is a modal filter placed somewhere along a single road. Distance
// is measured in meters from the road's source intersection. The filter
// exists from the moment it is placed until it is removed and is owned by
// Edits.Roads under the road's key.
type RoadFilter struct {
	Dist         float64
	FilterType   FilterType
	UserModified bool
}

// NewRoadFilterByUser returns filter placed by the user (as opposed to
// filters inherited from a previous edit layer, which render dimmed but
// block movements all the same)
func NewRoadFilterByUser(dist float64, filterType FilterType) RoadFilter {
	return RoadFilter{
		Dist:         dist,
		FilterType:   filterType,
		UserModified: true,
	}
}
