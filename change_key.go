package ltn2ch

// ChangeKey is a structural snapshot of the legality relevant mappings of an
// edit set. External caches (routing, traffic cell partitioning) must
// recompute exactly when two keys differ; object identity of the Edits value
// means nothing. Keys are never mutated after construction.
type ChangeKey struct {
	roads         map[RoadID]RoadFilter
	intersections map[IntersectionID]DiagonalFilter
	oneWays       map[RoadID]RoadEditState
	crossings     map[RoadID][]Crossing
}

// Equal reports whether both keys capture the same edit state
func (key ChangeKey) Equal(other ChangeKey) bool {
	if len(key.roads) != len(other.roads) {
		return false
	}
	for r, filter := range key.roads {
		otherFilter, ok := other.roads[r]
		if !ok || otherFilter != filter {
			return false
		}
	}
	if len(key.intersections) != len(other.intersections) {
		return false
	}
	for i, filter := range key.intersections {
		otherFilter, ok := other.intersections[i]
		if !ok || !equalDiagonalFilters(filter, otherFilter) {
			return false
		}
	}
	if len(key.oneWays) != len(other.oneWays) {
		return false
	}
	for r, state := range key.oneWays {
		otherState, ok := other.oneWays[r]
		if !ok || otherState != state {
			return false
		}
	}
	if len(key.crossings) != len(other.crossings) {
		return false
	}
	for r, crossings := range key.crossings {
		otherCrossings, ok := other.crossings[r]
		if !ok || len(crossings) != len(otherCrossings) {
			return false
		}
		for idx := range crossings {
			if crossings[idx] != otherCrossings[idx] {
				return false
			}
		}
	}
	return true
}

// equalDiagonalFilters is full structural equality, unlike approxEq it does
// not forgive FilterType or UserModified differences
func equalDiagonalFilters(a, b DiagonalFilter) bool {
	return a.r1 == b.r1 && a.r2 == b.r2 && a.i == b.i &&
		a.FilterType == b.FilterType && a.userModified == b.userModified &&
		equalRoads(a.group1, b.group1) && equalRoads(a.group2, b.group2)
}
