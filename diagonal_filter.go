package ltn2ch

import (
	"fmt"
	"sort"
)

// DiagonalFilter is a modal filter living in an intersection. It's defined by
// two of the intersection's roads (the order is arbitrary). When the
// intersection's driveable roads are listed in clockwise order, this pair
// splits the ring into two groups. Turns within each group are still
// possible, but not across groups.
//
// Compare instances with approxEq, not ==: the same partition can be built
// starting from either boundary road.
type DiagonalFilter struct {
	group1 []RoadID
	group2 []RoadID

	r1 RoadID
	r2 RoadID
	i  IntersectionID

	FilterType   FilterType
	userModified bool
}

// newDiagonalFilter builds the group partition for the given boundary roads.
// Both roads must be driveable roads of the intersection; the intersection
// must have at least 2 driveable roads. For 4-way intersections the two
// groups always come out with exactly 2 members each; any other outcome is a
// broken caller contract and panics.
func newDiagonalFilter(graph RoadGraph, i IntersectionID, r1, r2 RoadID, filterType FilterType) DiagonalFilter {
	ring := driveableRoads(graph, i)
	fourWay := len(ring) == 4

	// Rotate the ring so r1 is the first entry
	start := -1
	for idx, r := range ring {
		if r == r1 {
			start = idx
			break
		}
	}
	if start < 0 {
		panic(fmt.Sprintf("Road '%d' is not a driveable road of intersection '%d'", r1, i))
	}
	rotated := make([]RoadID, 0, len(ring))
	rotated = append(rotated, ring[start:]...)
	rotated = append(rotated, ring[:start]...)

	// Walk from the front, consuming one contiguous arc through r2 inclusive
	cut := -1
	for idx, r := range rotated {
		if r == r2 {
			cut = idx + 1
			break
		}
	}
	if cut < 0 {
		panic(fmt.Sprintf("Road '%d' is not a driveable road of intersection '%d'", r2, i))
	}
	if cut == len(rotated) {
		// The pair was given against the ring order; the same partition is
		// reached by walking from the other boundary road
		return newDiagonalFilter(graph, i, r2, r1, filterType)
	}

	group1 := append([]RoadID{}, rotated[:cut]...)
	group2 := append([]RoadID{}, rotated[cut:]...)
	if fourWay && (len(group1) != 2 || len(group2) != 2) {
		panic(fmt.Sprintf("Roads '%d' and '%d' split 4-way intersection '%d' into groups of %d and %d", r1, r2, i, len(group1), len(group2)))
	}
	sort.Slice(group1, func(i, j int) bool { return group1[i] < group1[j] })
	sort.Slice(group2, func(i, j int) bool { return group2[i] < group2[j] })

	return DiagonalFilter{
		group1: group1,
		group2: group2,
		r1:     r1,
		r2:     r2,
		i:      i,
		// Existing physical diagonal filters are not detected yet
		userModified: true,
		FilterType:   filterType,
	}
}

// Intersection returns identifier of the intersection this filter lives in
func (df DiagonalFilter) Intersection() IntersectionID {
	return df.i
}

// AllowsTurn reports whether movement between two roads of the intersection
// stays legal under this filter. Legal movements keep both roads on the same
// side of the filter
func (df DiagonalFilter) AllowsTurn(from, to RoadID) bool {
	return containsRoad(df.group1, from) == containsRoad(df.group1, to)
}

// avoidMovementsBetweenRoads returns every ordered road pair crossing the
// filter, in both directions
func (df DiagonalFilter) avoidMovementsBetweenRoads() []Movement {
	pairs := make([]Movement, 0, 2*len(df.group1)*len(df.group2))
	for _, from := range df.group1 {
		for _, to := range df.group2 {
			pairs = append(pairs, Movement{From: from, To: to})
			pairs = append(pairs, Movement{From: to, To: from})
		}
	}
	return pairs
}

// canonicalGroups returns the two groups in an order independent from which
// boundary road the filter was built from
func (df DiagonalFilter) canonicalGroups() ([]RoadID, []RoadID) {
	if len(df.group1) == 0 || (len(df.group2) > 0 && df.group2[0] < df.group1[0]) {
		return df.group2, df.group1
	}
	return df.group1, df.group2
}

// approxEq compares the partitions as unordered structural data: the stored
// (r1, r2) pair is compared as a set and the groups are compared after
// canonical ordering.
//
// Note this ignores FilterType: cycling through alternatives treats filters
// of different types at the same position as the same state.
func (df DiagonalFilter) approxEq(other DiagonalFilter) bool {
	if df.i != other.i {
		return false
	}
	b1, b2 := orderedPair(df.r1, df.r2)
	o1, o2 := orderedPair(other.r1, other.r2)
	if b1 != o1 || b2 != o2 {
		return false
	}
	dfFirst, dfSecond := df.canonicalGroups()
	otherFirst, otherSecond := other.canonicalGroups()
	return equalRoads(dfFirst, otherFirst) && equalRoads(dfSecond, otherSecond)
}

// CycleThroughAlternatives advances intersection to its next available filter
// configuration. For 4-way intersections (the only place where true diagonal
// filters exist) the states are: no filter, first diagonal, second diagonal,
// no filter again. Elsewhere a diagonal filter is equivalent to filtering a
// single road, so the cycle walks a road-level filter through the eligible
// roads and then clears it.
//
// The caller must wrap this single logical mutation in the snapshot-first
// convention (see Edits.BeforeEdit).
func CycleThroughAlternatives(graph RoadGraph, edits *Edits, i IntersectionID, filterType FilterType) {
	roads := driveableRoads(graph, i)

	if len(roads) == 4 {
		alt1 := newDiagonalFilter(graph, i, roads[0], roads[1], filterType)
		alt2 := newDiagonalFilter(graph, i, roads[1], roads[2], filterType)

		prev, ok := edits.Intersections[i]
		if !ok {
			edits.Intersections[i] = alt1
			return
		}
		if alt1.approxEq(prev) {
			edits.Intersections[i] = alt2
		} else if alt2.approxEq(prev) {
			delete(edits.Intersections, i)
		} else {
			panic(fmt.Sprintf("Existing filter at intersection '%d' matches neither alternative", i))
		}
		return
	}

	if len(roads) > 1 {
		// Skip roads that aren't filterable
		eligible := make([]RoadID, 0, len(roads))
		for _, r := range roads {
			if !graph.OnewayForDriving(r) && !graph.IsDeadendForDriving(r) {
				eligible = append(eligible, r)
			}
		}
		if len(eligible) == 0 {
			return
		}

		addFilterTo := RoadID(-1)
		place := false
		removed := false
		for idx, r := range eligible {
			if _, ok := edits.Roads[r]; !ok {
				continue
			}
			delete(edits.Roads, r)
			removed = true
			if idx != len(eligible)-1 {
				addFilterTo = eligible[idx+1]
				place = true
			}
			break
		}
		if !removed {
			addFilterTo = eligible[0]
			place = true
		}
		if place {
			dist := graph.RoadLengthMeters(addFilterTo)
			if src, _ := graph.RoadEndpoints(addFilterTo); src == i {
				dist = 0.0
			}
			edits.Roads[addFilterTo] = NewRoadFilterByUser(dist, filterType)
		}
	}
	// A single road or a disconnected stub can't be meaningfully filtered
}

func containsRoad(roads []RoadID, r RoadID) bool {
	for i := range roads {
		if roads[i] == r {
			return true
		}
	}
	return false
}

func equalRoads(a, b []RoadID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func orderedPair(a, b RoadID) (RoadID, RoadID) {
	if b < a {
		return b, a
	}
	return a, b
}
