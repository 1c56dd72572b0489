package ltn2ch

import (
	"sort"
)

// Crossing is a pedestrian crossing placed along a road. One road may carry
// several crossings; Edits keeps them sorted by increasing distance
type Crossing struct {
	Kind         CrossingType
	Dist         float64
	UserModified bool
}

// Edits is the per-session set of modal filter edits over a road network.
// Call BeforeEdit before applying any mutation so the previous state lands in
// the undo history. The history chain itself is never serialized.
type Edits struct {
	Roads         map[RoadID]RoadFilter
	Intersections map[IntersectionID]DiagonalFilter
	OneWays       map[RoadID]RoadEditState
	SpeedLimits   map[RoadID]float64
	Crossings     map[RoadID][]Crossing

	previousVersion *Edits
}

// NewEdits returns empty edit set
func NewEdits() *Edits {
	return &Edits{
		Roads:         make(map[RoadID]RoadFilter),
		Intersections: make(map[IntersectionID]DiagonalFilter),
		OneWays:       make(map[RoadID]RoadEditState),
		SpeedLimits:   make(map[RoadID]float64),
		Crossings:     make(map[RoadID][]Crossing),
	}
}

// PlaceRoadFilter inserts (or overwrites) a user placed filter on given road.
// The distance is not validated against the road's length; out of range
// values clamp to the nearest endpoint in geometric consumers
func (edits *Edits) PlaceRoadFilter(r RoadID, dist float64, filterType FilterType) {
	edits.Roads[r] = NewRoadFilterByUser(dist, filterType)
}

// RemoveRoadFilter deletes the filter on given road, if any
func (edits *Edits) RemoveRoadFilter(r RoadID) {
	delete(edits.Roads, r)
}

// SetRoadState overrides direction/speed state of given road
func (edits *Edits) SetRoadState(r RoadID, state RoadEditState) {
	edits.OneWays[r] = state
}

// SetSpeedLimit overrides speed limit (km/h) of given road
func (edits *Edits) SetSpeedLimit(r RoadID, speedKmh float64) {
	edits.SpeedLimits[r] = speedKmh
}

// AddCrossing places a user crossing on given road keeping the road's
// crossings sorted by increasing distance
func (edits *Edits) AddCrossing(r RoadID, kind CrossingType, dist float64) {
	crossings := edits.Crossings[r]
	idx := sort.Search(len(crossings), func(i int) bool {
		return crossings[i].Dist >= dist
	})
	crossings = append(crossings, Crossing{})
	copy(crossings[idx+1:], crossings[idx:])
	crossings[idx] = Crossing{
		Kind:         kind,
		Dist:         dist,
		UserModified: true,
	}
	edits.Crossings[r] = crossings
}

// AllowsTurn reports whether movement between two roads of given intersection
// is legal under current edits. Absence of a filter entry is the permissive
// case
func (edits *Edits) AllowsTurn(i IntersectionID, from, to RoadID) bool {
	if filter, ok := edits.Intersections[i]; ok {
		return filter.AllowsTurn(from, to)
	}
	return true
}

// BeforeEdit snapshots the current state into a new undo history node. Every
// logical mutation must be preceded by exactly one call; superseded snapshots
// are immutable from then on
func (edits *Edits) BeforeEdit() {
	edits.previousVersion = edits.clone()
}

// Undo rolls back to the most recent snapshot. Reports whether there was
// anything to roll back
func (edits *Edits) Undo() bool {
	if edits.previousVersion == nil {
		return false
	}
	*edits = *edits.previousVersion
	return true
}

// GetChangeKey returns an equality comparable snapshot of the legality
// relevant mappings. It logically changes every time an edit occurs
func (edits *Edits) GetChangeKey() ChangeKey {
	return ChangeKey{
		roads:         copyRoadFilters(edits.Roads),
		intersections: copyDiagonalFilters(edits.Intersections),
		oneWays:       copyRoadStates(edits.OneWays),
		crossings:     copyCrossings(edits.Crossings),
	}
}

// clone returns a deep copy of the mappings. The history pointer is carried
// over as is: older snapshots are immutable and safe to share
func (edits *Edits) clone() *Edits {
	speedLimits := make(map[RoadID]float64, len(edits.SpeedLimits))
	for r, speed := range edits.SpeedLimits {
		speedLimits[r] = speed
	}
	return &Edits{
		Roads:           copyRoadFilters(edits.Roads),
		Intersections:   copyDiagonalFilters(edits.Intersections),
		OneWays:         copyRoadStates(edits.OneWays),
		SpeedLimits:     speedLimits,
		Crossings:       copyCrossings(edits.Crossings),
		previousVersion: edits.previousVersion,
	}
}

func copyRoadFilters(src map[RoadID]RoadFilter) map[RoadID]RoadFilter {
	dst := make(map[RoadID]RoadFilter, len(src))
	for r, filter := range src {
		dst[r] = filter
	}
	return dst
}

func copyDiagonalFilters(src map[IntersectionID]DiagonalFilter) map[IntersectionID]DiagonalFilter {
	dst := make(map[IntersectionID]DiagonalFilter, len(src))
	for i, filter := range src {
		// Group contents are never mutated after construction, sharing the
		// backing arrays is safe
		dst[i] = filter
	}
	return dst
}

func copyRoadStates(src map[RoadID]RoadEditState) map[RoadID]RoadEditState {
	dst := make(map[RoadID]RoadEditState, len(src))
	for r, state := range src {
		dst[r] = state
	}
	return dst
}

func copyCrossings(src map[RoadID][]Crossing) map[RoadID][]Crossing {
	dst := make(map[RoadID][]Crossing, len(src))
	for r, crossings := range src {
		dst[r] = append([]Crossing{}, crossings...)
	}
	return dst
}
