package ltn2ch

// FilterType describes the kind of modal filter placed on a road or an
// intersection. It determines the icon only: every filter type blocks the
// same movements for driving.
type FilterType uint16

const (
	FILTER_NO_ENTRY = FilterType(iota + 1)
	FILTER_WALK_CYCLE_ONLY
	FILTER_BUS_GATE
	FILTER_SCHOOL_STREET
	FILTER_UNDEFINED = FilterType(0)
)

func (iotaIdx FilterType) String() string {
	return [...]string{"undefined", "no_entry", "walk_cycle_only", "bus_gate", "school_street"}[iotaIdx]
}

// ParseFilterType returns FilterType for given alias. Returns FILTER_UNDEFINED for unknown aliases
func ParseFilterType(alias string) FilterType {
	switch alias {
	case "no_entry":
		return FILTER_NO_ENTRY
	case "walk_cycle_only":
		return FILTER_WALK_CYCLE_ONLY
	case "bus_gate":
		return FILTER_BUS_GATE
	case "school_street":
		return FILTER_SCHOOL_STREET
	}
	return FILTER_UNDEFINED
}

// CrossingType describes the kind of pedestrian crossing on a road
type CrossingType uint16

const (
	CROSSING_SIGNALIZED = CrossingType(iota + 1)
	CROSSING_UNSIGNALIZED
	CROSSING_UNDEFINED = CrossingType(0)
)

func (iotaIdx CrossingType) String() string {
	return [...]string{"undefined", "signalized", "unsignalized"}[iotaIdx]
}

// ParseCrossingType returns CrossingType for given alias. Returns CROSSING_UNDEFINED for unknown aliases
func ParseCrossingType(alias string) CrossingType {
	switch alias {
	case "signalized":
		return CROSSING_SIGNALIZED
	case "unsignalized":
		return CROSSING_UNSIGNALIZED
	}
	return CROSSING_UNDEFINED
}
