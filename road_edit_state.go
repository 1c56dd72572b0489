package ltn2ch

// DirectionRestriction describes which directions of a road stay open for driving
type DirectionRestriction uint16

const (
	DIRECTION_BOTH = DirectionRestriction(iota + 1)
	DIRECTION_FORWARD
	DIRECTION_BACKWARD
	DIRECTION_UNDEFINED = DirectionRestriction(0)
)

func (iotaIdx DirectionRestriction) String() string {
	return [...]string{"undefined", "both", "forward", "backward"}[iotaIdx]
}

// RoadEditState is the current state of a road whose direction or speed limit
// has been modified by the user
type RoadEditState struct {
	Direction DirectionRestriction
	SpeedKmh  float64
}
