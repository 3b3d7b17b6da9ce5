// Package action turns a stream of smoothed pose frames into discrete
// combat actions.
package action

// Action is a label emitted once per frame by the Detector.
type Action string

const (
	Idle       Action = "IDLE"
	PunchLeft  Action = "PUNCH_LEFT"
	PunchRight Action = "PUNCH_RIGHT"
)

// IsPunch reports whether a is one of the punch actions.
func (a Action) IsPunch() bool {
	return a == PunchLeft || a == PunchRight
}

// State is the detector's debounce state.
type State string

const (
	Active   State = "ACTIVE"
	Cooldown State = "COOLDOWN"
)
