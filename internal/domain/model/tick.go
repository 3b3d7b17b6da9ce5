// Package model contains the values the game loop publishes to the
// outer layers (HTTP API, spectator feed).
package model

import (
	"time"

	"github.com/okian/posefight/internal/domain/action"
	"github.com/okian/posefight/internal/domain/pose"
)

// PlayerState is one role's view after a tick.
type PlayerState struct {
	Role      pose.Role     `json:"role"`
	Connected bool          `json:"connected"`
	Present   bool          `json:"present"` // a pose was visible this tick
	Action    action.Action `json:"action"`
	State     action.State  `json:"state"`
	Health    int           `json:"health"`
	Landed    bool          `json:"landed"`

	LeftElbowDeg    float64 `json:"left_elbow_deg"`
	RightElbowDeg   float64 `json:"right_elbow_deg"`
	LeftWristSpeed  float64 `json:"left_wrist_speed"`
	RightWristSpeed float64 `json:"right_wrist_speed"`
}

// TickResult is everything one game loop iteration decided.
type TickResult struct {
	Tick    uint64         `json:"tick"`
	At      time.Time      `json:"at"`
	Players [2]PlayerState `json:"players"`
	Winner  pose.Role      `json:"winner"`
}

// Player returns the state for role. RoleNone yields the zero value.
func (r TickResult) Player(role pose.Role) PlayerState { //nolint:gocritic // hugeParam: callers use returned values
	i := role.Index()
	if i < 0 {
		return PlayerState{}
	}
	return r.Players[i]
}

// Actions lists the punches thrown this tick in role order.
func (r TickResult) Actions() []action.Action { //nolint:gocritic // hugeParam: callers use returned values
	var out []action.Action
	for _, p := range r.Players {
		if p.Action.IsPunch() {
			out = append(out, p.Action)
		}
	}
	return out
}
