// Package match keeps score between the two fighters: every landed punch
// costs the opponent health until one of them runs out.
package match

import (
	"github.com/okian/posefight/internal/domain/action"
	"github.com/okian/posefight/internal/domain/pose"
)

// Default match parameters.
const (
	DefaultStartingHealth = 100
	DefaultPunchDamage    = 1
)

// Fighter is the per-tick input for one role.
type Fighter struct {
	Present bool
	Action  action.Action
}

// Result reports the match after one tick.
type Result struct {
	Health [2]int
	Landed [2]bool // whether each role's punch cost the opponent health
	Winner pose.Role
}

// Match is owned by the game loop and is not safe for concurrent use.
type Match struct {
	startingHealth int
	damage         int

	health [2]int
	winner pose.Role
}

// New starts a match. Non-positive arguments fall back to the defaults.
func New(startingHealth, damage int) *Match {
	if startingHealth <= 0 {
		startingHealth = DefaultStartingHealth
	}
	if damage <= 0 {
		damage = DefaultPunchDamage
	}
	m := &Match{startingHealth: startingHealth, damage: damage}
	m.Reset()
	return m
}

// Apply scores one tick. A punch only lands while the opponent is present,
// and nothing lands once a winner is decided.
func (m *Match) Apply(p1, p2 Fighter) Result {
	var res Result
	fighters := [2]Fighter{p1, p2}

	if m.winner == pose.RoleNone {
		for i, role := range pose.Roles {
			opp := role.Opponent().Index()
			if !fighters[i].Action.IsPunch() || !fighters[opp].Present {
				continue
			}
			m.health[opp] = max(0, m.health[opp]-m.damage)
			res.Landed[i] = true
		}
		m.decide()
	}

	res.Health = m.health
	res.Winner = m.winner
	return res
}

// decide settles the winner once a health bar is empty. Simultaneous
// knockouts favour PLAYER_1, matching the order punches are scored.
func (m *Match) decide() {
	switch {
	case m.health[pose.Player2.Index()] == 0:
		m.winner = pose.Player1
	case m.health[pose.Player1.Index()] == 0:
		m.winner = pose.Player2
	}
}

// Health returns the current health of role.
func (m *Match) Health(role pose.Role) int {
	i := role.Index()
	if i < 0 {
		return 0
	}
	return m.health[i]
}

// Winner returns the winning role, or RoleNone while the match runs.
func (m *Match) Winner() pose.Role {
	return m.winner
}

// Reset restores full health and clears the winner.
func (m *Match) Reset() {
	m.health = [2]int{m.startingHealth, m.startingHealth}
	m.winner = pose.RoleNone
}
