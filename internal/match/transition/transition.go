// Package transition models the short window after a turnover during which the
// team that lost the ball presses harder and loosens its marks.
package transition

import "github.com/yellowhama/matchsim/internal/match/geometry"

const (
	// WindowMs is how long a transition lasts after a possession change.
	WindowMs = 3000
	// DefaultTickMs is the standard decision cadence.
	DefaultTickMs = 250
)

// State is the current transition window. The zero value is inactive.
type State struct {
	Active       bool
	RemainingMs  int
	TeamLostBall geometry.Side
}

// LostBall reports whether the window is open against the given side.
func (s State) LostBall(side geometry.Side) bool {
	return s.Active && s.TeamLostBall == side
}

// System tracks the transition window across ticks.
type System struct {
	state  State
	tickMs int
}

// NewSystem creates an inactive transition system that counts down tickMs
// per update. Non-positive values fall back to DefaultTickMs.
func NewSystem(tickMs int) *System {
	if tickMs <= 0 {
		tickMs = DefaultTickMs
	}
	return &System{tickMs: tickMs}
}

// TickMs returns the countdown step.
func (s *System) TickMs() int {
	return s.tickMs
}

// State returns the current window.
func (s *System) State() State {
	return s.state
}

// Update advances the window by one decision tick. A possession change opens
// a full window without decrementing on the same tick; prevHomeHadBall names
// the side that lost the ball.
func (s *System) Update(possessionChanged, prevHomeHadBall bool) {
	if possessionChanged {
		lost := geometry.Away
		if prevHomeHadBall {
			lost = geometry.Home
		}
		s.state = State{Active: true, RemainingMs: WindowMs, TeamLostBall: lost}
		return
	}
	if !s.state.Active {
		return
	}
	s.state.RemainingMs -= s.tickMs
	if s.state.RemainingMs <= 0 {
		s.state = State{}
	}
}

// Reset closes any open window, used on restarts.
func (s *System) Reset() {
	s.state = State{}
}
