package engine

import "github.com/yellowhama/matchsim/internal/match/geometry"

// TeamStats are one side's match totals.
type TeamStats struct {
	Goals           int     `json:"goals"`
	Shots           int     `json:"shots"`
	ShotsOnTarget   int     `json:"shots_on_target"`
	ExpectedGoals   float64 `json:"xg"`
	Passes          int     `json:"passes"`
	PassesCompleted int     `json:"passes_completed"`
	Crosses         int     `json:"crosses"`
	Dribbles        int     `json:"dribbles"`
	Tackles         int     `json:"tackles"`
	TacklesWon      int     `json:"tackles_won"`
	Headers         int     `json:"headers"`
	Offsides        int     `json:"offsides"`
	Corners         int     `json:"corners"`
	ThrowIns        int     `json:"throw_ins"`
	GoalKicks       int     `json:"goal_kicks"`
	PossessionTicks int     `json:"possession_ticks"`
}

// PassAccuracy is the share of completed passes, 0 without attempts.
func (t TeamStats) PassAccuracy() float64 {
	if t.Passes == 0 {
		return 0
	}
	return float64(t.PassesCompleted) / float64(t.Passes)
}

// Stats are the totals of a match.
type Stats struct {
	Home TeamStats `json:"home"`
	Away TeamStats `json:"away"`
	// Decision mirrors the decision layer's counters by name.
	Decision map[string]uint64 `json:"decision"`
	// RandomDraws is the number of values taken from the match stream.
	RandomDraws uint64 `json:"random_draws"`
}

// Team returns the totals of one side.
func (s *Stats) Team(side geometry.Side) *TeamStats {
	if side == geometry.Home {
		return &s.Home
	}
	return &s.Away
}

// Possession is the home side's share of ticks with the ball.
func (s *Stats) Possession() float64 {
	total := s.Home.PossessionTicks + s.Away.PossessionTicks
	if total == 0 {
		return 0.5
	}
	return float64(s.Home.PossessionTicks) / float64(total)
}
