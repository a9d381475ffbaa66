package engine

import (
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/roster"
)

// lineup maps the 22 pitch slots onto the two rosters.
type lineup struct {
	teams [2]*roster.Team
}

func (l *lineup) team(side geometry.Side) *roster.Team {
	return l.teams[side]
}

// Player returns the roster entry in slot, 0-10 home and 11-21 away.
func (l *lineup) Player(slot int) (*roster.Player, bool) {
	if slot < 0 || slot >= 2*roster.TeamSize {
		return nil, false
	}
	t := l.teams[geometry.SideOf(slot)]
	i := slot - geometry.SideOf(slot).Offset()
	if t == nil || i >= len(t.Players) {
		return nil, false
	}
	return &t.Players[i], true
}

func (l *lineup) Tempo(side geometry.Side) roster.Tempo {
	if t := l.teams[side]; t != nil && t.Tempo != "" {
		return t.Tempo
	}
	return roster.TempoNormal
}

// attr reads a 0-100 attribute, 50 when the slot is empty.
func (l *lineup) attr(slot int, get func(*roster.Attributes) float64) float64 {
	p, ok := l.Player(slot)
	if !ok {
		return 50
	}
	return get(&p.Attributes)
}
