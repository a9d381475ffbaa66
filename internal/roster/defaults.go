package roster

import "fmt"

var defaultShape = [TeamSize]Position{
	PositionGK,
	PositionLB, PositionCB, PositionCB, PositionRB,
	PositionLM, PositionCM, PositionCM, PositionRM,
	PositionST, PositionST,
}

// Default builds a 4-4-2 line-up whose attributes centre on rating. It is
// used when no roster file is given.
func Default(name string, rating float64) *Team {
	team := &Team{
		Name:    name,
		Tactic:  "balanced",
		Shape:   "balanced",
		Tempo:   TempoNormal,
		Players: make([]Player, TeamSize),
	}
	for i, pos := range defaultShape {
		team.Players[i] = Player{
			Name:         fmt.Sprintf("%s %d", name, i+1),
			Number:       i + 1,
			Position:     pos,
			Attributes:   defaultAttributes(pos, rating),
			Instructions: Instructions{}.WithDefaults(),
		}
	}
	return team
}

func defaultAttributes(pos Position, rating float64) Attributes {
	clamp := func(v float64) float64 { return min(max(v, 1), 100) }
	a := Attributes{
		Finishing: rating - 10, LongShots: rating - 10, Composure: rating,
		Technique: rating, Passing: rating, Vision: rating, Dribbling: rating,
		Heading: rating, Marking: rating - 10, Tackling: rating - 10,
		Positioning: rating, Anticipation: rating, Pace: rating, Stamina: rating,
		Handling: 20, Reflexes: 20,
	}
	switch pos {
	case PositionGK:
		a.Handling, a.Reflexes = rating+10, rating+10
		a.Finishing, a.LongShots, a.Dribbling = 10, 10, 20
	case PositionCB, PositionLB, PositionRB:
		a.Marking, a.Tackling, a.Heading = rating+10, rating+10, rating+5
		a.Finishing = rating - 25
	case PositionST:
		a.Finishing, a.LongShots, a.Composure = rating+12, rating+2, rating+5
		a.Marking, a.Tackling = rating-30, rating-30
	}
	for _, p := range []*float64{
		&a.Finishing, &a.LongShots, &a.Composure, &a.Technique, &a.Passing, &a.Vision,
		&a.Dribbling, &a.Heading, &a.Marking, &a.Tackling, &a.Positioning, &a.Anticipation,
		&a.Pace, &a.Stamina, &a.Handling, &a.Reflexes,
	} {
		*p = clamp(*p)
	}
	return a
}
