package positioning

import (
	"slices"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// secondLastDefenderX returns the x of the second outfield defender from the
// end the opponents attack towards. The goalkeeper in slot 0 is ignored.
func secondLastDefenderX(positions []geometry.Vec2, highToLow bool) float64 {
	if len(positions) <= 1 {
		return geometry.CenterX
	}
	xs := make([]float64, 0, len(positions)-1)
	for _, p := range positions[1:] {
		xs = append(xs, p.X)
	}
	if len(xs) < 2 {
		return xs[0]
	}
	slices.Sort(xs)
	if highToLow {
		return xs[len(xs)-2]
	}
	return xs[1]
}

// OffsideLines holds the line each team's attackers must stay behind.
type OffsideLines struct {
	Home float64
	Away float64
}

// InitialOffsideLines places both lines on the goal lines.
func InitialOffsideLines() OffsideLines {
	return OffsideLines{Home: geometry.FieldLength, Away: 0}
}

// Update recomputes both lines. Home attacks towards x=105 in the first half
// and towards x=0 after the break.
func (o *OffsideLines) Update(home, away []geometry.Vec2, secondHalf bool) {
	if !secondHalf {
		o.Home = secondLastDefenderX(away, true)
		o.Away = secondLastDefenderX(home, false)
		return
	}
	o.Home = secondLastDefenderX(away, false)
	o.Away = secondLastDefenderX(home, true)
}

// For returns the line the given side's attackers play against.
func (o OffsideLines) For(side geometry.Side) float64 {
	if side == geometry.Home {
		return o.Home
	}
	return o.Away
}

// IsOffside reports whether an attacker at x is beyond the line.
func IsOffside(x, line float64, attacksRight bool) bool {
	if attacksRight {
		return x > line
	}
	return x < line
}
