package decision

import (
	"math"

	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/roster"
)

const (
	pressureTightRadiusM    = 1.5
	pressureExtendedRadiusM = 5.0
	angleFrontBlock         = 0.5
	angleBehindChase        = -0.3
	composureMinMitigation  = 0.1
	composureMaxMitigation  = 0.5
)

// PressureLevel buckets effective pressure.
type PressureLevel int

const (
	PressureNone PressureLevel = iota
	PressureLight
	PressureModerate
	PressureHeavy
	PressureExtreme
)

func (l PressureLevel) String() string {
	switch l {
	case PressureLight:
		return "LIGHT"
	case PressureModerate:
		return "MODERATE"
	case PressureHeavy:
		return "HEAVY"
	case PressureExtreme:
		return "EXTREME"
	default:
		return "NONE"
	}
}

// PressureContext summarizes the defenders closing down a player.
type PressureContext struct {
	NearestDefenderDistance float64
	// DefenderAngle is the cosine between the player's direction of travel
	// and the nearest defender: 1 in front, 0 beside, -1 behind.
	DefenderAngle     float64
	DefendersInRadius int
	RawPressure       float64
	EffectivePressure float64
	Level             PressureLevel
}

// ShouldReleaseBall is true with two or more defenders close or pressure
// above 0.6.
func (p PressureContext) ShouldReleaseBall() bool {
	return p.DefendersInRadius >= 2 || p.EffectivePressure > 0.6
}

// IsHeavilyPressured reports Heavy or Extreme pressure.
func (p PressureContext) IsHeavilyPressured() bool {
	return p.Level == PressureHeavy || p.Level == PressureExtreme
}

// ActionPenalty is the success penalty the pressure level imposes.
func (p PressureContext) ActionPenalty() float64 {
	switch p.Level {
	case PressureLight:
		return 0.05
	case PressureModerate:
		return 0.10
	case PressureHeavy:
		return 0.20
	case PressureExtreme:
		return 0.30
	default:
		return 0
	}
}

// CalculatePressure measures the pressure on a player at pos from the given
// opponents. moveDir may be zero, in which case the direction to the goal
// being attacked is used. composure is on the 0-100 scale.
func CalculatePressure(pos geometry.Vec2, opponents []geometry.Vec2, composure float64, moveDir geometry.Vec2, attacksRight bool) PressureContext {
	nearest := math.MaxFloat64
	nearestIdx := -1
	inRadius := 0
	total := 0.0
	for i, opp := range opponents {
		d := pos.Dist(opp)
		if d >= pressureExtendedRadiusM {
			continue
		}
		inRadius++
		total += distancePressure(d)
		if d < nearest {
			nearest, nearestIdx = d, i
		}
	}
	if nearestIdx < 0 {
		return PressureContext{NearestDefenderDistance: math.MaxFloat64}
	}

	angle := defenderAngle(pos, opponents[nearestIdx], moveDir, attacksRight)
	raw := geometry.Clamp(total*anglePressureMultiplier(angle), 0, 1)
	mitigation := composureMinMitigation + roster.Normalize(composure)*(composureMaxMitigation-composureMinMitigation)
	effective := max(raw-mitigation, 0)

	return PressureContext{
		NearestDefenderDistance: nearest,
		DefenderAngle:           angle,
		DefendersInRadius:       inRadius,
		RawPressure:             raw,
		EffectivePressure:       effective,
		Level:                   classifyPressure(effective, angle),
	}
}

// distancePressure decays linearly from 1 at the tight radius to 0 at the
// extended radius.
func distancePressure(d float64) float64 {
	switch {
	case d <= pressureTightRadiusM:
		return 1
	case d >= pressureExtendedRadiusM:
		return 0
	}
	return 1 - (d-pressureTightRadiusM)/(pressureExtendedRadiusM-pressureTightRadiusM)
}

func defenderAngle(pos, defender, moveDir geometry.Vec2, attacksRight bool) float64 {
	to := defender.Sub(pos)
	dist := to.Length()
	if dist < 0.001 {
		return 1
	}
	dir := moveDir
	if dir.Length() < 0.001 {
		dir = geometry.GoalCenter(attacksRight).Sub(pos)
		if dir.Length() < 0.001 {
			dir = geometry.V(1, 0)
			if !attacksRight {
				dir = geometry.V(-1, 0)
			}
		}
	}
	return dir.Normalized().Dot(to.Scale(1 / dist))
}

func anglePressureMultiplier(angle float64) float64 {
	switch {
	case angle > angleFrontBlock:
		return 1 + (angle - angleFrontBlock)
	case angle < angleBehindChase:
		return 0.5 + (angle+1)*0.25
	default:
		return 1
	}
}

func classifyPressure(effective, angle float64) PressureLevel {
	switch {
	case effective < 0.1:
		return PressureNone
	case effective < 0.3:
		return PressureLight
	case effective < 0.5:
		return PressureModerate
	case effective < 0.7 || angle < angleFrontBlock:
		return PressureHeavy
	default:
		return PressureExtreme
	}
}
