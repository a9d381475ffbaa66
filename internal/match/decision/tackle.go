package decision

import (
	"math"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

const (
	maxTackleStartM   = 5.0
	tacklePathRadiusM = 0.4
	approachSpeedMPS  = 4.0
	tickSeconds       = 0.25
	badAngleDegrees   = 150.0

	tackleChance         = 0.8
	tackleBadAngleChance = 0.3
)

// TackleResult classifies a tackle opportunity.
type TackleResult int

const (
	TackleCanAttempt TackleResult = iota
	TackleBadAngle
	TacklePathBlocked
	TackleTooFar
	TackleNotReady
	TackleOnCooldown
)

func (r TackleResult) String() string {
	switch r {
	case TackleCanAttempt:
		return "CAN_ATTEMPT"
	case TackleBadAngle:
		return "BAD_ANGLE"
	case TacklePathBlocked:
		return "PATH_BLOCKED"
	case TackleTooFar:
		return "TOO_FAR"
	case TackleNotReady:
		return "NOT_READY"
	default:
		return "ON_COOLDOWN"
	}
}

// TackleCheck is the classification plus, for attemptable tackles, the ticks
// needed to close in.
type TackleCheck struct {
	Result        TackleResult
	ApproachTicks uint8
}

// Attemptable is true for CanAttempt and BadAngle.
func (c TackleCheck) Attemptable() bool {
	return c.Result == TackleCanAttempt || c.Result == TackleBadAngle
}

// TackleInput describes a possible tackle on the ball holder.
type TackleInput struct {
	Tackler   int
	Holder    int
	TacklerAt geometry.Vec2
	HolderAt  geometry.Vec2
	Ball      geometry.Vec2
	// HolderFacing is the holder's heading in radians.
	HolderFacing float64
	Ready        bool
	Cooldown     uint8
	// Positions holds every player on the pitch, indexed by slot.
	Positions []geometry.Vec2
}

// CanAttemptTackle applies the body-blocking checks in order: readiness,
// cooldown, distance to the ball, a clear path and the approach angle.
func CanAttemptTackle(in TackleInput) TackleCheck {
	if !in.Ready {
		return TackleCheck{Result: TackleNotReady}
	}
	if in.Cooldown > 0 {
		return TackleCheck{Result: TackleOnCooldown}
	}
	dist := in.TacklerAt.Dist(in.Ball)
	if dist > maxTackleStartM {
		return TackleCheck{Result: TackleTooFar}
	}
	for i, p := range in.Positions {
		if i == in.Tackler || i == in.Holder {
			continue
		}
		if segmentDistance(p, in.TacklerAt, in.Ball) < tacklePathRadiusM {
			return TackleCheck{Result: TacklePathBlocked}
		}
	}
	ticks := ApproachTicks(dist)
	if ApproachAngle(in.TacklerAt, in.HolderAt, in.HolderFacing) > badAngleDegrees {
		return TackleCheck{Result: TackleBadAngle, ApproachTicks: ticks}
	}
	return TackleCheck{Result: TackleCanAttempt, ApproachTicks: ticks}
}

// ApproachTicks is the number of ticks to cover dist at approach speed,
// between 1 and 20.
func ApproachTicks(dist float64) uint8 {
	t := math.Ceil(dist / approachSpeedMPS / tickSeconds)
	return uint8(geometry.Clamp(t, 1, 20))
}

// ApproachAngle is the angle in degrees between the target's facing and the
// direction to the tackler: 0 head on, 180 from behind.
func ApproachAngle(tackler, target geometry.Vec2, facing float64) float64 {
	to := tackler.Sub(target)
	if to.Length() < 0.001 {
		return 0
	}
	forward := geometry.V(math.Cos(facing), math.Sin(facing))
	dot := geometry.Clamp(to.Normalized().Dot(forward), -1, 1)
	return math.Acos(dot) * 180 / math.Pi
}

func segmentDistance(p, a, b geometry.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := geometry.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}
