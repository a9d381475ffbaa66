package decision

import (
	"math"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// Shot gate distances in meters from the centre of the goal.
const (
	PointBlankM      = 5.0
	BoxDistanceM     = 16.5
	ArcDistanceM     = 25.0
	MaxShotDistanceM = 35.0

	crowdRadiusM          = 8.0
	shotBlockRadiusM      = 1.5
	normalizedToMeters    = 86.5
	finishingRangeM       = 18.0
	arcLongShotSkill      = 16.0
	wonderGoalLongShot    = 18.0
	wonderGoalProbability = 0.05
	passScoreCap          = 0.12
)

// HasClearShot casts a ray from pos to the centre of the attacked goal in
// normalized coordinates. An opponent between shooter and goal whose
// perpendicular distance to the ray is under the body-blocking radius
// blocks the shot.
func HasClearShot(pos geometry.Vec2, opponents []geometry.Vec2, attacksRight bool) bool {
	pw, pl := pos.ToNormalized()
	goalLength := 0.0
	if attacksRight {
		goalLength = 1
	}
	rayW, rayL := 0.5-pw, goalLength-pl
	raySq := rayW*rayW + rayL*rayL
	if raySq < 0.0001 {
		return true
	}
	for _, opp := range opponents {
		ow, ol := opp.ToNormalized()
		dw, dl := ow-pw, ol-pl
		proj := (rayW*dw + rayL*dl) / raySq
		if proj <= 0 || proj >= 1 {
			continue
		}
		perpW := ow - (pw + rayW*proj)
		perpL := ol - (pl + rayL*proj)
		if math.Sqrt(perpW*perpW+perpL*perpL)*normalizedToMeters < shotBlockRadiusM {
			return false
		}
	}
	return true
}

// CountNearby counts opponents strictly within radius meters of pos.
func CountNearby(pos geometry.Vec2, opponents []geometry.Vec2, radius float64) int {
	n := 0
	for _, opp := range opponents {
		if pos.Dist(opp) < radius {
			n++
		}
	}
	return n
}

// ShotGateInput is what the gate looks at.
type ShotGateInput struct {
	Distance      float64
	ClearShot     bool
	GoodAngle     bool
	NearbyDefence int
	// LongShots is the 0-100 attribute.
	LongShots float64
}

// ShotGate decides whether a shot may be attempted at all. roll is only
// consulted for the long-range zone and must return true with the given
// probability.
func ShotGate(in ShotGateInput, roll func(p float64) bool) bool {
	d := in.Distance
	switch {
	case d > MaxShotDistanceM:
		return false
	case in.NearbyDefence >= 2 && d > PointBlankM:
		return false
	case d < BoxDistanceM:
		if d < PointBlankM {
			return true
		}
		met := 0
		for _, ok := range []bool{in.ClearShot, in.NearbyDefence == 0, in.GoodAngle} {
			if ok {
				met++
			}
		}
		return met >= 2
	case d < ArcDistanceM:
		return in.ClearShot && (in.LongShots >= arcLongShotSkill || in.NearbyDefence == 0)
	}
	if in.ClearShot && in.LongShots >= wonderGoalLongShot && in.NearbyDefence == 0 {
		return roll(wonderGoalProbability)
	}
	return false
}

// BaseXG is the distance-decayed scoring chance, in [0.01, 0.85].
func BaseXG(distance float64) float64 {
	return geometry.Clamp(0.85*math.Exp(-0.12*distance), 0.01, 0.85)
}

// SkillMultiplier maps a 0-100 skill onto 0.6-1.4.
func SkillMultiplier(skill float64) float64 {
	return 0.6 + skill/100*0.8
}

// ShotScoreInput feeds ShotScore.
type ShotScoreInput struct {
	Distance          float64
	Finishing         float64
	LongShots         float64
	EffectivePressure float64
	GoodAngle         bool
	ClearShot         bool
}

// ShotScore is the expected value of shooting now.
func ShotScore(in ShotScoreInput) float64 {
	skill := in.LongShots
	if in.Distance < finishingRangeM {
		skill = in.Finishing
	}
	angle := 0.6
	if in.GoodAngle {
		angle = 1
	}
	clear := 0.5
	if in.ClearShot {
		clear = 1
	}
	return BaseXG(in.Distance) * SkillMultiplier(skill) * (1 - 0.6*in.EffectivePressure) * angle * clear
}

// BestPassScore is the value of the best teammate option: pass success
// probability times the positional gain towards goal, capped below the
// typical shot value.
func BestPassScore(pos geometry.Vec2, teammates []geometry.Vec2, attacksRight bool) float64 {
	mine := pos.DistanceToGoal(attacksRight)
	best := 0.0
	for _, t := range teammates {
		success := geometry.Clamp(1-pos.Dist(t)/60, 0.4, 0.9)
		theirs := t.DistanceToGoal(attacksRight)
		gain := 0.02
		if theirs < mine && mine > 0 {
			gain = (mine - theirs) / mine * 0.15
		}
		best = max(best, success*gain)
	}
	return min(best, passScoreCap)
}

// Selfishness scales the shot value by finishing: 0.8 to 1.2.
func Selfishness(finishing float64) float64 {
	return 0.8 + finishing/100*0.4
}
