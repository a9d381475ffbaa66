package decision

import "github.com/yellowhama/matchsim/internal/roster"

// baseWeights returns the shoot, dribble and pass weights for a position.
func baseWeights(pos roster.Position) (shoot, dribble, pass float64) {
	switch pos {
	case roster.PositionST, roster.PositionCF:
		return 0.025, 0.20, 0.50
	case roster.PositionLW, roster.PositionRW:
		return 0.015, 0.25, 0.50
	case roster.PositionCAM:
		return 0.018, 0.18, 0.55
	case roster.PositionCM, roster.PositionCDM:
		return 0.008, 0.12, 0.60
	case roster.PositionLM, roster.PositionRM:
		return 0.010, 0.20, 0.55
	case roster.PositionCB, roster.PositionLB, roster.PositionRB:
		return 0.003, 0.08, 0.70
	case roster.PositionGK:
		return 0.001, 0.02, 0.85
	default:
		return 0.010, 0.15, 0.55
	}
}

// ActionProbabilities weights the candidate actions of a player on the ball
// from position and instructions. The result sums to one.
func ActionProbabilities(in roster.Instructions, pos roster.Position, inAttackingThird bool) map[Action]float64 {
	in = in.WithDefaults()
	baseShoot, baseDribble, basePass := baseWeights(pos)
	probs := make(map[Action]float64, 8)

	shootMod := 1.0
	switch in.Shooting {
	case roster.ShootingOnSight:
		shootMod = 1.8
	case roster.ShootingConservative:
		shootMod = 0.4
	}
	shoot := baseShoot * shootMod
	if !inAttackingThird {
		shoot *= 0.3
	}
	probs[ActionShoot] = shoot

	dribbleMod := 1.0
	switch in.Dribbling {
	case roster.DribblingOften:
		dribbleMod = 1.6
	case roster.DribblingRarely:
		dribbleMod = 0.3
	}
	probs[ActionDribble] = baseDribble * dribbleMod

	short, long, through := 0.45, 0.30, 0.25
	switch in.Passing {
	case roster.PassingShort:
		short, long, through = 0.65, 0.15, 0.20
	case roster.PassingDirect:
		short, long, through = 0.25, 0.50, 0.25
	}
	probs[ActionShortPass] = basePass * short
	probs[ActionLongPass] = basePass * long
	probs[ActionThroughBall] = basePass * through

	crossBase := 0.05
	if pos.IsWide() {
		crossBase = 0.15
	}
	crossMod := 1.0
	switch in.Width {
	case roster.WidthStayWide:
		crossMod = 1.5
	case roster.WidthCutInside:
		crossMod = 0.5
	case roster.WidthRoam:
		crossMod = 0.8
	}
	probs[ActionCross] = crossBase * crossMod

	holdMod := 1.0
	switch in.Mentality {
	case roster.MentalityConservative:
		holdMod = 1.4
	case roster.MentalityAggressive:
		holdMod = 0.6
	}
	probs[ActionHold] = 0.10 * holdMod

	switch in.Mentality {
	case roster.MentalityAggressive:
		probs[ActionShoot] *= 1.2
		probs[ActionDribble] *= 1.15
		probs[ActionThroughBall] *= 1.2
	case roster.MentalityConservative:
		probs[ActionShortPass] *= 1.3
		probs[ActionShoot] *= 0.7
	}

	total := 0.0
	for _, p := range probs {
		total += p
	}
	if total > 0 {
		for a := range probs {
			probs[a] /= total
		}
	}
	return probs
}

// DefensiveContribution is how much a player helps out of possession, 0-1.5.
func DefensiveContribution(in roster.Instructions, pos roster.Position) float64 {
	in = in.WithDefaults()
	base := 0.5
	switch pos {
	case roster.PositionGK:
		base = 0
	case roster.PositionCB:
		base = 1.0
	case roster.PositionLB, roster.PositionRB, roster.PositionLWB, roster.PositionRWB:
		base = 0.85
	case roster.PositionCDM:
		base = 0.8
	case roster.PositionCM:
		base = 0.6
	case roster.PositionLM, roster.PositionRM:
		base = 0.5
	case roster.PositionCAM:
		base = 0.35
	case roster.PositionLW, roster.PositionRW:
		base = 0.3
	case roster.PositionCF:
		base = 0.25
	case roster.PositionST:
		base = 0.2
	}

	work := 1.0
	switch in.DefensiveWork {
	case roster.DefensiveWorkHigh:
		work = 1.5
	case roster.DefensiveWorkMinimal:
		work = 0.3
	}
	pressing := 1.0
	switch in.Pressing {
	case roster.PressingHigh:
		pressing = 1.3
	case roster.PressingLow:
		pressing = 0.7
	}
	depth := 1.0
	switch in.Depth {
	case roster.DepthStayBack:
		depth = 1.25
	case roster.DepthGetForward:
		depth = 0.6
	}
	return min(max(base*work*pressing*depth, 0), 1.5)
}

// OffensiveContribution is how much a player adds in possession, 0-1.5.
func OffensiveContribution(in roster.Instructions, pos roster.Position) float64 {
	in = in.WithDefaults()
	base := 0.5
	switch pos {
	case roster.PositionST, roster.PositionCF:
		base = 1.0
	case roster.PositionLW, roster.PositionRW:
		base = 0.9
	case roster.PositionCAM:
		base = 0.85
	case roster.PositionLM, roster.PositionRM:
		base = 0.7
	case roster.PositionCM:
		base = 0.6
	case roster.PositionLWB, roster.PositionRWB:
		base = 0.5
	case roster.PositionCDM:
		base = 0.4
	case roster.PositionLB, roster.PositionRB:
		base = 0.35
	case roster.PositionCB:
		base = 0.2
	case roster.PositionGK:
		base = 0.05
	}

	mentality := 1.0
	switch in.Mentality {
	case roster.MentalityAggressive:
		mentality = 1.3
	case roster.MentalityConservative:
		mentality = 0.7
	}
	depth := 1.0
	switch in.Depth {
	case roster.DepthGetForward:
		depth = 1.3
	case roster.DepthStayBack:
		depth = 0.7
	}
	shooting := 1.0
	switch in.Shooting {
	case roster.ShootingOnSight:
		shooting = 1.15
	case roster.ShootingConservative:
		shooting = 0.9
	}
	return min(max(base*mentality*depth*shooting, 0), 1.5)
}

// StaminaConsumption is the relative stamina drain rate, 0.6-1.8.
func StaminaConsumption(in roster.Instructions) float64 {
	in = in.WithDefaults()
	c := 1.0
	switch in.DefensiveWork {
	case roster.DefensiveWorkHigh:
		c *= 1.3
	case roster.DefensiveWorkMinimal:
		c *= 0.8
	}
	switch in.Pressing {
	case roster.PressingHigh:
		c *= 1.25
	case roster.PressingLow:
		c *= 0.85
	}
	switch in.Depth {
	case roster.DepthGetForward:
		c *= 1.15
	case roster.DepthStayBack:
		c *= 0.9
	}
	switch in.Mentality {
	case roster.MentalityAggressive:
		c *= 1.1
	case roster.MentalityConservative:
		c *= 0.95
	}
	return min(max(c, 0.6), 1.8)
}
