package positioning

import "github.com/yellowhama/matchsim/internal/match/geometry"

// Default gaps between the defensive, midfield and forward lines.
const (
	defMidGapM          = 22.0
	midFwdGapM          = 22.0
	lineSpacingStrength = 1.0
)

type line int

const (
	lineGK line = iota
	lineDef
	lineMid
	lineFwd
)

// lineOf maps a formation slot to its line: 1-4 defence, 5-8 midfield,
// 9-10 attack.
func lineOf(slot int) line {
	switch {
	case slot == 0:
		return lineGK
	case slot <= 4:
		return lineDef
	case slot <= 8:
		return lineMid
	default:
		return lineFwd
	}
}

type spacingParams struct {
	defMidGap float64
	midFwdGap float64
	strength  float64
}

var defaultSpacing = spacingParams{defMidGap: defMidGapM, midFwdGap: midFwdGapM, strength: lineSpacingStrength}

func spacingFromBias(b ShapeBias) spacingParams {
	return spacingParams{defMidGap: b.DefMidGap, midFwdGap: b.MidFwdGap, strength: b.LineSpacingStrength}
}

// enforceLineSpacing shifts each outfield line so that its average x sits at
// the ideal depth for the ball position. When roles is non-nil, players in
// roles with their own positioning logic neither count towards the averages
// nor move. The targets are returned unchanged if any line ends up empty.
func enforceLineSpacing(targets [TeamSize]geometry.Coord10, ballX float64, attacksRight bool, p spacingParams, roles *[TeamSize]Role) [TeamSize]geometry.Coord10 {
	skip := func(i int) bool {
		return roles != nil && roles[i].skipsRoleAwareSpacing()
	}

	var sum [4]float64
	var count [4]int
	for i, t := range targets {
		if skip(i) {
			continue
		}
		l := lineOf(i)
		sum[l] += t.Meters().X
		count[l]++
	}
	if count[lineDef] == 0 || count[lineMid] == 0 || count[lineFwd] == 0 {
		return targets
	}

	idealMid := geometry.Clamp(ballX, 25, 80)
	idealDef, idealFwd := idealMid-p.defMidGap, idealMid+p.midFwdGap
	if !attacksRight {
		idealDef, idealFwd = idealMid+p.defMidGap, idealMid-p.midFwdGap
	}

	var adjust [4]float64
	adjust[lineDef] = (idealDef - sum[lineDef]/float64(count[lineDef])) * p.strength
	adjust[lineMid] = (idealMid - sum[lineMid]/float64(count[lineMid])) * p.strength
	adjust[lineFwd] = (idealFwd - sum[lineFwd]/float64(count[lineFwd])) * p.strength

	out := targets
	for i, t := range targets {
		if skip(i) {
			continue
		}
		m := t.Meters()
		switch lineOf(i) {
		case lineDef:
			m.X = geometry.Clamp(m.X+adjust[lineDef], 5, 100)
		case lineMid:
			m.X = geometry.Clamp(m.X+adjust[lineMid], 15, 90)
		case lineFwd:
			m.X = geometry.Clamp(m.X+adjust[lineFwd], 20, 100)
		default:
			continue
		}
		out[i] = geometry.FromMeters(m)
	}
	return out
}
