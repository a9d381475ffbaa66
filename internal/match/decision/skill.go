package decision

import "github.com/yellowhama/matchsim/internal/roster"

// SkillKind selects the blend used by PositionalSkillRating.
type SkillKind int

const (
	SkillShooting SkillKind = iota
	SkillPassing
	SkillDefending
)

// neutralSkill is used when a player cannot be resolved.
const neutralSkill = 0.5

// PositionalSkillRating blends the attributes that matter for kind at the
// player's position into 0-1. A nil player rates neutral.
func PositionalSkillRating(p *roster.Player, kind SkillKind) float64 {
	if p == nil {
		return neutralSkill
	}
	a := &p.Attributes
	n := roster.Normalize
	switch kind {
	case SkillShooting:
		switch p.Position {
		case roster.PositionST, roster.PositionCF:
			return n(a.Finishing)*0.6 + n(a.Composure)*0.4
		case roster.PositionCAM, roster.PositionLW, roster.PositionRW:
			return n(a.Finishing)*0.5 + n(a.LongShots)*0.5
		case roster.PositionCM, roster.PositionCDM:
			return n(a.LongShots)*0.7 + n(a.Technique)*0.3
		default:
			return n(a.Finishing)
		}
	case SkillPassing:
		switch p.Position {
		case roster.PositionCM, roster.PositionCAM, roster.PositionCDM:
			return n(a.Passing)*0.4 + n(a.Vision)*0.4 + n(a.Technique)*0.2
		case roster.PositionCB:
			return n(a.Passing)*0.6 + n(a.Vision)*0.4
		default:
			return n(a.Passing)*0.5 + n(a.Vision)*0.5
		}
	case SkillDefending:
		switch p.Position {
		case roster.PositionCB:
			return n(a.Marking)*0.4 + n(a.Positioning)*0.35 + n(a.Heading)*0.25
		case roster.PositionLB, roster.PositionRB, roster.PositionLWB, roster.PositionRWB:
			return n(a.Tackling)*0.4 + n(a.Pace)*0.3 + n(a.Positioning)*0.3
		case roster.PositionCDM:
			return n(a.Tackling)*0.35 + n(a.Anticipation)*0.35 + n(a.Positioning)*0.3
		default:
			return n(a.Tackling)
		}
	}
	return neutralSkill
}
