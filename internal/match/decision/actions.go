// Package decision picks the next action for a player: headers, tackles, the
// shoot-or-pass gate and a single softmax draw over instruction-weighted
// candidates.
package decision

// Action is a discrete player action.
type Action int

const (
	ActionPass Action = iota
	ActionShortPass
	ActionLongPass
	ActionThroughBall
	ActionCross
	ActionShoot
	ActionDribble
	ActionTakeOn
	ActionHold
	ActionTackle
	ActionHeader
)

var actionNames = [...]string{
	ActionPass:        "Pass",
	ActionShortPass:   "ShortPass",
	ActionLongPass:    "LongPass",
	ActionThroughBall: "ThroughBall",
	ActionCross:       "Cross",
	ActionShoot:       "Shoot",
	ActionDribble:     "Dribble",
	ActionTakeOn:      "TakeOn",
	ActionHold:        "Hold",
	ActionTackle:      "Tackle",
	ActionHeader:      "Header",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// IsPass is true for every passing variant, crosses included.
func (a Action) IsPass() bool {
	switch a {
	case ActionPass, ActionShortPass, ActionLongPass, ActionThroughBall, ActionCross:
		return true
	}
	return false
}
