package marking

// NoMark is the primary mark value of a defender without an assignment.
const NoMark = -1

// ZoneRole is the area a defender is responsible for when not man-marking.
type ZoneRole int

const (
	ZoneRoleHomeZone ZoneRole = iota
	ZoneRoleLaneGuard
	ZoneRoleBoxGuard
)

func (z ZoneRole) String() string {
	switch z {
	case ZoneRoleHomeZone:
		return "HOME_ZONE"
	case ZoneRoleLaneGuard:
		return "LANE_GUARD"
	case ZoneRoleBoxGuard:
		return "BOX_GUARD"
	default:
		return "UNKNOWN"
	}
}

// MarkMode is how closely a defender follows its assigned attacker.
type MarkMode int

const (
	// MarkTight stays within about 2 m.
	MarkTight MarkMode = iota
	// MarkNormal stays within 2-5 m.
	MarkNormal
	// MarkLoose drifts 5-10 m, zone first.
	MarkLoose
)

func (m MarkMode) String() string {
	switch m {
	case MarkTight:
		return "TIGHT"
	case MarkNormal:
		return "NORMAL"
	case MarkLoose:
		return "LOOSE"
	default:
		return "UNKNOWN"
	}
}

// MarkState is one defender's marking assignment.
type MarkState struct {
	PrimaryMarkID       int
	ZoneRole            ZoneRole
	Mode                MarkMode
	LastReassignTick    uint64
	IsEmergencyPresser  bool
	IsCover             bool
	BrokenDurationTicks uint8
}

// DefaultMarkState returns an unassigned state.
func DefaultMarkState() MarkState {
	return MarkState{
		PrimaryMarkID: NoMark,
		ZoneRole:      ZoneRoleHomeZone,
		Mode:          MarkNormal,
	}
}

// HasMark reports whether the defender is assigned to a valid attacker.
func (s MarkState) HasMark() bool {
	return s.PrimaryMarkID >= 0 && s.PrimaryMarkID < TeamSize
}

// maxPressBudget caps the effective press budget regardless of bonuses.
const maxPressBudget = 2

// RoleBudget limits how many defenders may press or cover at once.
type RoleBudget struct {
	PressBudget     int
	CoverBudget     int
	PressBudgetTemp int
}

// HighPressBudget commits two pressers and one cover.
func HighPressBudget() RoleBudget {
	return RoleBudget{PressBudget: 2, CoverBudget: 1, PressBudgetTemp: 2}
}

// BalancedBudget commits one presser and one cover.
func BalancedBudget() RoleBudget {
	return RoleBudget{PressBudget: 1, CoverBudget: 1, PressBudgetTemp: 1}
}

// LowBlockBudget commits one presser and two covers.
func LowBlockBudget() RoleBudget {
	return RoleBudget{PressBudget: 1, CoverBudget: 2, PressBudgetTemp: 1}
}

// BudgetForTactic maps a tactic name to its budget. Unknown names are balanced.
func BudgetForTactic(tactic string) RoleBudget {
	switch tactic {
	case "high_press":
		return HighPressBudget()
	case "low_block":
		return LowBlockBudget()
	default:
		return BalancedBudget()
	}
}

// ResetTemp drops any bonus applied on a previous tick.
func (b *RoleBudget) ResetTemp() {
	b.PressBudgetTemp = b.PressBudget
}

// ApplyPressBonus raises the effective press budget, capped at two.
func (b *RoleBudget) ApplyPressBonus(bonus int) {
	b.PressBudgetTemp = min(b.PressBudget+bonus, maxPressBudget)
}

// EffectivePressBudget is the number of pressers allowed this tick.
func (b RoleBudget) EffectivePressBudget() int {
	return b.PressBudgetTemp
}

// Trigger is a reason to reassign marks.
type Trigger int

const (
	TriggerKickoffRestart Trigger = iota
	TriggerEmergencyFreeCarrier
	TriggerPossessionChange
	TriggerMarkBroken
	TriggerRotationDetected
	TriggerBallSwitch
)

var triggerNames = map[Trigger]string{
	TriggerKickoffRestart:       "KICKOFF_RESTART",
	TriggerEmergencyFreeCarrier: "EMERGENCY_FREE_CARRIER",
	TriggerPossessionChange:     "POSSESSION_CHANGE",
	TriggerMarkBroken:           "MARK_BROKEN",
	TriggerRotationDetected:     "ROTATION_DETECTED",
	TriggerBallSwitch:           "BALL_SWITCH",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IgnoresCooldown is true only for the emergency presser trigger.
func (t Trigger) IgnoresCooldown() bool {
	return t == TriggerEmergencyFreeCarrier
}
