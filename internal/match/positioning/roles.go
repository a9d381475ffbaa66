package positioning

import "github.com/yellowhama/matchsim/internal/match/geometry"

// PlayerObjective is the per-player intent produced by the team's tactical
// layer each tick.
type PlayerObjective int

const (
	ObjectiveRetainPossession PlayerObjective = iota
	ObjectiveCreateChance
	ObjectiveSupport
	ObjectivePenetrate
	ObjectiveStretchWidth
	ObjectiveRecycle
	ObjectiveRecoverBall
	ObjectiveDelay
	ObjectiveProtectZone
	ObjectiveMarkOpponent
	ObjectiveMaintainShape
	ObjectiveTrackRunner
)

var objectiveNames = map[PlayerObjective]string{
	ObjectiveRetainPossession: "RETAIN_POSSESSION",
	ObjectiveCreateChance:     "CREATE_CHANCE",
	ObjectiveSupport:          "SUPPORT",
	ObjectivePenetrate:        "PENETRATE",
	ObjectiveStretchWidth:     "STRETCH_WIDTH",
	ObjectiveRecycle:          "RECYCLE",
	ObjectiveRecoverBall:      "RECOVER_BALL",
	ObjectiveDelay:            "DELAY",
	ObjectiveProtectZone:      "PROTECT_ZONE",
	ObjectiveMarkOpponent:     "MARK_OPPONENT",
	ObjectiveMaintainShape:    "MAINTAIN_SHAPE",
	ObjectiveTrackRunner:      "TRACK_RUNNER",
}

func (o PlayerObjective) String() string {
	if name, ok := objectiveNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsOffensive reports whether the objective belongs to the team in possession.
func (o PlayerObjective) IsOffensive() bool {
	return o <= ObjectiveRecycle
}

// Role is what a player does off the ball this tick.
type Role int

const (
	RoleCover Role = iota
	RolePresser
	RoleMarker
	RoleSupport
	RolePenetrate
	RoleStretch
	RoleRecycle
	RoleGoalkeeper
	RoleOnBall
)

var roleNames = map[Role]string{
	RoleCover:      "COVER",
	RolePresser:    "PRESSER",
	RoleMarker:     "MARKER",
	RoleSupport:    "SUPPORT",
	RolePenetrate:  "PENETRATE",
	RoleStretch:    "STRETCH",
	RoleRecycle:    "RECYCLE",
	RoleGoalkeeper: "GOALKEEPER",
	RoleOnBall:     "ON_BALL",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// RoleFromObjective maps a tactical objective to a positioning role.
func RoleFromObjective(o PlayerObjective) Role {
	switch o {
	case ObjectiveRecoverBall:
		return RolePresser
	case ObjectiveMarkOpponent, ObjectiveTrackRunner:
		return RoleMarker
	case ObjectiveMaintainShape, ObjectiveProtectZone, ObjectiveDelay:
		return RoleCover
	case ObjectiveSupport:
		return RoleSupport
	case ObjectivePenetrate, ObjectiveCreateChance:
		return RolePenetrate
	case ObjectiveStretchWidth:
		return RoleStretch
	default:
		return RoleRecycle
	}
}

// RequiresMovement is false for roles that never chase a target.
func (r Role) RequiresMovement() bool {
	return r != RoleOnBall && r != RoleGoalkeeper
}

// sprints reports whether the role moves at sprint speed.
func (r Role) sprints() bool {
	return r == RolePresser || r == RolePenetrate
}

// skipsRoleAwareSpacing lists roles whose targets line spacing must not move.
func (r Role) skipsRoleAwareSpacing() bool {
	switch r {
	case RolePresser, RoleOnBall, RoleGoalkeeper, RolePenetrate:
		return true
	}
	return false
}

// NoMarkingTarget marks a state without a cached opponent.
const NoMarkingTarget = -1

// PlayerState is one player's positioning state.
type PlayerState struct {
	Role          Role
	Target        geometry.Coord10
	Current       geometry.Coord10
	LastMoveTick  uint64
	MarkingTarget int
}

func defaultPlayerState() PlayerState {
	return PlayerState{
		Role:          RoleCover,
		Target:        geometry.Coord10Center,
		Current:       geometry.Coord10Center,
		MarkingTarget: NoMarkingTarget,
	}
}

// Config tunes movement and anti-jitter behaviour.
type Config struct {
	// MoveCooldown is the minimum number of ticks between target changes.
	MoveCooldown uint64
	// HysteresisDistance in meters; smaller target changes are ignored.
	HysteresisDistance float64
	// MaxSpeed and SprintSpeed are meters per tick.
	MaxSpeed    float64
	SprintSpeed float64
	// OffsideBuffer keeps penetrating runners onside.
	OffsideBuffer float64
}

// DefaultConfig is tuned for 250 ms ticks: 7 m/s jogging, 9 m/s sprinting.
func DefaultConfig() Config {
	return Config{
		MoveCooldown:       0,
		HysteresisDistance: 0.5,
		MaxSpeed:           1.75,
		SprintSpeed:        2.25,
		OffsideBuffer:      0.5,
	}
}
