package geometry

// Zone is a cell in the 4x3 tactical grid: Depth runs along x in [0,3],
// Lane runs along y in [0,2].
type Zone struct {
	Depth int
	Lane  int
}

// ZoneOf places a position in the tactical grid.
func ZoneOf(p Vec2) Zone {
	var z Zone
	switch {
	case p.X < 26.25:
		z.Depth = 0
	case p.X < 52.5:
		z.Depth = 1
	case p.X < 78.75:
		z.Depth = 2
	default:
		z.Depth = 3
	}
	switch {
	case p.Y < 22.67:
		z.Lane = 0
	case p.Y < 45.33:
		z.Lane = 1
	default:
		z.Lane = 2
	}
	return z
}

// Chebyshev returns the king-move distance between two zones.
func (z Zone) Chebyshev(o Zone) int {
	return max(absInt(z.Depth-o.Depth), absInt(z.Lane-o.Lane))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TeamPhase is the collective state of a team relative to possession.
type TeamPhase int

const (
	PhaseAttack TeamPhase = iota
	PhaseDefense
	PhaseTransitionAttack
	PhaseTransitionDefense
)

var teamPhaseNames = map[TeamPhase]string{
	PhaseAttack:            "ATTACK",
	PhaseDefense:           "DEFENSE",
	PhaseTransitionAttack:  "TRANSITION_ATTACK",
	PhaseTransitionDefense: "TRANSITION_DEFENSE",
}

func (p TeamPhase) String() string {
	if name, ok := teamPhaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsAttacking reports whether the team has or just won the ball.
func (p TeamPhase) IsAttacking() bool {
	return p == PhaseAttack || p == PhaseTransitionAttack
}

// RestartType names the dead-ball situation the game resumes from.
type RestartType int

const (
	RestartNone RestartType = iota
	RestartKickOff
	RestartThrowIn
	RestartGoalKick
	RestartCorner
	RestartFreeKick
	RestartPenalty
	RestartDropBall
)

var restartNames = map[RestartType]string{
	RestartNone:     "NONE",
	RestartKickOff:  "KICK_OFF",
	RestartThrowIn:  "THROW_IN",
	RestartGoalKick: "GOAL_KICK",
	RestartCorner:   "CORNER",
	RestartFreeKick: "FREE_KICK",
	RestartPenalty:  "PENALTY",
	RestartDropBall: "DROP_BALL",
}

func (r RestartType) String() string {
	if name, ok := restartNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsSetPiece is true for restarts where defenders crowd the ball area.
func (r RestartType) IsSetPiece() bool {
	return r == RestartCorner || r == RestartFreeKick || r == RestartPenalty
}

// Side identifies one of the two teams.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "HOME"
	}
	return "AWAY"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Offset is the index of the side's first player in a 22-slot array.
func (s Side) Offset() int {
	if s == Home {
		return 0
	}
	return 11
}

// SideOf returns the side owning a 22-slot player index.
func SideOf(slot int) Side {
	if slot < 11 {
		return Home
	}
	return Away
}
