// Package positioning computes where each player of one team should stand off
// the ball: role assignment, per-role targets, an optimal target assignment,
// line spacing and a hysteresis-gated commit, followed by capped movement.
package positioning

import (
	"math"

	"github.com/yellowhama/matchsim/internal/match/geometry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TeamSize is the number of players per side.
const TeamSize = 11

const (
	// averagePlayerSpeed converts distance into travel time for assignment costs.
	averagePlayerSpeed = 7.0
	supportRadiusM     = 12.0
	supportAttackBiasM = 5.0
	recycleDepthM      = 20.0
	coverDepthM        = 10.0
	awayOffsideExtraM  = 0.5
	arrivalToleranceM  = 0.1
)

// Engine owns the positioning state of one team.
type Engine struct {
	side           geometry.Side
	defends        geometry.Side
	cfg            Config
	states         [TeamSize]PlayerState
	offside        OffsideLines
	lastUpdateTick uint64
	logger         *zap.Logger
}

// NewEngine creates an engine for one side.
func NewEngine(side geometry.Side, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		side:    side,
		defends: side,
		cfg:     cfg,
		offside: InitialOffsideLines(),
		logger:  logger,
	}
	for i := range e.states {
		e.states[i] = defaultPlayerState()
	}
	return e
}

// Side returns the team the engine positions.
func (e *Engine) Side() geometry.Side { return e.side }

// DefendedEnd is the goal the goalkeeper guards: Home is the x=0 end,
// Away the x=105 end. It starts as the team's own side.
func (e *Engine) DefendedEnd() geometry.Side { return e.defends }

// SetDefendedEnd moves the goalkeeper to the other goal when ends change.
func (e *Engine) SetDefendedEnd(end geometry.Side) { e.defends = end }

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetConfig replaces the configuration.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg }

// LastUpdateTick is the tick of the last target computation.
func (e *Engine) LastUpdateTick() uint64 { return e.lastUpdateTick }

// UpdateOffsideLines recomputes both offside lines from the two teams'
// positions, slot 0 being each goalkeeper.
func (e *Engine) UpdateOffsideLines(home, away []geometry.Vec2, secondHalf bool) {
	e.offside.Update(home, away, secondHalf)
}

// OffsideLines returns both lines.
func (e *Engine) OffsideLines() OffsideLines { return e.offside }

// OffsideLine returns the line this team's attackers play against.
func (e *Engine) OffsideLine() float64 { return e.offside.For(e.side) }

// AssignRoles sets every player's role. The goalkeeper and the ball owner
// (local index, or -1) are fixed; everyone else follows objectives[i] when
// one is supplied and keeps the previous role otherwise.
func (e *Engine) AssignRoles(_ geometry.TeamPhase, objectives []PlayerObjective, ballOwner int) {
	for i := range e.states {
		switch {
		case i == 0:
			e.states[i].Role = RoleGoalkeeper
		case i == ballOwner:
			e.states[i].Role = RoleOnBall
		case i < len(objectives):
			e.states[i].Role = RoleFromObjective(objectives[i])
		}
	}
}

// SetRole overrides one player's role.
func (e *Engine) SetRole(i int, r Role) {
	if i >= 0 && i < TeamSize {
		e.states[i].Role = r
	}
}

// SetMarkingTarget pins the opponent (local index) a marker follows.
func (e *Engine) SetMarkingTarget(i, opponent int) {
	if i < 0 || i >= TeamSize {
		return
	}
	if opponent < 0 || opponent >= TeamSize {
		opponent = NoMarkingTarget
	}
	e.states[i].MarkingTarget = opponent
}

// PlayerState returns a copy of one player's state by local index.
func (e *Engine) PlayerState(i int) (PlayerState, bool) {
	if i < 0 || i >= TeamSize {
		return PlayerState{}, false
	}
	return e.states[i], true
}

// SetPlayerTarget overwrites a player's committed target.
func (e *Engine) SetPlayerTarget(i int, target geometry.Coord10) {
	if i >= 0 && i < TeamSize {
		e.states[i].Target = target
	}
}

// DynamicZoneCenter is a point 15 m behind the ball on this team's side,
// kept within the central band of the pitch.
func (e *Engine) DynamicZoneCenter(ball geometry.Vec2) geometry.Vec2 {
	x := ball.X - 15
	if e.side == geometry.Away {
		x = ball.X + 15
	}
	return geometry.V(geometry.Clamp(x, 20, 85), ball.Y)
}

// CalculateTargetPositions runs the three-stage pipeline for this team:
// raw per-role targets, optimal reassignment within role groups, and line
// spacing, then commits targets that moved past the hysteresis distance.
func (e *Engine) CalculateTargetPositions(positions *[2 * TeamSize]geometry.Vec2, ball geometry.Vec2, tick uint64, crossTarget *geometry.Coord10, attacksRight bool) {
	raw := e.rawTargets(positions, ball, crossTarget, attacksRight)

	var team [TeamSize]geometry.Vec2
	copy(team[:], positions[e.side.Offset():e.side.Offset()+TeamSize])
	optimized := e.optimizeAssignments(&team, raw)

	spaced := enforceLineSpacing(optimized, ball.X, attacksRight, defaultSpacing, nil)

	e.commit(spaced, tick)
	e.lastUpdateTick = tick
}

// CalculateTargetPositionsWithOffBall extends CalculateTargetPositions by
// blending valid, unexpired off-ball objectives into the committed targets
// and re-spacing the lines with the shape's gaps.
func (e *Engine) CalculateTargetPositionsWithOffBall(positions *[2 * TeamSize]geometry.Vec2, ball geometry.Vec2, tick uint64, crossTarget *geometry.Coord10, attacksRight bool, objectives *[2 * TeamSize]OffBallObjective, bias ShapeBias) {
	e.CalculateTargetPositions(positions, ball, tick, crossTarget, attacksRight)

	offset := e.side.Offset()
	consumed := 0
	for i := range e.states {
		s := &e.states[i]
		obj := objectives[offset+i]
		if !obj.Valid() || obj.Expired(tick) {
			continue
		}
		if s.Role == RoleOnBall || s.Role == RoleGoalkeeper {
			continue
		}
		dist := positions[offset+i].Dist(obj.Target)
		w, ok := obj.Intent.weightMultiplier(bias.BlendWeight(obj.Confidence, dist))
		if !ok || w < 0.05 {
			continue
		}
		s.Target = geometry.FromMeters(s.Target.Meters().Lerp(obj.Target, w))
		consumed++
	}

	var targets [TeamSize]geometry.Coord10
	var roles [TeamSize]Role
	for i, s := range e.states {
		targets[i] = s.Target
		roles[i] = s.Role
	}
	spaced := enforceLineSpacing(targets, ball.X, attacksRight, spacingFromBias(bias), &roles)
	for i := range e.states {
		e.states[i].Target = spaced[i]
	}

	if ce := e.logger.Check(zapcore.DebugLevel, "off-ball objectives blended"); ce != nil && consumed > 0 {
		ce.Write(
			zap.String("side", e.side.String()),
			zap.Int("consumed", consumed),
			zap.Uint64("tick", tick),
		)
	}
}

// ApplyMovement moves every mobile player one tick towards the committed
// target without overshooting.
func (e *Engine) ApplyMovement(positions *[2 * TeamSize]geometry.Vec2) {
	offset := e.side.Offset()
	for i, s := range e.states {
		if !s.Role.RequiresMovement() {
			continue
		}
		cur := positions[offset+i]
		target := s.Target.Meters()
		dist := cur.Dist(target)
		if dist < arrivalToleranceM {
			continue
		}
		speed := e.cfg.MaxSpeed
		if s.Role.sprints() {
			speed = e.cfg.SprintSpeed
		}
		positions[offset+i] = cur.Lerp(target, math.Min(dist, speed)/dist)
	}
}

func (e *Engine) rawTargets(positions *[2 * TeamSize]geometry.Vec2, ball geometry.Vec2, crossTarget *geometry.Coord10, attacksRight bool) [TeamSize]geometry.Coord10 {
	offset := e.side.Offset()
	oppOffset := e.side.Opponent().Offset()
	offsideLine := e.OffsideLine()
	centerX := teamCenterX(positions, offset)

	receiver := -1
	var crossM geometry.Vec2
	if crossTarget != nil {
		crossM = crossTarget.Meters()
		best := math.Inf(1)
		for i, s := range e.states {
			if s.Role != RolePenetrate && s.Role != RoleStretch {
				continue
			}
			if d := positions[offset+i].Dist(crossM); d < best {
				best = d
				receiver = i
			}
		}
	}

	var raw [TeamSize]geometry.Coord10
	for i := range e.states {
		s := &e.states[i]
		cur := positions[offset+i]
		s.Current = geometry.FromMeters(cur)
		curM := s.Current.Meters()

		var target geometry.Vec2
		switch s.Role {
		case RoleGoalkeeper:
			x := 5.0
			if e.defends == geometry.Away {
				x = 100.0
			}
			y := (ball.Y-geometry.CenterY)*0.3 + geometry.CenterY
			target = geometry.V(x, geometry.Clamp(y, 25, 43))

		case RolePresser:
			target = ball

		case RoleMarker:
			if s.MarkingTarget == NoMarkingTarget {
				s.MarkingTarget = e.nearestUnmarkedOpponent(i, curM, positions, oppOffset)
			}
			if s.MarkingTarget != NoMarkingTarget {
				target = positions[oppOffset+s.MarkingTarget]
			} else {
				target = s.Target.Meters()
			}

		case RoleCover:
			x := math.Min(centerX, ball.X-coverDepthM)
			if !attacksRight {
				x = math.Max(centerX, ball.X+coverDepthM)
			}
			target = geometry.V(x, curM.Y)

		case RoleSupport:
			angle := float64(i)*0.7 - 0.35
			bias := supportAttackBiasM
			if !attacksRight {
				bias = -bias
			}
			dx := math.Cos(angle)*supportRadiusM + bias
			dy := math.Sin(angle) * supportRadiusM
			target = geometry.V(geometry.Clamp(ball.X+dx, 5, 100), geometry.Clamp(ball.Y+dy, 5, 63))

		case RolePenetrate:
			buffer := e.cfg.OffsideBuffer
			if e.side == geometry.Away {
				buffer += awayOffsideExtraM
			}
			x := math.Max(offsideLine-buffer, ball.X)
			if !attacksRight {
				x = math.Min(offsideLine+buffer, ball.X)
			}
			target = geometry.V(x, curM.Y)

		case RoleStretch:
			ch := curM.Channel()
			y := geometry.ChannelCenterY(ch)
			if ch != 0 && ch != geometry.ChannelCount-1 {
				if curM.Y < geometry.CenterY {
					y = geometry.ChannelCenterY(0)
				} else {
					y = geometry.ChannelCenterY(geometry.ChannelCount - 1)
				}
			}
			target = geometry.V(curM.X, y)

		case RoleRecycle:
			x := ball.X - recycleDepthM
			if !attacksRight {
				x = ball.X + recycleDepthM
			}
			target = geometry.V(geometry.Clamp(x, 10, 95), curM.Y)

		default:
			target = curM
		}

		if i == receiver {
			target = crossM
		}
		raw[i] = geometry.FromMeters(target.ClampToField())
	}
	return raw
}

// nearestUnmarkedOpponent prefers opponents no teammate marker already
// follows, falling back to the nearest overall.
func (e *Engine) nearestUnmarkedOpponent(self int, from geometry.Vec2, positions *[2 * TeamSize]geometry.Vec2, oppOffset int) int {
	var taken [TeamSize]bool
	for j, s := range e.states {
		if j != self && s.Role == RoleMarker && s.MarkingTarget != NoMarkingTarget {
			taken[s.MarkingTarget] = true
		}
	}
	nearest := func(keep func(int) bool) int {
		best, bestDist := NoMarkingTarget, math.Inf(1)
		for k := 0; k < TeamSize; k++ {
			if keep != nil && !keep(k) {
				continue
			}
			if d := from.Dist(positions[oppOffset+k]); d < bestDist {
				best, bestDist = k, d
			}
		}
		return best
	}
	if k := nearest(func(k int) bool { return !taken[k] }); k != NoMarkingTarget {
		return k
	}
	return nearest(nil)
}

// optimizeAssignments permutes targets inside each role group of two or more
// players so that total travel time is minimal.
func (e *Engine) optimizeAssignments(team *[TeamSize]geometry.Vec2, targets [TeamSize]geometry.Coord10) [TeamSize]geometry.Coord10 {
	out := targets
	for _, role := range [...]Role{RoleSupport, RoleCover, RoleMarker, RoleStretch} {
		var group []int
		for i, s := range e.states {
			if s.Role == role {
				group = append(group, i)
			}
		}
		if len(group) < 2 {
			continue
		}
		cost := make([][]int64, len(group))
		for r, player := range group {
			cost[r] = make([]int64, len(group))
			for c, slot := range group {
				cost[r][c] = int64(team[player].Dist(targets[slot].Meters()) / averagePlayerSpeed * 1000)
			}
		}
		for r, c := range solveAssignment(cost) {
			out[group[r]] = targets[group[c]]
		}
	}
	return out
}

// commit stores targets that moved further than the hysteresis distance once
// the move cooldown has elapsed.
func (e *Engine) commit(targets [TeamSize]geometry.Coord10, tick uint64) {
	threshold := int32(e.cfg.HysteresisDistance * 10)
	for i := range e.states {
		s := &e.states[i]
		if s.Target.DistanceTo(targets[i]) <= threshold {
			continue
		}
		if tick >= s.LastMoveTick+e.cfg.MoveCooldown {
			s.Target = targets[i]
			s.LastMoveTick = tick
		}
	}
}

// teamCenterX averages the outfield players' x.
func teamCenterX(positions *[2 * TeamSize]geometry.Vec2, offset int) float64 {
	sum := 0.0
	for i := 1; i < TeamSize; i++ {
		sum += positions[offset+i].X
	}
	return sum / float64(TeamSize-1)
}
