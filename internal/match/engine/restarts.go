package engine

import (
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/replay"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap"
)

const (
	goalAreaDepthM = 5.5
	cornerInsetM   = 0.5
)

// kickoff lines both teams up in their halves and gives side's most
// advanced central player the ball on the centre spot.
func (e *Engine) kickoff(side geometry.Side) {
	for _, s := range []geometry.Side{geometry.Home, geometry.Away} {
		shape := kickoffShape(e.lineup.team(s), e.attacksRight(s))
		copy(e.positions[s.Offset():s.Offset()+roster.TeamSize], shape[:])
	}
	taker := side.Offset() + kickoffTaker(e.lineup.team(side))
	e.positions[taker] = geometry.Center
	clear(e.velocity[:])
	clear(e.tackleCooldown[:])
	clear(e.objectives[:])

	e.takeRestart(geometry.RestartKickOff, side, taker)
	e.publish(Event{Type: EventKickoff, Side: side, Player: taker, Target: NoPlayer, Position: geometry.Center})
}

// outOfPlay restarts after the ball crossed a line at p, last touched by
// slot.
func (e *Engine) outOfPlay(p geometry.Vec2, slot int) {
	touched := geometry.SideOf(slot)
	if p.Y < 0 || p.Y > geometry.FieldWidth {
		e.setPiece(geometry.RestartThrowIn, touched.Opponent(), p)
		return
	}
	// The side attacking towards the crossed goal line wins a corner when
	// the defenders touched it last.
	attacker := geometry.Home
	if (p.X > geometry.FieldLength) != e.attacksRight(geometry.Home) {
		attacker = geometry.Away
	}
	if touched == attacker {
		e.setPiece(geometry.RestartGoalKick, attacker.Opponent(), p)
		return
	}
	e.setPiece(geometry.RestartCorner, attacker, p)
}

// setPiece places the ball for a restart awarded to side near p.
func (e *Engine) setPiece(rt geometry.RestartType, side geometry.Side, p geometry.Vec2) {
	ar := e.attacksRight(side)
	ts := e.stats.Team(side)
	spot := p

	var taker int
	switch rt {
	case geometry.RestartThrowIn:
		ts.ThrowIns++
		spot = geometry.V(geometry.Clamp(p.X, 1, geometry.FieldLength-1), geometry.Clamp(p.Y, 0, geometry.FieldWidth))
		taker = e.nearestOutfield(side, spot)
	case geometry.RestartGoalKick:
		ts.GoalKicks++
		spot = geometry.V(goalAreaDepthM, geometry.CenterY).TeamView(ar)
		taker = side.Offset()
	case geometry.RestartCorner:
		ts.Corners++
		y := cornerInsetM
		if p.Y > geometry.CenterY {
			y = geometry.FieldWidth - cornerInsetM
		}
		spot = geometry.V(geometry.FieldLength-cornerInsetM, y).TeamView(ar)
		taker = e.nearestOutfield(side, spot)
	default:
		spot = p.Clamp(0.5, geometry.FieldLength-0.5, 0.5, geometry.FieldWidth-0.5)
		taker = e.nearestOutfield(side, spot)
	}
	e.positions[taker] = spot
	e.takeRestart(rt, side, taker)
	e.publish(Event{Type: EventRestart, Side: side, Player: taker, Target: NoPlayer, Position: spot, Detail: rt.String()})
}

// takeRestart gives taker the dead ball. Marking sees the restart on the
// next tick and the transition window closes.
func (e *Engine) takeRestart(rt geometry.RestartType, side geometry.Side, taker int) {
	if side != e.possession {
		e.prevHomeHadBall = e.possession == geometry.Home
		e.possession = side
	}
	e.pendingChange = false
	e.window.Reset()
	e.crossTarget = nil
	e.assist = NoPlayer
	e.restart = rt
	e.ball = ball{Pos: e.positions[taker], Holder: taker, LastTouch: taker}

	e.logger.Debug("restart",
		zap.String("type", rt.String()),
		zap.String("side", side.String()),
		zap.Int("taker", taker),
		zap.Uint64("tick", e.tick),
	)
}

func (e *Engine) recordFrame() {
	every := uint64(e.cfg.ReplayEveryTicks)
	if e.recorder == nil || every == 0 || e.tick%every != 0 {
		return
	}
	f := replay.Frame{
		Tick:       e.tick,
		Ball:       geometry.FromMeters(e.ball.Pos),
		BallHeight: e.ball.Height,
		Holder:     e.ball.Holder,
		HomeGoals:  e.score[geometry.Home],
		AwayGoals:  e.score[geometry.Away],
	}
	for i, p := range e.positions {
		f.Positions[i] = geometry.FromMeters(p)
	}
	e.recorder.RecordFrame(e.id.String(), f)
}
