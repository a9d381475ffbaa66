package engine

import (
	"math"

	"github.com/yellowhama/matchsim/internal/match/decision"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/positioning"
	"github.com/yellowhama/matchsim/internal/match/rng"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap"
)

const (
	pickupRadiusM   = 1.5
	interceptRangeM = 6.0
	overshootM      = 5.0
	clearanceM      = 20.0
	crossHeightM    = 1.8
	crossAirTicks   = 2
	dribbleStepM    = 1.5
	takeOnRangeM    = 3.0
	takeOnStepM     = 2.5
	penaltySpotM    = 11.0
	headerXGFactor  = 0.55
	savedHeldShare  = 0.22
	parriedShare    = 0.08
)

func (e *Engine) publish(ev Event) {
	ev.Tick = e.tick
	ev.Minute = int(e.tick * uint64(e.cfg.TickMs) / 60000)
	e.bus.Publish(ev)
}

// situation builds the decision input for slot.
func (e *Engine) situation(slot int, ready bool) *decision.Situation {
	s := &decision.Situation{
		Player:         slot,
		Holder:         e.ball.Holder,
		Positions:      &e.positions,
		Ball:           e.ball.Pos,
		BallHeight:     e.ball.Height,
		AttacksRight:   e.attacksRight(geometry.SideOf(slot)),
		MoveDir:        e.velocity[slot],
		Ready:          ready,
		TackleCooldown: e.tackleCooldown[slot],
	}
	if h := e.ball.Holder; h >= 0 {
		s.HolderFacing = e.facing(h)
	}
	return s
}

// facing is the heading of slot's last movement, towards goal when still.
func (e *Engine) facing(slot int) float64 {
	v := e.velocity[slot]
	if v.LengthSq() < 1e-9 {
		if e.attacksRight(geometry.SideOf(slot)) {
			return 0
		}
		return math.Pi
	}
	return math.Atan2(v.Y, v.X)
}

// play resolves the ball for this tick. ready is false on the tick a restart
// is taken, when nobody may tackle.
func (e *Engine) play(ready bool) {
	switch {
	case e.ball.Holder < 0 && e.ball.Height > 0:
		e.contestAerial(ready)
	case e.ball.Holder < 0:
		e.pickup()
	default:
		h := e.ball.Holder
		off := geometry.SideOf(h).Opponent().Offset()
		for t := off; t < off+roster.TeamSize; t++ {
			if e.decider.Decide(e.situation(t, ready)) == decision.ActionTackle {
				if e.resolveTackle(t, h) {
					return
				}
			}
		}
		e.resolveHolder(h, e.decider.Decide(e.situation(h, ready)))
	}
}

func (e *Engine) contestAerial(ready bool) {
	winner, best := NoPlayer, math.Inf(-1)
	for slot := range e.positions {
		if e.decider.Decide(e.situation(slot, ready)) != decision.ActionHeader {
			continue
		}
		reach := 1.2 - e.positions[slot].Dist(e.ball.Pos)/5
		score := e.lineup.attr(slot, func(a *roster.Attributes) float64 { return a.Heading }) / 100 * reach
		if score > best {
			winner, best = slot, score
		}
	}
	if winner >= 0 {
		e.resolveHeader(winner)
		return
	}
	e.ball.AirTicks--
	if e.ball.AirTicks <= 0 {
		e.ball.Height = 0
		e.crossTarget = nil
	}
}

func (e *Engine) pickup() {
	winner, best := NoPlayer, pickupRadiusM
	for slot, p := range e.positions {
		if d := p.Dist(e.ball.Pos); d <= best {
			if d < best || winner < 0 {
				winner, best = slot, d
			}
		}
	}
	if winner >= 0 {
		e.giveBall(winner)
	}
}

// giveBall hands the ball to slot, flagging a possession change for the next
// tick when it crosses sides.
func (e *Engine) giveBall(slot int) {
	side := geometry.SideOf(slot)
	if side != e.possession {
		e.pendingChange = true
		e.prevHomeHadBall = e.possession == geometry.Home
		e.possession = side
		e.assist = NoPlayer
		e.publish(Event{Type: EventPossessionChange, Side: side, Player: slot, Target: e.ball.LastTouch, Position: e.positions[slot]})
	}
	e.ball = ball{Pos: e.positions[slot], Holder: slot, LastTouch: slot}
	e.crossTarget = nil
}

// looseBall leaves the ball at p after a touch by slot, or sends it out of
// play.
func (e *Engine) looseBall(p geometry.Vec2, slot int) {
	e.crossTarget = nil
	if p.X < 0 || p.X > geometry.FieldLength || p.Y < 0 || p.Y > geometry.FieldWidth {
		e.outOfPlay(p, slot)
		return
	}
	e.ball = ball{Pos: p, Holder: NoPlayer, LastTouch: slot}
}

func (e *Engine) resolveTackle(tackler, holder int) bool {
	side := geometry.SideOf(tackler)
	ts := e.stats.Team(side)
	ts.Tackles++

	tackling := e.lineup.attr(tackler, func(a *roster.Attributes) float64 { return a.Tackling })
	dribbling := e.lineup.attr(holder, func(a *roster.Attributes) float64 { return a.Dribbling })
	p := geometry.Clamp(0.45+(tackling-dribbling)/200, 0.15, 0.85)
	won := e.stream.Tracked(tackler, rng.CategoryOutcome) < p

	e.publish(Event{Type: EventTackle, Side: side, Player: tackler, Target: holder, Position: e.positions[holder], Success: won})
	if !won {
		e.tackleCooldown[tackler] = tackleCooldownTicks
		return false
	}
	ts.TacklesWon++
	e.tackleCooldown[holder] = tackleCooldownTicks
	e.giveBall(tackler)
	return true
}

func (e *Engine) resolveHolder(h int, a decision.Action) {
	switch a {
	case decision.ActionShoot:
		e.resolveShot(h, false)
	case decision.ActionCross:
		e.resolveCross(h)
	case decision.ActionPass, decision.ActionShortPass, decision.ActionLongPass, decision.ActionThroughBall:
		e.resolvePass(h, a)
	case decision.ActionDribble:
		e.dribble(h, dribbleStepM)
	case decision.ActionTakeOn:
		e.resolveTakeOn(h)
	}
}

// chooseReceiver scores every teammate for the pass type; the keeper is a
// last resort.
func (e *Engine) chooseReceiver(h int, a decision.Action) int {
	side := geometry.SideOf(h)
	off := side.Offset()
	ar := e.attacksRight(side)
	from := e.positions[h]
	mine := from.DistanceToGoal(ar)

	best, bestScore := NoPlayer, math.Inf(-1)
	for i := off; i < off+roster.TeamSize; i++ {
		if i == h {
			continue
		}
		to := e.positions[i]
		d := from.Dist(to)
		progress := mine - to.DistanceToGoal(ar)
		open := math.Min(e.nearestOpponentDist(i), 10)

		var score float64
		switch a {
		case decision.ActionShortPass:
			score = open - math.Abs(d-12)*0.5 + progress*0.1
		case decision.ActionLongPass:
			score = open + progress*0.3 - math.Abs(d-30)*0.2
		case decision.ActionThroughBall:
			score = progress*0.6 + open*0.5 - d*0.05
		default:
			score = open + progress*0.2 - d*0.1
		}
		if i == off {
			score -= 15
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func passBaseSuccess(a decision.Action) float64 {
	switch a {
	case decision.ActionShortPass:
		return 0.92
	case decision.ActionLongPass:
		return 0.72
	case decision.ActionThroughBall:
		return 0.60
	default:
		return 0.85
	}
}

func (e *Engine) pressureOn(slot int) decision.PressureContext {
	side := geometry.SideOf(slot)
	off := side.Opponent().Offset()
	composure := e.lineup.attr(slot, func(a *roster.Attributes) float64 { return a.Composure })
	return decision.CalculatePressure(e.positions[slot], e.positions[off:off+roster.TeamSize], composure, e.velocity[slot], e.attacksRight(side))
}

func (e *Engine) resolvePass(h int, a decision.Action) {
	side := geometry.SideOf(h)
	ts := e.stats.Team(side)
	r := e.chooseReceiver(h, a)
	if r < 0 {
		return
	}
	ts.Passes++

	from, to := e.positions[h], e.positions[r]
	d := from.Dist(to)
	passing := e.lineup.attr(h, func(at *roster.Attributes) float64 { return at.Passing })
	p := passBaseSuccess(a) * (0.75 + 0.35*passing/100) *
		(1 - 0.35*e.pressureOn(h).EffectivePressure) *
		geometry.Clamp(1-d/150, 0.6, 1)
	p = geometry.Clamp(p, 0.05, 0.97)
	ok := e.stream.Tracked(h, rng.CategoryOutcome) < p

	ev := Event{Type: EventPass, Side: side, Player: h, Target: r, Position: from, Success: ok, Detail: a.String()}
	if !ok {
		e.publish(ev)
		e.failedPass(h, from, to)
		return
	}

	ar := e.attacksRight(side)
	line := e.positioners[side].OffsideLines().For(side)
	if !to.InOwnHalf(ar) && positioning.IsOffside(to.X, line, ar) && positioning.IsOffside(to.X, from.X, ar) {
		ev.Success = false
		e.publish(ev)
		ts.Offsides++
		e.publish(Event{Type: EventOffside, Side: side, Player: r, Target: h, Position: to})
		e.setPiece(geometry.RestartFreeKick, side.Opponent(), to)
		return
	}

	ts.PassesCompleted++
	e.publish(ev)
	e.assist = h
	e.giveBall(r)
}

// failedPass gives the ball to the defender nearest the intended receiver
// or lets it run past.
func (e *Engine) failedPass(h int, from, to geometry.Vec2) {
	opp := geometry.SideOf(h).Opponent()
	interceptor := e.nearestOutfield(opp, to)
	if e.positions[interceptor].Dist(to) <= interceptRangeM {
		e.giveBall(interceptor)
		return
	}
	e.looseBall(to.Add(to.Sub(from).Normalized().Scale(overshootM)), h)
}

func (e *Engine) resolveCross(h int) {
	side := geometry.SideOf(h)
	ar := e.attacksRight(side)
	e.stats.Team(side).Crosses++

	target := geometry.V(geometry.FieldLength-penaltySpotM, geometry.CenterY).TeamView(ar)
	closest := math.Inf(1)
	off := side.Offset()
	for i := off + 1; i < off+roster.TeamSize; i++ {
		if i == h {
			continue
		}
		p := e.positions[i]
		if d := p.DistanceToGoal(ar); d < decision.BoxDistanceM && d < closest {
			closest, target = d, p
		}
	}

	e.publish(Event{Type: EventPass, Side: side, Player: h, Target: NoPlayer, Position: e.positions[h], Success: true, Detail: decision.ActionCross.String()})
	e.assist = h
	e.ball = ball{Pos: target, Height: crossHeightM, Holder: NoPlayer, LastTouch: h, AirTicks: crossAirTicks}
	c := geometry.FromMeters(target)
	e.crossTarget = &c
}

func (e *Engine) resolveHeader(w int) {
	side := geometry.SideOf(w)
	ar := e.attacksRight(side)
	pos := e.positions[w]
	e.stats.Team(side).Headers++
	e.publish(Event{Type: EventHeader, Side: side, Player: w, Target: NoPlayer, Position: pos, Success: true})

	switch {
	case side == e.possession && pos.DistanceToGoal(ar) < decision.BoxDistanceM:
		e.resolveShot(w, true)
	case side != e.possession:
		dir := geometry.V(1, 0)
		if !ar {
			dir = geometry.V(-1, 0)
		}
		e.looseBall(pos.Add(dir.Scale(clearanceM)), w)
	default:
		off := side.Offset()
		mate, best := NoPlayer, math.Inf(1)
		for i := off + 1; i < off+roster.TeamSize; i++ {
			if d := e.positions[i].Dist(pos); i != w && d < best {
				mate, best = i, d
			}
		}
		e.giveBall(mate)
	}
}

func (e *Engine) resolveShot(s int, header bool) {
	side := geometry.SideOf(s)
	ar := e.attacksRight(side)
	pos := e.positions[s]
	off := side.Opponent().Offset()
	opponents := e.positions[off : off+roster.TeamSize]
	dist := pos.DistanceToGoal(ar)

	var xg float64
	if header {
		heading := e.lineup.attr(s, func(a *roster.Attributes) float64 { return a.Heading })
		xg = decision.BaseXG(dist) * decision.SkillMultiplier(heading) * headerXGFactor
	} else {
		xg = decision.ShotScore(decision.ShotScoreInput{
			Distance:          dist,
			Finishing:         e.lineup.attr(s, func(a *roster.Attributes) float64 { return a.Finishing }),
			LongShots:         e.lineup.attr(s, func(a *roster.Attributes) float64 { return a.LongShots }),
			EffectivePressure: e.pressureOn(s).EffectivePressure,
			GoodAngle:         pos.GoodShootingAngle(),
			ClearShot:         decision.HasClearShot(pos, opponents, ar),
		})
	}
	keeper := e.lineup.attr(off, func(a *roster.Attributes) float64 { return (a.Reflexes + a.Handling) / 2 })
	xg = geometry.Clamp(xg*(1.15-0.3*keeper/100), 0.005, 0.95)

	ts := e.stats.Team(side)
	ts.Shots++
	ts.ExpectedGoals += xg
	u := e.stream.Tracked(s, rng.CategoryOutcome)

	ev := Event{Type: EventShot, Side: side, Player: s, Target: off, Position: pos, Value: xg}
	switch {
	case u < xg:
		ts.ShotsOnTarget++
		ts.Goals++
		e.score[side]++
		ev.Success, ev.Detail = true, "goal"
		e.publish(ev)
		assist := e.assist
		if assist == s {
			assist = NoPlayer
		}
		e.publish(Event{Type: EventGoal, Side: side, Player: s, Target: assist, Position: pos, Value: xg})
		e.logger.Debug("goal",
			zap.String("side", side.String()),
			zap.Int("player", s),
			zap.Uint64("tick", e.tick),
			zap.Float64("xg", xg),
		)
		e.kickoff(side.Opponent())
	case u < xg+savedHeldShare:
		ts.ShotsOnTarget++
		ev.Success, ev.Detail = true, "saved"
		e.publish(ev)
		e.giveBall(off)
	case u < xg+savedHeldShare+parriedShare:
		ts.ShotsOnTarget++
		ev.Success, ev.Detail = true, "parried"
		e.publish(ev)
		e.setPiece(geometry.RestartCorner, side, geometry.V(geometry.FieldLength, pos.Y).TeamView(ar))
	default:
		ev.Detail = "wide"
		e.publish(ev)
		e.setPiece(geometry.RestartGoalKick, side.Opponent(), geometry.V(geometry.FieldLength, pos.Y).TeamView(ar))
	}
}

// dribble carries the ball step meters towards goal, drifting inside in the
// attacking third.
func (e *Engine) dribble(h int, step float64) {
	side := geometry.SideOf(h)
	ar := e.attacksRight(side)
	pos := e.positions[h]
	e.stats.Team(side).Dribbles++

	dir := geometry.V(1, 0)
	if !ar {
		dir = geometry.V(-1, 0)
	}
	if pos.InAttackingThird(ar) {
		dir = geometry.GoalCenter(ar).Sub(pos).Normalized()
	}
	pace := e.lineup.attr(h, func(a *roster.Attributes) float64 { return a.Pace })
	next := pos.Add(dir.Scale(step * (0.8 + 0.4*pace/100))).Clamp(0.5, geometry.FieldLength-0.5, 0.5, geometry.FieldWidth-0.5)
	e.positions[h] = next
	e.ball.Pos = next
}

func (e *Engine) resolveTakeOn(h int) {
	side := geometry.SideOf(h)
	off := side.Opponent().Offset()
	defender, best := NoPlayer, takeOnRangeM
	for i := off; i < off+roster.TeamSize; i++ {
		if d := e.positions[i].Dist(e.positions[h]); d <= best {
			defender, best = i, d
		}
	}
	if defender < 0 {
		e.dribble(h, dribbleStepM)
		return
	}

	dribbling := e.lineup.attr(h, func(a *roster.Attributes) float64 { return a.Dribbling })
	tackling := e.lineup.attr(defender, func(a *roster.Attributes) float64 { return a.Tackling })
	p := geometry.Clamp(0.5+(dribbling-tackling)/200, 0.2, 0.8)
	if e.stream.Tracked(h, rng.CategoryOutcome) < p {
		e.dribble(h, takeOnStepM)
		return
	}
	ts := e.stats.Team(side.Opponent())
	ts.Tackles++
	ts.TacklesWon++
	e.publish(Event{Type: EventTackle, Side: side.Opponent(), Player: defender, Target: h, Position: e.positions[h], Success: true, Detail: decision.ActionTakeOn.String()})
	e.tackleCooldown[h] = tackleCooldownTicks
	e.giveBall(defender)
}
