// Package engine runs a full match: it owns the pitch state and the shared
// random stream, and drives marking, positioning and decisions tick by tick.
package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/yellowhama/matchsim/internal/match/decision"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/marking"
	"github.com/yellowhama/matchsim/internal/match/positioning"
	"github.com/yellowhama/matchsim/internal/match/replay"
	"github.com/yellowhama/matchsim/internal/match/rng"
	"github.com/yellowhama/matchsim/internal/match/transition"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap"
)

const (
	// objectiveRefreshTicks is how often off-ball intents are reissued.
	objectiveRefreshTicks = 8
	tackleCooldownTicks   = 4
)

// ball is the ball's state. Holder is NoPlayer while the ball is loose or
// in the air.
type ball struct {
	Pos       geometry.Vec2
	Height    float64
	Holder    int
	LastTouch int
	AirTicks  int
}

// Result is the outcome of a finished match.
type Result struct {
	MatchID   uuid.UUID
	Seed      uint64
	Home      string
	Away      string
	HomeGoals int
	AwayGoals int
	Ticks     uint64
	Stats     Stats
	Events    []Event
}

// Engine simulates one match. It is not safe for concurrent use.
type Engine struct {
	cfg         Config
	id          uuid.UUID
	lineup      *lineup
	stream      *rng.Stream
	decider     *decision.Decider
	window      *transition.System
	markers     [2]*marking.Manager
	positioners [2]*positioning.Engine
	shapes      [2]positioning.ShapeBias
	bus         *EventBus
	recorder    *replay.Recorder
	logger      *zap.Logger

	positions      [decision.Players]geometry.Vec2
	velocity       [decision.Players]geometry.Vec2
	objectives     [decision.Players]positioning.OffBallObjective
	tackleCooldown [decision.Players]uint8
	ball           ball
	possession     geometry.Side
	crossTarget    *geometry.Coord10
	assist         int

	score  [2]int
	stats  Stats
	events []Event

	tick            uint64
	half            int
	restart         geometry.RestartType
	pendingChange   bool
	prevHomeHadBall bool
}

// MatchID derives a stable identifier from the seed and team names.
func MatchID(seed uint64, home, away string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "matchsim/%d/%s/%s", seed, home, away))
}

// New validates the configuration and both rosters and prepares a match.
func New(cfg Config, home, away *roster.Team, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, t := range []*roster.Team{home, away} {
		if t == nil {
			return nil, fmt.Errorf("%w: team is missing", roster.ErrInvalidRoster)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("failed to validate roster: %w", err)
		}
	}

	e := &Engine{
		cfg:    cfg,
		id:     MatchID(cfg.Seed, home.Name, away.Name),
		lineup: &lineup{teams: [2]*roster.Team{home, away}},
		stream: rng.New(cfg.Seed),
		window: transition.NewSystem(cfg.TickMs),
		bus:    NewEventBus(),
		logger: logger.With(zap.Uint64("seed", cfg.Seed)),
		ball:   ball{Pos: geometry.Center, Holder: NoPlayer, LastTouch: NoPlayer},
	}
	e.decider = decision.NewDecider(e.stream, e.lineup, e.logger.Named("decision"))
	for _, side := range []geometry.Side{geometry.Home, geometry.Away} {
		team := e.lineup.team(side)
		m := marking.NewManager(e.logger.Named("marking"))
		m.SetTactic(team.Tactic)
		m.SetCooldown(cfg.ReassignCooldownTicks)
		e.markers[side] = m
		e.positioners[side] = positioning.NewEngine(side, cfg.Positioning, e.logger.Named("positioning"))
		e.shapes[side] = positioning.ShapeBiasFor(positioning.ParsePreset(team.Shape))
	}
	e.bus.Subscribe(func(ev Event) { e.events = append(e.events, ev) })
	return e, nil
}

// ID is the match identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// Bus is the event bus events are published on.
func (e *Engine) Bus() *EventBus { return e.bus }

// SetDecisionSink mirrors decision counters into s.
func (e *Engine) SetDecisionSink(s decision.Sink) { e.decider.SetSink(s) }

// SetRecorder enables replay frames; cfg.ReplayEveryTicks must be positive.
func (e *Engine) SetRecorder(r *replay.Recorder) { e.recorder = r }

// Score returns the goals of both sides.
func (e *Engine) Score() (home, away int) { return e.score[geometry.Home], e.score[geometry.Away] }

// Positions returns a copy of all 22 player positions.
func (e *Engine) Positions() [decision.Players]geometry.Vec2 { return e.positions }

// Run plays both halves and returns the result.
func (e *Engine) Run() *Result {
	id := e.id.String()
	recording := e.recorder != nil && e.cfg.ReplayEveryTicks > 0
	if recording {
		e.recorder.StartRecording(id)
	}

	e.logger.Info("match started",
		zap.String("match_id", id),
		zap.String("home", e.lineup.team(geometry.Home).Name),
		zap.String("away", e.lineup.team(geometry.Away).Name),
	)

	for half := 1; half <= 2; half++ {
		e.startHalf(half)
		for i := 0; i < e.cfg.TicksPerHalf; i++ {
			e.step()
		}
		if half == 1 {
			e.publish(Event{Type: EventHalfTime, Player: NoPlayer, Target: NoPlayer, Position: e.ball.Pos})
			e.logger.Debug("half time", zap.Int("home", e.score[geometry.Home]), zap.Int("away", e.score[geometry.Away]))
		}
	}
	e.publish(Event{Type: EventFullTime, Player: NoPlayer, Target: NoPlayer, Position: e.ball.Pos})

	if recording {
		e.recorder.StopRecording(id)
	}

	res := e.result()
	e.logger.Info("match finished",
		zap.String("match_id", id),
		zap.Int("home_goals", res.HomeGoals),
		zap.Int("away_goals", res.AwayGoals),
		zap.Uint64("ticks", res.Ticks),
		zap.Uint64("random_draws", res.Stats.RandomDraws),
	)
	return res
}

func (e *Engine) result() *Result {
	stats := e.stats
	ds := e.decider.Stats()
	stats.Decision = ds.Map()
	stats.RandomDraws = e.stream.Draws()
	return &Result{
		MatchID:   e.id,
		Seed:      e.cfg.Seed,
		Home:      e.lineup.team(geometry.Home).Name,
		Away:      e.lineup.team(geometry.Away).Name,
		HomeGoals: e.score[geometry.Home],
		AwayGoals: e.score[geometry.Away],
		Ticks:     e.tick,
		Stats:     stats,
		Events:    e.events,
	}
}

// attacksRight reports whether side attacks the x=105 goal in the current
// half. Home does so in the first half.
func (e *Engine) attacksRight(side geometry.Side) bool {
	return (side == geometry.Home) == (e.half <= 1)
}

func (e *Engine) startHalf(half int) {
	e.half = half
	kicker := geometry.Home
	if half == 2 {
		kicker = geometry.Away
	}
	for _, side := range []geometry.Side{geometry.Home, geometry.Away} {
		end := side
		if half == 2 {
			end = side.Opponent()
		}
		e.positioners[side].SetDefendedEnd(end)
	}
	e.kickoff(kicker)
}

// step runs one tick: transition window, offside lines, marking for the
// defending side, positioning and movement for both sides, then the ball
// decisions and their resolution.
func (e *Engine) step() {
	prev := e.positions
	restart := e.beginTick()
	e.play(restart == geometry.RestartNone)
	e.endTick(&prev)
}

// beginTick updates everything off the ball and returns the restart taken
// on this tick, if any.
func (e *Engine) beginTick() geometry.RestartType {
	restart := e.restart
	e.restart = geometry.RestartNone
	changed := e.pendingChange
	e.pendingChange = false

	e.window.Update(changed, e.prevHomeHadBall)
	ts := e.window.State()

	home, away := e.positions[:roster.TeamSize], e.positions[roster.TeamSize:]
	for _, p := range e.positioners {
		p.UpdateOffsideLines(home, away, e.half == 2)
	}

	e.updateMarking(e.possession.Opponent(), changed, restart, ts)

	if e.tick%objectiveRefreshTicks == 0 {
		e.refreshObjectives()
	}
	for _, side := range []geometry.Side{geometry.Home, geometry.Away} {
		e.updatePositioning(side, ts)
	}
	if e.ball.Holder >= 0 {
		e.ball.Pos = e.positions[e.ball.Holder]
	}
	return restart
}

func (e *Engine) endTick(prev *[decision.Players]geometry.Vec2) {
	for i := range e.positions {
		e.velocity[i] = e.positions[i].Sub(prev[i])
		if e.tackleCooldown[i] > 0 {
			e.tackleCooldown[i]--
		}
	}
	e.stats.Team(e.possession).PossessionTicks++
	e.recordFrame()
	e.tick++
}

func (e *Engine) updateMarking(defending geometry.Side, changed bool, restart geometry.RestartType, ts transition.State) {
	in := marking.Inputs{
		Tick:               e.tick,
		Ball:               e.ball.Pos,
		CarrierID:          NoPlayer,
		FreeScore:          e.freeScore(),
		EmergencyThreshold: e.cfg.EmergencyThreshold,
		PossessionChanged:  changed,
		DefendingSide:      defending,
		Transition:         ts,
		RestartOccurred:    restart != geometry.RestartNone,
		Restart:            restart,
	}
	if h := e.ball.Holder; h >= 0 && geometry.SideOf(h) != defending {
		in.CarrierID = h - geometry.SideOf(h).Offset()
	}
	doff, aoff := defending.Offset(), defending.Opponent().Offset()
	copy(in.Defenders[:], e.positions[doff:doff+roster.TeamSize])
	copy(in.Attackers[:], e.positions[aoff:aoff+roster.TeamSize])
	e.markers[defending].Update(&in)
}

// freeScore rates how unmarked the carrier is, 0 to 1.
func (e *Engine) freeScore() float64 {
	h := e.ball.Holder
	if h < 0 {
		return 0
	}
	side := geometry.SideOf(h)
	score := geometry.Clamp(e.nearestOpponentDist(h)/10, 0, 1)
	if !e.positions[h].InAttackingThird(e.attacksRight(side)) {
		score *= 0.6
	}
	return score
}

func (e *Engine) nearestOpponentDist(slot int) float64 {
	off := geometry.SideOf(slot).Opponent().Offset()
	best := math.Inf(1)
	for i := off; i < off+roster.TeamSize; i++ {
		best = min(best, e.positions[slot].Dist(e.positions[i]))
	}
	return best
}

// nearestOutfield returns the side's outfield player closest to p.
func (e *Engine) nearestOutfield(side geometry.Side, p geometry.Vec2) int {
	off := side.Offset()
	best, bestDist := off+1, math.Inf(1)
	for i := off + 1; i < off+roster.TeamSize; i++ {
		if d := e.positions[i].Dist(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (e *Engine) phase(side geometry.Side, ts transition.State) geometry.TeamPhase {
	attacking := side == e.possession
	switch {
	case attacking && ts.LostBall(side.Opponent()):
		return geometry.PhaseTransitionAttack
	case attacking:
		return geometry.PhaseAttack
	case ts.LostBall(side):
		return geometry.PhaseTransitionDefense
	default:
		return geometry.PhaseDefense
	}
}

func (e *Engine) updatePositioning(side geometry.Side, ts transition.State) {
	p := e.positioners[side]
	off := side.Offset()
	phase := e.phase(side, ts)

	owner := NoPlayer
	if h := e.ball.Holder; h >= 0 && geometry.SideOf(h) == side {
		owner = h - off
	}

	var objectives [roster.TeamSize]positioning.PlayerObjective
	if phase.IsAttacking() {
		objectives = attackingObjectives(e.lineup.team(side), phase)
		p.AssignRoles(phase, objectives[:], owner)
	} else {
		m := e.markers[side]
		pressing := len(m.PresserIDs()) > 0
		for i := 1; i < roster.TeamSize; i++ {
			s := m.State(i)
			switch {
			case s.IsEmergencyPresser:
				objectives[i] = positioning.ObjectiveRecoverBall
			case s.HasMark():
				objectives[i] = positioning.ObjectiveMarkOpponent
			default:
				objectives[i] = positioning.ObjectiveProtectZone
			}
		}
		p.AssignRoles(phase, objectives[:], owner)
		for i := 1; i < roster.TeamSize; i++ {
			s := m.State(i)
			p.SetMarkingTarget(i, s.PrimaryMarkID)
		}
		if !pressing && m.EffectivePressBudget() > 0 {
			p.SetRole(e.nearestOutfield(side, e.ball.Pos)-off, positioning.RolePresser)
		}
	}
	if e.ball.Holder < 0 {
		p.SetRole(e.nearestOutfield(side, e.ball.Pos)-off, positioning.RolePresser)
	}

	var cross *geometry.Coord10
	if side == e.possession {
		cross = e.crossTarget
	}
	p.CalculateTargetPositionsWithOffBall(&e.positions, e.ball.Pos, e.tick, cross, e.attacksRight(side), &e.objectives, e.shapes[side])
	p.ApplyMovement(&e.positions)
}

// attackingObjectives maps each position code onto an attacking objective.
func attackingObjectives(team *roster.Team, phase geometry.TeamPhase) [roster.TeamSize]positioning.PlayerObjective {
	var out [roster.TeamSize]positioning.PlayerObjective
	for i, pl := range team.Players {
		switch pl.Position {
		case roster.PositionGK:
			out[i] = positioning.ObjectiveMaintainShape
		case roster.PositionCB, roster.PositionCDM:
			out[i] = positioning.ObjectiveRecycle
		case roster.PositionST, roster.PositionCF:
			out[i] = positioning.ObjectivePenetrate
		case roster.PositionCAM:
			out[i] = positioning.ObjectiveCreateChance
		default:
			if pl.Position.IsWide() {
				out[i] = positioning.ObjectiveStretchWidth
			} else {
				out[i] = positioning.ObjectiveSupport
			}
		}
		if phase == geometry.PhaseTransitionAttack && pl.Position.IsWide() {
			out[i] = positioning.ObjectivePenetrate
		}
	}
	return out
}

// refreshObjectives issues timed off-ball intents for every outfield player.
func (e *Engine) refreshObjectives() {
	expire := e.tick + objectiveRefreshTicks
	for slot := range e.positions {
		side := geometry.SideOf(slot)
		local := slot - side.Offset()
		if local == 0 || slot == e.ball.Holder {
			e.objectives[slot] = positioning.OffBallObjective{}
			continue
		}
		pl, ok := e.lineup.Player(slot)
		if !ok {
			e.objectives[slot] = positioning.OffBallObjective{}
			continue
		}
		ar := e.attacksRight(side)
		cur := e.positions[slot].TeamView(ar)
		bv := e.ball.Pos.TeamView(ar)
		confidence := roster.Normalize(pl.Attributes.Anticipation)

		var intent positioning.OffBallIntent
		var target geometry.Vec2
		urgency := positioning.UrgencyJog
		if side == e.possession {
			switch {
			case pl.Position == roster.PositionST || pl.Position == roster.PositionCF:
				line := e.positioners[side].OffsideLine()
				x := line - 1
				if !ar {
					x = line + 1
				}
				target = geometry.V(geometry.Clamp(x, 0, geometry.FieldLength), cur.Y)
				e.objectives[slot] = positioning.NewOffBallObjective(positioning.IntentSpaceAttacker, target, positioning.UrgencySprint, expire, confidence)
				continue
			case pl.Position.IsWide():
				intent = positioning.IntentWidthHolder
				target = geometry.V(cur.X, edgeY(cur.Y))
			case pl.Position == roster.PositionCAM || pl.Position == roster.PositionCM:
				intent = positioning.IntentLinkPlayer
				target = geometry.V(bv.X+6, geometry.CenterY+(bv.Y-geometry.CenterY)*0.5)
			default:
				intent = positioning.IntentShapeHolder
				target = geometry.V(min(cur.X, bv.X-15), cur.Y)
			}
		} else {
			switch {
			case pl.Position == roster.PositionCB || pl.Position == roster.PositionCDM:
				intent = positioning.IntentScreen
				target = geometry.V(max(bv.X-12, 8), geometry.CenterY+(bv.Y-geometry.CenterY)*0.4)
			case cur.X > bv.X:
				intent, urgency = positioning.IntentTrackBack, positioning.UrgencySprint
				target = geometry.V(bv.X-5, cur.Y)
			default:
				intent = positioning.IntentShapeHolder
				target = geometry.V(cur.X, cur.Y+(bv.Y-cur.Y)*0.3)
			}
		}
		target = target.ClampToField().TeamView(ar)
		e.objectives[slot] = positioning.NewOffBallObjective(intent, target, urgency, expire, confidence)
	}
}

// edgeY is the centre of the touchline channel on y's half of the pitch.
func edgeY(y float64) float64 {
	if y < geometry.CenterY {
		return geometry.ChannelCenterY(0)
	}
	return geometry.ChannelCenterY(geometry.ChannelCount - 1)
}
