package decision

import (
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/rng"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// Players is the number of slots on the pitch.
	Players = 2 * roster.TeamSize

	aerialMinM      = 0.5
	headerMaxM      = 2.9
	headerReachM    = 5.0
	baseTemperature = 1.0
)

// Lineup resolves players and team settings by slot.
type Lineup interface {
	Player(slot int) (*roster.Player, bool)
	Tempo(side geometry.Side) roster.Tempo
}

// Situation is the state a decision is made from.
type Situation struct {
	Player int
	// Holder is the slot in possession, or -1 for a loose ball.
	Holder       int
	Positions    *[Players]geometry.Vec2
	Ball         geometry.Vec2
	BallHeight   float64
	AttacksRight bool
	// MoveDir is the player's direction of travel; zero means towards goal.
	MoveDir        geometry.Vec2
	Ready          bool
	TackleCooldown uint8
	HolderFacing   float64
}

// Decider chooses actions, drawing from the match's shared stream.
type Decider struct {
	stream *rng.Stream
	lineup Lineup
	stats  Stats
	sink   Sink
	logger *zap.Logger
}

// NewDecider creates a decider bound to the match stream and line-ups.
func NewDecider(stream *rng.Stream, lineup Lineup, logger *zap.Logger) *Decider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decider{stream: stream, lineup: lineup, logger: logger}
}

// SetSink mirrors every counter increment into s.
func (d *Decider) SetSink(s Sink) { d.sink = s }

// Stats returns a copy of the counters.
func (d *Decider) Stats() Stats { return d.stats }

func (d *Decider) count(c Counter) {
	d.stats.inc(c)
	if d.sink != nil {
		d.sink.Inc(c)
	}
}

func (d *Decider) player(slot int) *roster.Player {
	if d.lineup == nil {
		return nil
	}
	p, ok := d.lineup.Player(slot)
	if !ok {
		return nil
	}
	return p
}

// Decide returns the action for s.Player. Stages are tried in order: header,
// tackle, the shot gate and finally a softmax draw over the candidate
// actions. Players who neither hold the ball nor contest it hold position.
func (d *Decider) Decide(s *Situation) Action {
	pos := s.Positions[s.Player]

	if s.BallHeight > aerialMinM && s.BallHeight <= headerMaxM && pos.Dist(s.Ball) < headerReachM {
		d.count(CounterHeadersAttempted)
		return ActionHeader
	}

	side := geometry.SideOf(s.Player)
	if s.Holder >= 0 && s.Holder != s.Player && geometry.SideOf(s.Holder) != side {
		if d.tryTackle(s) {
			return ActionTackle
		}
		return ActionHold
	}
	if s.Holder != s.Player {
		return ActionHold
	}

	if d.CanAttemptShot(s) {
		if d.ShouldShootOverPass(s) {
			return ActionShoot
		}
		return ActionPass
	}

	p := d.player(s.Player)
	if p == nil {
		return ActionPass
	}
	weights := ActionProbabilities(p.Instructions, p.Position, pos.InAttackingThird(s.AttacksRight))
	tempo := roster.TempoNormal
	if d.lineup != nil {
		tempo = d.lineup.Tempo(side)
	}
	u := d.stream.Tracked(s.Player, rng.CategorySoftmax)
	d.count(CounterSoftmaxDraws)
	if a, ok := SelectSoftmax(Candidates(weights), TempoTemperature(baseTemperature, tempo), u); ok {
		return a
	}
	return ActionPass
}

func (d *Decider) tryTackle(s *Situation) bool {
	check := CanAttemptTackle(TackleInput{
		Tackler:      s.Player,
		Holder:       s.Holder,
		TacklerAt:    s.Positions[s.Player],
		HolderAt:     s.Positions[s.Holder],
		Ball:         s.Ball,
		HolderFacing: s.HolderFacing,
		Ready:        s.Ready,
		Cooldown:     s.TackleCooldown,
		Positions:    s.Positions[:],
	})
	var chance float64
	switch check.Result {
	case TackleCanAttempt:
		chance = tackleChance
	case TackleBadAngle:
		chance = tackleBadAngleChance
	default:
		return false
	}
	if d.stream.Tracked(s.Player, rng.CategoryTackle) < chance {
		d.count(CounterTacklesAttempted)
		return true
	}
	return false
}

func opponentsOf(s *Situation) []geometry.Vec2 {
	off := geometry.SideOf(s.Player).Opponent().Offset()
	return s.Positions[off : off+roster.TeamSize]
}

func teammatesOf(s *Situation) []geometry.Vec2 {
	off := geometry.SideOf(s.Player).Offset()
	out := make([]geometry.Vec2, 0, roster.TeamSize-1)
	for i := off; i < off+roster.TeamSize; i++ {
		if i != s.Player {
			out = append(out, s.Positions[i])
		}
	}
	return out
}

// CanAttemptShot runs the zone-based shot gate for the player and records
// the gate counters.
func (d *Decider) CanAttemptShot(s *Situation) bool {
	pos := s.Positions[s.Player]
	opponents := opponentsOf(s)

	longShots := 0.0
	if p := d.player(s.Player); p != nil {
		longShots = p.Attributes.LongShots
	}

	d.count(CounterShotGateChecks)
	d.count(CounterClearShotChecks)
	clear := HasClearShot(pos, opponents, s.AttacksRight)
	if !clear {
		d.count(CounterClearShotBlocked)
	}

	in := ShotGateInput{
		Distance:      pos.DistanceToGoal(s.AttacksRight),
		ClearShot:     clear,
		GoodAngle:     pos.GoodShootingAngle(),
		NearbyDefence: CountNearby(pos, opponents, crowdRadiusM),
		LongShots:     longShots,
	}
	allowed := ShotGate(in, func(p float64) bool {
		return d.stream.Tracked(s.Player, rng.CategoryLongShot) < p
	})
	if allowed {
		d.count(CounterShotGateAllowed)
	} else {
		d.count(CounterShotGateRejects)
	}
	if ce := d.logger.Check(zapcore.DebugLevel, "shot gate"); ce != nil {
		ce.Write(
			zap.Int("player", s.Player),
			zap.Float64("distance", in.Distance),
			zap.Bool("clear", clear),
			zap.Int("nearby", in.NearbyDefence),
			zap.Bool("allowed", allowed),
		)
	}
	return allowed
}

// ShouldShootOverPass compares the shot's expected value, scaled by the
// player's selfishness, against the best pass.
func (d *Decider) ShouldShootOverPass(s *Situation) bool {
	pos := s.Positions[s.Player]
	opponents := opponentsOf(s)

	var finishing, longShots, composure float64
	if p := d.player(s.Player); p != nil {
		finishing = p.Attributes.Finishing
		longShots = p.Attributes.LongShots
		composure = p.Attributes.Composure
	}
	pressure := CalculatePressure(pos, opponents, composure, s.MoveDir, s.AttacksRight)
	shot := ShotScore(ShotScoreInput{
		Distance:          pos.DistanceToGoal(s.AttacksRight),
		Finishing:         finishing,
		LongShots:         longShots,
		EffectivePressure: pressure.EffectivePressure,
		GoodAngle:         pos.GoodShootingAngle(),
		ClearShot:         HasClearShot(pos, opponents, s.AttacksRight),
	})
	pass := BestPassScore(pos, teammatesOf(s), s.AttacksRight)
	return shot*Selfishness(finishing) > pass
}
