package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowhama/matchsim/internal/match/decision"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/marking"
	"github.com/yellowhama/matchsim/internal/match/replay"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap/zaptest"
)

func testConfig(seed uint64, ticks int) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.TicksPerHalf = ticks
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg, roster.Default("Home", 70), roster.Default("Away", 65), zaptest.NewLogger(t))
	require.NoError(t, err)
	return e
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestNewValidatesInputs(t *testing.T) {
	home := roster.Default("Home", 70)

	_, err := New(testConfig(1, 10), home, nil, nil)
	assert.ErrorIs(t, err, roster.ErrInvalidRoster)

	short := roster.Default("Short", 70)
	short.Players = short.Players[:10]
	_, err = New(testConfig(1, 10), home, short, nil)
	assert.ErrorIs(t, err, roster.ErrInvalidRoster)

	_, err = New(testConfig(1, 0), home, roster.Default("Away", 70), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg := testConfig(1, 10)
	cfg.EmergencyThreshold = 1.5
	_, err = New(cfg, home, roster.Default("Away", 70), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMatchIDIsStable(t *testing.T) {
	a := MatchID(7, "Home", "Away")
	assert.Equal(t, a, MatchID(7, "Home", "Away"))
	assert.NotEqual(t, a, MatchID(8, "Home", "Away"))
	assert.NotEqual(t, a, MatchID(7, "Away", "Home"))
}

func TestKickoffLayout(t *testing.T) {
	e := newTestEngine(t, testConfig(1, 10))
	e.startHalf(1)

	require.GreaterOrEqual(t, e.ball.Holder, 0)
	assert.Equal(t, geometry.Home, geometry.SideOf(e.ball.Holder))
	assert.Equal(t, geometry.Center, e.ball.Pos)
	assert.Equal(t, geometry.RestartKickOff, e.restart)

	for i, p := range e.positions {
		if geometry.SideOf(i) == geometry.Home {
			assert.LessOrEqual(t, p.X, geometry.CenterX, "home slot %d", i)
		} else {
			assert.GreaterOrEqual(t, p.X, geometry.CenterX, "away slot %d", i)
		}
	}
	assert.Equal(t, geometry.V(5, 34), e.positions[0])
	assert.Equal(t, geometry.V(100, 34), e.positions[roster.TeamSize])
	assert.Equal(t, geometry.Home, e.positioners[geometry.Home].DefendedEnd())
	assert.Equal(t, geometry.Away, e.positioners[geometry.Away].DefendedEnd())

	e.startHalf(2)
	assert.Equal(t, geometry.Away, e.positioners[geometry.Home].DefendedEnd())
	assert.Equal(t, geometry.Home, e.positioners[geometry.Away].DefendedEnd())
	assert.Equal(t, geometry.Away, geometry.SideOf(e.ball.Holder))
	assert.Equal(t, geometry.V(100, 34), e.positions[0])
	assert.False(t, e.attacksRight(geometry.Home))
	assert.True(t, e.attacksRight(geometry.Away))
}

func TestTransitionWindowUsesConfiguredTick(t *testing.T) {
	cfg := testConfig(3, 10)
	cfg.TickMs = 100
	e := newTestEngine(t, cfg)
	assert.Equal(t, 100, e.window.TickMs())

	e.window.Update(true, true)
	for i := 0; i < 29; i++ {
		e.window.Update(false, true)
	}
	assert.True(t, e.window.State().LostBall(geometry.Home))
	e.window.Update(false, true)
	assert.False(t, e.window.State().Active)
}

func TestRunIsDeterministic(t *testing.T) {
	a := newTestEngine(t, testConfig(42, 600)).Run()
	b := newTestEngine(t, testConfig(42, 600)).Run()

	assert.Equal(t, a.MatchID, b.MatchID)
	assert.Equal(t, a.HomeGoals, b.HomeGoals)
	assert.Equal(t, a.AwayGoals, b.AwayGoals)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.Events, b.Events)
}

func TestRunProducesConsistentTotals(t *testing.T) {
	res := newTestEngine(t, testConfig(3, 400)).Run()

	assert.Equal(t, uint64(800), res.Ticks)
	assert.Equal(t, 800, res.Stats.Home.PossessionTicks+res.Stats.Away.PossessionTicks)
	assert.Equal(t, res.HomeGoals, res.Stats.Home.Goals)
	assert.Equal(t, res.AwayGoals, res.Stats.Away.Goals)
	assert.Equal(t, res.HomeGoals+res.AwayGoals, countEvents(res.Events, EventGoal))
	assert.Equal(t, 1, countEvents(res.Events, EventHalfTime))
	assert.Equal(t, 1, countEvents(res.Events, EventFullTime))
	assert.Equal(t, 2+res.HomeGoals+res.AwayGoals, countEvents(res.Events, EventKickoff))
	assert.Equal(t, EventFullTime, res.Events[len(res.Events)-1].Type)

	for _, ts := range []TeamStats{res.Stats.Home, res.Stats.Away} {
		assert.LessOrEqual(t, ts.PassesCompleted, ts.Passes)
		assert.LessOrEqual(t, ts.ShotsOnTarget, ts.Shots)
		assert.LessOrEqual(t, ts.Goals, ts.ShotsOnTarget)
		assert.LessOrEqual(t, ts.TacklesWon, ts.Tackles)
	}
	assert.Greater(t, res.Stats.Home.Passes+res.Stats.Away.Passes, 0)
	assert.Contains(t, res.Stats.Decision, decision.CounterShotGateChecks.String())
	assert.Positive(t, res.Stats.RandomDraws)
}

func TestPlayersStayOnThePitch(t *testing.T) {
	e := newTestEngine(t, testConfig(11, 300))
	e.startHalf(1)
	for range 300 {
		e.step()
		for i, p := range e.positions {
			require.True(t, p.X >= 0 && p.X <= geometry.FieldLength && p.Y >= 0 && p.Y <= geometry.FieldWidth,
				"slot %d left the pitch at tick %d: %+v", i, e.tick, p)
		}
	}
}

func TestThrowInGoesToOpponents(t *testing.T) {
	e := newTestEngine(t, testConfig(1, 10))
	e.startHalf(1)

	e.outOfPlay(geometry.V(40, -2), 5)

	require.GreaterOrEqual(t, e.ball.Holder, roster.TeamSize)
	assert.Equal(t, geometry.Away, e.possession)
	assert.Equal(t, geometry.RestartThrowIn, e.restart)
	assert.InDelta(t, 0, e.ball.Pos.Y, 1e-9)
	assert.InDelta(t, 40, e.ball.Pos.X, 1e-9)
	assert.Equal(t, 1, e.stats.Away.ThrowIns)
}

func TestGoalLineRestarts(t *testing.T) {
	e := newTestEngine(t, testConfig(1, 10))
	e.startHalf(1)

	// Home attacks x=105 in the first half: a home touch over that line is a
	// goal kick for the away keeper.
	e.outOfPlay(geometry.V(106, 30), 9)
	assert.Equal(t, roster.TeamSize, e.ball.Holder)
	assert.Equal(t, geometry.RestartGoalKick, e.restart)
	assert.Equal(t, geometry.V(105-goalAreaDepthM, 34), e.ball.Pos)
	assert.Equal(t, 1, e.stats.Away.GoalKicks)

	// An away touch over the same line is a home corner.
	e.outOfPlay(geometry.V(106, 60), roster.TeamSize+3)
	assert.Equal(t, geometry.Home, geometry.SideOf(e.ball.Holder))
	assert.Equal(t, geometry.RestartCorner, e.restart)
	assert.Equal(t, geometry.V(105-cornerInsetM, 68-cornerInsetM), e.ball.Pos)
	assert.Equal(t, 1, e.stats.Home.Corners)
}

func TestRestartFiresMarkingTrigger(t *testing.T) {
	cfg := testConfig(5, 10)
	cfg.ReassignCooldownTicks = 0
	e := newTestEngine(t, cfg)
	e.startHalf(1)
	e.step()

	e.outOfPlay(geometry.V(106, 60), roster.TeamSize+3)
	e.step()

	assert.Contains(t, e.markers[geometry.Away].LastTriggers(), marking.TriggerKickoffRestart)
}

func TestPossessionChangeOpensTransition(t *testing.T) {
	e := newTestEngine(t, testConfig(1, 10))
	e.startHalf(1)
	e.step()
	if e.possession != geometry.Home {
		t.Skip("possession already changed on the first tick")
	}

	e.giveBall(roster.TeamSize + 5)
	assert.True(t, e.pendingChange)
	assert.Equal(t, geometry.Away, e.possession)

	e.restart = geometry.RestartNone
	e.beginTick()
	ts := e.window.State()
	assert.True(t, ts.Active)
	assert.Equal(t, geometry.Home, ts.TeamLostBall)
}

func TestReplayFramesAreRecorded(t *testing.T) {
	cfg := testConfig(9, 50)
	cfg.ReplayEveryTicks = 10
	e := newTestEngine(t, cfg)
	rec := replay.NewRecorder(zaptest.NewLogger(t), t.TempDir())
	e.SetRecorder(rec)

	e.Run()

	r, ok := rec.Replay(e.ID().String())
	require.True(t, ok)
	require.Equal(t, 10, r.Size())
	for i := range r.Size() {
		f, _ := r.At(i)
		assert.Equal(t, uint64(i*10), f.Tick)
	}
	assert.False(t, rec.IsRecording(e.ID().String()))
}

type countingSink struct{ n map[decision.Counter]int }

func (s *countingSink) Inc(c decision.Counter) { s.n[c]++ }

func TestDecisionSinkReceivesCounters(t *testing.T) {
	e := newTestEngine(t, testConfig(2, 200))
	sink := &countingSink{n: make(map[decision.Counter]int)}
	e.SetDecisionSink(sink)

	res := e.Run()

	assert.Equal(t, int(res.Stats.Decision[decision.CounterSoftmaxDraws.String()]), sink.n[decision.CounterSoftmaxDraws])
	assert.Equal(t, int(res.Stats.Decision[decision.CounterShotGateChecks.String()]), sink.n[decision.CounterShotGateChecks])
}
