package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowhama/matchsim/internal/match/decision"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recordingCounter struct {
	noop.Int64Counter
	totals map[string]int64
}

func (c *recordingCounter) Add(_ context.Context, incr int64, opts ...metric.AddOption) {
	cfg := metric.NewAddConfig(opts)
	key := ""
	if set := cfg.Attributes(); set.Len() > 0 {
		iter := set.Iter()
		for iter.Next() {
			kv := iter.Attribute()
			key = string(kv.Key) + "=" + kv.Value.Emit()
		}
	}
	c.totals[key] += incr
}

type recordingMeter struct {
	noop.Meter
	counters map[string]*recordingCounter
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	c := &recordingCounter{totals: make(map[string]int64)}
	m.counters[name] = c
	return c, nil
}

func newRecordingMeter() *recordingMeter {
	return &recordingMeter{counters: make(map[string]*recordingCounter)}
}

func TestNewOnGlobalMeter(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.Inc(decision.CounterShotGateChecks)
	m.ObserveEvent(engine.Event{Type: engine.EventGoal})
}

func TestNewWithNoopMeter(t *testing.T) {
	m, err := NewWithMeter(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestIncRecordsCounterName(t *testing.T) {
	meter := newRecordingMeter()
	m, err := NewWithMeter(meter)
	require.NoError(t, err)

	m.Inc(decision.CounterShotGateChecks)
	m.Inc(decision.CounterShotGateChecks)
	m.Inc(decision.CounterSoftmaxDraws)

	totals := meter.counters["matchsim.decision.counters"].totals
	assert.Equal(t, int64(2), totals["counter=shot_gate_checks"])
	assert.Equal(t, int64(1), totals["counter=softmax_draws"])
}

func TestObserveEvent(t *testing.T) {
	meter := newRecordingMeter()
	m, err := NewWithMeter(meter)
	require.NoError(t, err)

	m.ObserveEvent(engine.Event{Type: engine.EventGoal, Side: geometry.Away})
	m.ObserveEvent(engine.Event{Type: engine.EventPass})
	m.ObserveEvent(engine.Event{Type: engine.EventFullTime})

	assert.Equal(t, int64(1), meter.counters["matchsim.goals"].totals["side=AWAY"])
	assert.Equal(t, int64(1), meter.counters["matchsim.matches.completed"].totals[""])
	assert.Equal(t, int64(1), meter.counters["matchsim.match.events"].totals["type=PASS"])
}

func TestAttachMirrorsMatch(t *testing.T) {
	meter := newRecordingMeter()
	m, err := NewWithMeter(meter)
	require.NoError(t, err)

	cfg := engine.DefaultConfig()
	cfg.Seed = 4
	cfg.TicksPerHalf = 100
	e, err := engine.New(cfg, roster.Default("A", 60), roster.Default("B", 60), nil)
	require.NoError(t, err)
	m.Attach(e)

	res := e.Run()

	totals := meter.counters["matchsim.decision.counters"].totals
	want := int64(res.Stats.Decision[decision.CounterShotGateChecks.String()])
	assert.Equal(t, want, totals["counter=shot_gate_checks"])
	assert.Equal(t, int64(1), meter.counters["matchsim.matches.completed"].totals[""])
	assert.Equal(t, int64(res.HomeGoals+res.AwayGoals),
		meter.counters["matchsim.goals"].totals["side=HOME"]+meter.counters["matchsim.goals"].totals["side=AWAY"])
}
