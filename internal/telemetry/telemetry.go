// Package telemetry exports match and decision counters as OpenTelemetry
// metrics. Without a configured provider the global meter is a no-op.
package telemetry

import (
	"context"
	"fmt"

	"github.com/yellowhama/matchsim/internal/match/decision"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/yellowhama/matchsim/internal/telemetry"

// Metrics holds the instruments. It implements decision.Sink.
type Metrics struct {
	decisions metric.Int64Counter
	events    metric.Int64Counter
	matches   metric.Int64Counter
	goals     metric.Int64Counter
}

// New creates the instruments on the global meter.
func New() (*Metrics, error) {
	return NewWithMeter(otel.Meter(instrumentationName))
}

// NewWithMeter creates the instruments on m.
func NewWithMeter(m metric.Meter) (*Metrics, error) {
	var (
		t   Metrics
		err error
	)
	t.decisions, err = m.Int64Counter(
		"matchsim.decision.counters",
		metric.WithDescription("Decision layer counters such as shot gate checks and softmax draws"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating decision counter: %w", err)
	}
	t.events, err = m.Int64Counter(
		"matchsim.match.events",
		metric.WithDescription("Match events by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating event counter: %w", err)
	}
	t.matches, err = m.Int64Counter(
		"matchsim.matches.completed",
		metric.WithDescription("Matches simulated to full time"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating match counter: %w", err)
	}
	t.goals, err = m.Int64Counter(
		"matchsim.goals",
		metric.WithDescription("Goals scored by side"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating goal counter: %w", err)
	}
	return &t, nil
}

// Inc records one decision counter increment.
func (t *Metrics) Inc(c decision.Counter) {
	t.decisions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("counter", c.String())))
}

// ObserveEvent counts a match event; subscribe it to the engine's bus.
func (t *Metrics) ObserveEvent(ev engine.Event) {
	ctx := context.Background()
	t.events.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(ev.Type))))
	switch ev.Type {
	case engine.EventGoal:
		t.goals.Add(ctx, 1, metric.WithAttributes(attribute.String("side", ev.Side.String())))
	case engine.EventFullTime:
		t.matches.Add(ctx, 1)
	}
}

// Attach wires the metrics into a match before it runs.
func (t *Metrics) Attach(e *engine.Engine) {
	e.SetDecisionSink(t)
	e.Bus().Subscribe(t.ObserveEvent)
}
