package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(func(ev Event) { got = append(got, "all-1:"+string(ev.Type)) })
	bus.SubscribeTyped(EventGoal, func(ev Event) { got = append(got, "goal:"+string(ev.Type)) })
	bus.Subscribe(func(ev Event) { got = append(got, "all-2:"+string(ev.Type)) })

	bus.Publish(Event{Type: EventPass})
	bus.Publish(Event{Type: EventGoal})

	assert.Equal(t, []string{
		"all-1:PASS", "all-2:PASS",
		"all-1:GOAL", "all-2:GOAL", "goal:GOAL",
	}, got)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	var all, typed int

	h1 := bus.Subscribe(func(Event) { all++ })
	h2 := bus.SubscribeTyped(EventShot, func(Event) { typed++ })
	bus.Publish(Event{Type: EventShot})

	bus.Unsubscribe(h1)
	bus.Unsubscribe(h2)
	bus.Publish(Event{Type: EventShot})

	assert.Equal(t, 1, all)
	assert.Equal(t, 1, typed)
}

func TestEventBusRejectsNilListeners(t *testing.T) {
	bus := NewEventBus()
	assert.Equal(t, -1, bus.Subscribe(nil))
	assert.Equal(t, -1, bus.SubscribeTyped(EventGoal, nil))
}
