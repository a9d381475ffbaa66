package engine

import (
	"sync"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// EventType is the category of a match event.
type EventType string

const (
	EventKickoff          EventType = "KICKOFF"
	EventPass             EventType = "PASS"
	EventShot             EventType = "SHOT"
	EventGoal             EventType = "GOAL"
	EventTackle           EventType = "TACKLE"
	EventHeader           EventType = "HEADER"
	EventPossessionChange EventType = "POSSESSION_CHANGE"
	EventRestart          EventType = "RESTART"
	EventOffside          EventType = "OFFSIDE"
	EventHalfTime         EventType = "HALF_TIME"
	EventFullTime         EventType = "FULL_TIME"
)

// NoPlayer fills Player and Target when an event has no such slot.
const NoPlayer = -1

// Event is something that happened on the pitch.
type Event struct {
	Type     EventType
	Tick     uint64
	Minute   int
	Side     geometry.Side
	Player   int // slot 0-21 of the acting player
	Target   int // receiver, tackled holder or goalkeeper
	Position geometry.Vec2
	Success  bool
	Value    float64 // xG for shots and headers at goal
	Detail   string  // action or restart name
}

// Listener reacts to every published event.
type Listener func(Event)

// TypedListener reacts to one event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus is a synchronous publish/subscribe hub. Listeners run on the tick
// goroutine in subscription order for typed listeners.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns its handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle, typed or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event synchronously, catch-all listeners first.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, h := range bus.order {
		bus.listeners[h](event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}
