// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-circuit-racer/pkg/physics"
)

// Type represents the type of event
type Type string

// Game event types
const (
	PhaseChanged    Type = "phase_changed"
	GameStarted     Type = "game_started"
	GameReset       Type = "game_reset"
	VehicleCrashed  Type = "vehicle_crashed"
	VehicleSpawned  Type = "vehicle_spawned"
	UIRevealed      Type = "ui_revealed"
	ViewportResized Type = "viewport_resized"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies one registered handler. Cancel removes it from
// the bus and is safe to call more than once.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// copy so a concurrent Publish keeps iterating its own snapshot
			remaining := make([]subscriber, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			b.handlers[eventType] = remaining
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// PhaseEvent reports a transition of the game phase machine
type PhaseEvent struct {
	BaseEvent
	From string
	To   string
}

// NewPhaseEvent creates a new phase event
func NewPhaseEvent(eventType Type, source interface{}, from, to string) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		From: from,
		To:   to,
	}
}

// VehicleEvent contains information about an obstacle vehicle
type VehicleEvent struct {
	BaseEvent
	VehicleID uint64
	Kind      string
	Clockwise bool
}

// NewVehicleEvent creates a new vehicle event
func NewVehicleEvent(source interface{}, vehicleID uint64, kind string, clockwise bool) *VehicleEvent {
	return &VehicleEvent{
		BaseEvent: BaseEvent{
			EventType: VehicleSpawned,
			Source:    source,
		},
		VehicleID: vehicleID,
		Kind:      kind,
		Clockwise: clockwise,
	}
}

// CollisionEvent contains information about the player hitting an obstacle
type CollisionEvent struct {
	BaseEvent
	VehicleID uint64
	Kind      string
	Contact   physics.Vector2D
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, vehicleID uint64, kind string, contact physics.Vector2D) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: VehicleCrashed,
			Source:    source,
		},
		VehicleID: vehicleID,
		Kind:      kind,
		Contact:   contact,
	}
}

// ResizeEvent carries new viewport dimensions in pixels
type ResizeEvent struct {
	BaseEvent
	Width  float64
	Height float64
}

// NewResizeEvent creates a new resize event
func NewResizeEvent(source interface{}, width, height float64) *ResizeEvent {
	return &ResizeEvent{
		BaseEvent: BaseEvent{
			EventType: ViewportResized,
			Source:    source,
		},
		Width:  width,
		Height: height,
	}
}
