// Package ecs provides ECS adapters for gesture.
package ecs

import (
	"github.com/phanxgames/gesture"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for gesture interaction events.
// Subscribe to this in your ECS systems to receive touch and gesture events.
var InteractionEventType = events.NewEventType[gesture.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) gesture.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event gesture.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeGesture subscribes fn to gesture events of one kind. Touch events
// and other kinds are skipped.
func SubscribeGesture(world donburi.World, kind gesture.GestureKind, fn func(donburi.World, gesture.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e gesture.InteractionEvent) {
		if e.Type == gesture.EventGesture && e.Kind == kind {
			fn(w, e)
		}
	})
}

// SubscribeTouch subscribes fn to touch events.
func SubscribeTouch(world donburi.World, fn func(donburi.World, gesture.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e gesture.InteractionEvent) {
		if e.Type == gesture.EventTouch {
			fn(w, e)
		}
	})
}
