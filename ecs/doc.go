// Package ecs provides ECS adapters for gesture's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges touch and gesture
// events for actors with a non-zero EntityID into a [Donburi] world as typed
// events. Subscribe to [InteractionEventType] in your ECS systems to receive
// them, or use [SubscribeGesture] and [SubscribeTouch] to filter by type.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	proc.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
