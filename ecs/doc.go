// Package ecs provides ECS adapters for anim's mixer events.
//
// The primary adapter is [NewDonburiStore], which bridges finished and loop
// events from every mixer of a scene into a [Donburi] world as typed events.
// Subscribe to [MixerEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
