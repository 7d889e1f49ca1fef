// Package ecs provides ECS adapters for anim.
package ecs

import (
	"github.com/phanxgames/anim"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MixerEventType is the Donburi event type for anim mixer events.
// Subscribe to this in your ECS systems to receive finished and loop events.
var MixerEventType = events.NewEventType[anim.MixerEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Mixer events are published to MixerEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) anim.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event anim.MixerEvent) {
	MixerEventType.Publish(s.world, event)
}
