// Package ecs provides ECS adapters for meadow.
package ecs

import (
	"github.com/phanxgames/meadow"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for meadow scene events.
// Subscribe to this in your ECS systems to receive cloud and model events.
var SceneEventType = events.NewEventType[meadow.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) meadow.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event meadow.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
