// Package ecs provides ECS adapters for meadow's scene events.
//
// The primary adapter is [NewDonburiStore], which bridges meadow scene
// events (cloud re-placement, model loaded, model failed) into a [Donburi]
// world as typed events. Subscribe to [SceneEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	driver.Run(ctx, cfg, driver.Options{Store: store})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
