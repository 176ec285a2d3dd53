// Package ecs bridges utopia interaction events into a [Donburi] world.
//
// [NewDonburiSink] publishes every editor event to [InteractionEventType].
// [TrackGestures] keeps a [GestureStatus] component in sync with those events
// so ECS systems can read the live gesture without holding the editor.
//
// Usage:
//
//	world := donburi.NewWorld()
//	editor.SetEventSink(ecs.NewDonburiSink(world))
//	tracker := ecs.TrackGestures(world)
//	// once per frame:
//	ecs.InteractionEventType.ProcessEvents(world)
//	status, _ := ecs.Status(world, tracker)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
