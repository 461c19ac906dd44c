// Package ecs provides ECS adapters for animgraph.
//
// [NewAnimator] attaches a graph to a [Donburi] entity and bridges its
// timeline events (clip markers, end of playback) into the world as typed
// events. Subscribe to [TimelineEventType] in your ECS systems to receive
// them, and call [UpdateAnimators] once per frame.
//
// Usage:
//
//	entity, graph := ecs.NewAnimator(world, animgraph.GraphConfig{Name: "hero"})
//	graph.Play(idle)
//	ecs.TimelineEventType.Subscribe(world, onFootstep)
//
//	// each frame
//	ecs.UpdateAnimators(world, dt)
//	ecs.TimelineEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
