// Package animgraph is a frame-stepped animation blending engine for
// real-time characters.
//
// A [Graph] owns a tree of playback nodes. Each frame it computes, for every
// clip currently contributing to the pose, a blend weight, a playback time
// and a playback speed, and hands them to a compositor through an
// [OutputPort]. Sampling bones is the compositor's job; the graph only reads
// a clip's duration, loop flag and timeline events.
//
// # Quick start
//
//	idle, _ := animgraph.NewClip("idle", 2, true)
//	walk, _ := animgraph.NewClip("walk", 1, true,
//		animgraph.Event{NormalizedTime: 0.25, Name: "footL"},
//		animgraph.Event{NormalizedTime: 0.75, Name: "footR"},
//	)
//
//	g := animgraph.NewGraph(animgraph.GraphConfig{Name: "hero"})
//	g.Play(idle)
//	g.CrossFade(walk, 0.3)
//
//	// each frame
//	g.Update(dt)
//
// # Tree
//
// The root holds a layers container and a post-processor. Layers hold
// states: clip nodes, or [NodeKindBlend1D] and [NodeKindBlend2D] nodes
// whose clip children are weighted by a blend parameter. Every node is a
// [Node]; [Node.Kind] tells which variant accessors apply. Variant
// accessors called on the wrong kind answer "not applicable" (a zero value
// and false, or nil) instead of failing.
//
// # Layers and transitions
//
// [Graph.Layer] returns a layer by index, creating missing layers on
// demand. Layer 0 is the base layer and always has weight 1. Overlay
// layers carry their own weight, an additive flag and an opaque mask, and
// can fade with [Node.StartFade]. [Node.Play] makes one state the only
// weighted state of a layer; [Node.CrossFade] fades it in linearly while
// every other state fades out, so weights always sum to 1.
//
// # Pooling
//
// A state whose weight reaches 0 becomes old: it stops advancing and is
// kept for reuse by a later Play or CrossFade of the same content. Beyond
// [GraphConfig.MaxOldStates] per layer, the oldest are released, except
// while the layer is stopped with [Node.Stop]. Released nodes are recycled
// by the graph's arena; keep a [Ref] and resolve it with [Graph.Lookup] to
// detect release.
//
// # Sync groups
//
// States marked with [Node.SetSync] (or [Blend1DEntry.Sync]) join the sync
// group of their parent blend or layer node. Each frame the group is given
// per-member corrective speeds so that every member lands on the same
// normalized time, which keeps gait cycles of different lengths in phase.
//
// # Events and callbacks
//
// Clip events crossed during an evaluation, forward or in reverse and over
// any number of loop laps, are delivered to the graph's [EventSink].
// [Node.SetOnEnd] registers a callback for the end of a non-looping state.
// Both are dispatched after the evaluate traversal, so handlers may start
// new transitions.
//
// # Debug mode
//
// [GraphConfig.Debug] or [Graph.SetDebugMode] enables per-frame stats and
// warnings on stderr, and panics on use of released nodes.
//
// The ecs submodule binds graphs to [Donburi] entities; the metrics
// submodule exports pool statistics to Prometheus.
//
// [Donburi]: https://github.com/yohamta/donburi
package animgraph
