// Package ecs provides ECS adapters for animgraph.
package ecs

import (
	"github.com/phanxgames/animgraph"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// AnimatorData is the component value attached to animated entities.
type AnimatorData struct {
	Graph *animgraph.Graph
}

// Animator is the Donburi component type holding an entity's graph.
var Animator = donburi.NewComponentType[AnimatorData]()

// AnimatorEvent is a timeline event tagged with the entity whose graph
// raised it.
type AnimatorEvent struct {
	Entity donburi.Entity
	Event  animgraph.TimelineEvent
}

// TimelineEventType is the Donburi event type for animgraph timeline events.
// Subscribe to this in your ECS systems to receive clip markers and end
// notifications.
var TimelineEventType = events.NewEventType[AnimatorEvent]()

var animators = query.NewQuery(filter.Contains(Animator))

type donburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates an EventSink that publishes to TimelineEventType,
// tagging each event with entity. Events are queued and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World, entity donburi.Entity) animgraph.EventSink {
	return &donburiSink{world: world, entity: entity}
}

func (s *donburiSink) EmitEvent(e animgraph.TimelineEvent) {
	TimelineEventType.Publish(s.world, AnimatorEvent{Entity: s.entity, Event: e})
}

// NewAnimator creates an entity carrying a fresh graph whose timeline events
// are published into world.
func NewAnimator(world donburi.World, cfg animgraph.GraphConfig) (donburi.Entity, *animgraph.Graph) {
	entity := world.Create(Animator)
	g := animgraph.NewGraph(cfg)
	g.SetEventSink(NewDonburiSink(world, entity))
	Animator.SetValue(world.Entry(entity), AnimatorData{Graph: g})
	return entity, g
}

// GraphOf returns the graph of entity, or nil if it has no Animator.
func GraphOf(world donburi.World, entity donburi.Entity) *animgraph.Graph {
	if !world.Valid(entity) {
		return nil
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(Animator) {
		return nil
	}
	return Animator.Get(entry).Graph
}

// UpdateAnimators advances every playing graph in world by dt seconds.
func UpdateAnimators(world donburi.World, dt float64) {
	animators.Each(world, func(entry *donburi.Entry) {
		if g := Animator.Get(entry).Graph; g != nil {
			g.Update(dt)
		}
	})
}

// DestroyAnimator destroys the graph of entity and removes the entity.
func DestroyAnimator(world donburi.World, entity donburi.Entity) {
	if g := GraphOf(world, entity); g != nil {
		g.Destroy()
	}
	if world.Valid(entity) {
		world.Remove(entity)
	}
}
