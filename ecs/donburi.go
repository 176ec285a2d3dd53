package ecs

import (
	"github.com/laogong5i0-2/utopia"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for utopia interaction
// events. Subscribe to it in your ECS systems to follow gestures.
var InteractionEventType = events.NewEventType[utopia.InteractionEvent]()

// GestureStatus mirrors the live gesture of an editor inside the world.
type GestureStatus struct {
	Active    bool
	Strategy  utopia.StrategyID
	Fitness   float64
	Commits   int
	Cancels   int
	Failures  int
	LastPoint utopia.CanvasPoint
}

// GestureStatusComponent holds the GestureStatus of a tracker entity.
var GestureStatusComponent = donburi.NewComponentType[GestureStatus]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Interaction
// events are published to InteractionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) utopia.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event utopia.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// TrackGestures creates an entity carrying a GestureStatus and subscribes it
// to InteractionEventType. The status is updated whenever the world's events
// are processed.
func TrackGestures(world donburi.World) donburi.Entity {
	entity := world.Create(GestureStatusComponent)
	InteractionEventType.Subscribe(world, func(w donburi.World, ev utopia.InteractionEvent) {
		if !w.Valid(entity) {
			return
		}
		st := GestureStatusComponent.Get(w.Entry(entity))
		applyEvent(st, ev)
	})
	return entity
}

func applyEvent(st *GestureStatus, ev utopia.InteractionEvent) {
	switch ev.Type {
	case utopia.EventInteractionStart:
		st.Active = true
		st.Strategy = ""
		st.Fitness = 0
		st.LastPoint = ev.Point
	case utopia.EventInteractionUpdate, utopia.EventStrategyChanged:
		st.Strategy = ev.Strategy
		st.Fitness = ev.Fitness
		if ev.Type == utopia.EventInteractionUpdate {
			st.LastPoint = ev.Point
		}
	case utopia.EventInteractionCommit:
		st.Active = false
		st.Commits++
	case utopia.EventInteractionCancel:
		st.Active = false
		st.Cancels++
	case utopia.EventFoldFailed:
		st.Failures++
	}
}

// Status returns the GestureStatus of a tracker entity.
func Status(world donburi.World, entity donburi.Entity) (GestureStatus, bool) {
	if !world.Valid(entity) {
		return GestureStatus{}, false
	}
	return *GestureStatusComponent.Get(world.Entry(entity)), true
}
