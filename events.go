package grasp

import (
	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/constraint"
)

const (
	ON_SLEEP EventType = iota
	ON_WAKE
	JOINT_ATTACHED
	JOINT_DETACHED
	BODY_REMOVED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// Joint events
type JointAttachedEvent struct {
	Joint *constraint.FixedJoint
}

func (e JointAttachedEvent) Type() EventType { return JOINT_ATTACHED }

type JointDetachedEvent struct {
	Joint *constraint.FixedJoint
}

func (e JointDetachedEvent) Type() EventType { return JOINT_DETACHED }

type BodyRemovedEvent struct {
	Body *actor.RigidBody
}

func (e BodyRemovedEvent) Type() EventType { return BODY_REMOVED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 64),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.RigidBody]bool)
	}

	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if len(e.buffer) == 0 {
		return
	}

	// listeners may act on the world; what they emit waits for the next flush
	pending := e.buffer
	e.buffer = make([]Event, 0, cap(pending))

	for _, event := range pending {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
}
