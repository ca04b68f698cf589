package hand

import "github.com/akmonengine/grasp/skeleton"

const (
	HOLD EventType = iota
	RESET
)

type EventType uint8

// Event interface - all notifications implement this
type Event interface {
	Type() EventType
}

// HoldEvent is sent once when the hand attaches to an object
type HoldEvent struct {
	Hand     *Hand
	Wrist    Body
	Skeleton skeleton.PoseSource
	Object   Object
}

func (e HoldEvent) Type() EventType { return HOLD }

// ResetEvent is sent when a grasp episode ends, for any reason
type ResetEvent struct {
	Hand *Hand
}

func (e ResetEvent) Type() EventType { return RESET }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers notifications during a frame and sends them on flush
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 4),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer.
// Listeners may call back into the hand; anything they emit waits for the next flush.
func (e *Events) flush() {
	if len(e.buffer) == 0 {
		return
	}

	pending := e.buffer
	e.buffer = make([]Event, 0, cap(pending))
	for _, event := range pending {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
}
