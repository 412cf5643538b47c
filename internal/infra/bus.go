package infra

import "github.com/chrisconley/metcorr/specs"

// EventType represents the type of event in the system
type EventType int

const (
	EventCorrected EventType = iota
	RunCompleted
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	switch et {
	case EventCorrected:
		return "EventCorrected"
	case RunCompleted:
		return "RunCompleted"
	default:
		return "Unknown"
	}
}

type Event interface{ EventType() EventType }
type Handler func(Event)
type Bus struct{ subs map[EventType][]Handler }

func NewBus() *Bus { return &Bus{subs: map[EventType][]Handler{}} }
func (b *Bus) Publish(e Event) {
	for _, h := range b.subs[e.EventType()] {
		h(e)
	}
}
func (b *Bus) Subscribe(evt EventType, h Handler) { b.subs[evt] = append(b.subs[evt], h) }

// EventCorrectedEvent carries the records produced for one input event.
// Published in input order.
type EventCorrectedEvent struct {
	Index   int
	Run     uint32
	Event   uint64
	Records []specs.METRecordSpec
}

func (e EventCorrectedEvent) EventType() EventType { return EventCorrected }

// RunCompletedEvent is published once after the last EventCorrectedEvent.
type RunCompletedEvent struct {
	Events  int
	Records int
}

func (e RunCompletedEvent) EventType() EventType { return RunCompleted }
