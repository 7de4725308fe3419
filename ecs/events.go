package ecs

type EventType int

const (
	EventEngineStartPlay EventType = iota
	EventEngineStopPlay
	EventSaveLevel
	EventLoadLevel
	EventUser
)

func (t EventType) String() string {
	switch t {
	case EventEngineStartPlay:
		return "engine_start_play"
	case EventEngineStopPlay:
		return "engine_stop_play"
	case EventSaveLevel:
		return "save_level"
	case EventLoadLevel:
		return "load_level"
	case EventUser:
		return "user"
	default:
		return "unknown"
	}
}

// Event is published on an EventBus. Source may be nil for engine events.
type Event struct {
	Type   EventType
	Source *GameObject
	Data   any
}

type Observer interface {
	OnNotify(evt Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(evt Event)

func (f ObserverFunc) OnNotify(evt Event) { f(evt) }

type subscription struct {
	id       int
	observer Observer
}

// EventBus is a publish/subscribe channel owned by the application context.
// Publish queues events; Dispatch delivers them at the frame's safe point.
type EventBus struct {
	subs   []subscription
	nextID int
	queue  EventQueue
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers o and returns a function that removes it.
func (b *EventBus) Subscribe(o Observer) func() {
	if b == nil || o == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, observer: o})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *EventBus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.queue.Push(evt)
}

// Notify delivers evt to every observer immediately.
func (b *EventBus) Notify(evt Event) {
	if b == nil {
		return
	}
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	for _, s := range subs {
		s.observer.OnNotify(evt)
	}
}

// Dispatch drains queued events to observers and returns how many were
// delivered. Events published during dispatch wait for the next call.
func (b *EventBus) Dispatch() int {
	if b == nil {
		return 0
	}
	events := b.queue.Drain()
	for _, evt := range events {
		b.Notify(evt)
	}
	return len(events)
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
