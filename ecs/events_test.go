package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusQueuesUntilDispatch(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	bus.Subscribe(ObserverFunc(func(evt Event) {
		got = append(got, evt.Type)
		if evt.Type == EventEngineStartPlay {
			bus.Publish(Event{Type: EventSaveLevel})
		}
	}))

	bus.Publish(Event{Type: EventEngineStartPlay})
	assert.Empty(t, got)

	assert.Equal(t, 1, bus.Dispatch())
	assert.Equal(t, []EventType{EventEngineStartPlay}, got)

	assert.Equal(t, 1, bus.Dispatch())
	assert.Equal(t, []EventType{EventEngineStartPlay, EventSaveLevel}, got)
	assert.Zero(t, bus.Dispatch())
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	stop := bus.Subscribe(ObserverFunc(func(Event) { count++ }))

	bus.Notify(Event{Type: EventUser})
	stop()
	bus.Notify(Event{Type: EventUser})

	assert.Equal(t, 1, count)
}

func TestNilEventBusIsSafe(t *testing.T) {
	var bus *EventBus
	bus.Publish(Event{})
	bus.Notify(Event{})
	assert.Zero(t, bus.Dispatch())
}
