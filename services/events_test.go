// services/events_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventBusRoutesByUser(t *testing.T) {
	bus := NewEventBus()

	alice, cancelAlice := bus.Subscribe(1)
	defer cancelAlice()
	bob, cancelBob := bus.Subscribe(2)
	defer cancelBob()

	bus.Publish(Event{Type: EventLevelUp, UserID: 1})

	require.Len(t, alice, 1)
	require.Len(t, bob, 0)

	evt := <-alice
	require.Equal(t, EventLevelUp, evt.Type)
	require.NotEmpty(t, evt.ID)
	require.False(t, evt.At.IsZero())
}

func TestEventBusFirehoseSeesAll(t *testing.T) {
	bus := NewEventBus()

	all, cancel := bus.Subscribe(0)
	defer cancel()

	bus.Publish(Event{Type: EventLevelUp, UserID: 1})
	bus.Publish(Event{Type: EventStreakRecord, UserID: 2})

	require.Len(t, all, 2)
}

func TestEventBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.Subscribe(1)
	cancel()

	bus.Publish(Event{Type: EventLevelUp, UserID: 1})

	_, open := <-ch
	require.False(t, open)
}

func TestEventBusSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.Subscribe(1)
	defer cancel()

	for i := 0; i < 100; i++ {
		bus.Publish(Event{Type: EventLevelUp, UserID: 1})
	}

	// The buffer caps delivery; the publisher never blocked to get here.
	require.Equal(t, 64, len(ch))
}
