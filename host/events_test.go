package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishInOrder(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(func(ev Event) { got = append(got, "first") })
	bus.Subscribe(func(ev Event) { got = append(got, "second") })

	bus.Publish(BufferClosed{ID: "b1"})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	var events []Event
	d := bus.Subscribe(func(ev Event) { events = append(events, ev) })
	require.Equal(t, 1, bus.Len())

	bus.Publish(TabsClosed{IDs: []BufferID{"x"}})
	require.NoError(t, d.Dispose())
	require.NoError(t, d.Dispose())
	bus.Publish(TabsClosed{IDs: []BufferID{"y"}})

	require.Len(t, events, 1)
	assert.Equal(t, TabsClosed{IDs: []BufferID{"x"}}, events[0])
	assert.Equal(t, 0, bus.Len())
}

func TestEventBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	late := 0
	bus.Subscribe(func(ev Event) {
		bus.Subscribe(func(Event) { late++ })
	})

	bus.Publish(BufferClosed{ID: "a"})
	assert.Equal(t, 0, late, "subscribers added during publish see the next event only")

	bus.Publish(BufferClosed{ID: "b"})
	assert.Equal(t, 1, late)
}
