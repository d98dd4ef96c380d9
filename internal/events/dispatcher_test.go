package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventUserRegistered, func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserRegistered, UserID: 42}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserLoggedIn, UserID: 42}))

	require.Len(t, seen, 1)
	assert.Equal(t, int64(42), seen[0].UserID)
}
