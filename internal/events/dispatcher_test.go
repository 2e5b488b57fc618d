package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []string

	d.Subscribe(EventEntityDeleted, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.EntityID)
		return errors.New("boom")
	})
	d.Subscribe(EventEntityDeleted, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.EntityID)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		return nil
	})
	d.Subscribe(EventEntityRestored, func(context.Context, Event) error {
		got = append(got, "restored")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventEntityDeleted, EntityID: "n1"}))
	assert.Equal(t, []string{"first:n1", "second:n1"}, got)
}
