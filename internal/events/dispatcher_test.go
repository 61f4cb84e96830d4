package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.ComplaintID)
		return nil
	})
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.ComplaintID)
		return nil
	})
	d.Subscribe(EventComplaintDeleted, func(_ context.Context, _ Event) error {
		t.Fatal("unexpected handler")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintCreated, ComplaintID: "c1"}))
	assert.Equal(t, []string{"first:c1", "second:c1"}, got)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	called := false
	d.Subscribe(EventComplaintAssigned, func(context.Context, Event) error { return boom })
	d.Subscribe(EventComplaintAssigned, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintAssigned})
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintMessageAdded}))
}
