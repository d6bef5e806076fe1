package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		require.FailNow(t, "no event received")
		return Event{}
	}
}

func TestHubPublishReachesRecipientAndWildcard(t *testing.T) {
	hub := NewHub(0)

	userCh, userCancel := hub.Subscribe("emp-1")
	defer userCancel()
	otherCh, otherCancel := hub.Subscribe("emp-2")
	defer otherCancel()
	allCh, allCancel := hub.Subscribe(Wildcard)
	defer allCancel()

	hub.Publish(Event{RecipientID: "emp-1", Type: "leave_approved"})

	assert.Equal(t, "leave_approved", receive(t, userCh).Type)
	assert.Equal(t, "emp-1", receive(t, allCh).RecipientID)
	assert.Empty(t, otherCh)
}

func TestHubCancel(t *testing.T) {
	hub := NewHub(0)

	ch, cancel := hub.Subscribe("emp-1")
	_, cancel2 := hub.Subscribe("emp-1")
	assert.Equal(t, 2, hub.SubscriberCount("emp-1"))

	cancel()
	cancel()
	assert.Equal(t, 1, hub.SubscriberCount("emp-1"))
	_, open := <-ch
	assert.False(t, open)

	cancel2()
	assert.Zero(t, hub.SubscriberCount("emp-1"))
}

func TestHubPublishDoesNotBlockOnFullChannel(t *testing.T) {
	hub := NewHub(4)
	ch, cancel := hub.Subscribe("emp-1")
	defer cancel()

	for i := 0; i < 10; i++ {
		hub.Publish(Event{RecipientID: "emp-1", Type: "tick"})
	}
	assert.Len(t, ch, 4)
	assert.Equal(t, int64(6), hub.Dropped())
}
