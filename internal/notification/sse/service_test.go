package sse

import (
	"testing"

	"ulok_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyTargetUser(t *testing.T) {
	svc := New(logger.Discard())
	alice, bob := uuid.New(), uuid.New()

	aliceEvents, unsubAlice := svc.Subscribe(alice)
	defer unsubAlice()
	bobEvents, unsubBob := svc.Subscribe(bob)
	defer unsubBob()

	svc.Publish(alice, Event{Type: EventSubmissionUpdated})

	select {
	case ev := <-aliceEvents:
		assert.Equal(t, EventSubmissionUpdated, ev.Type)
	default:
		t.Fatal("expected event for alice")
	}
	assert.Empty(t, bobEvents)
}

func TestUnsubscribeClosesAndIsIdempotent(t *testing.T) {
	svc := New(logger.Discard())
	user := uuid.New()

	events, unsubscribe := svc.Subscribe(user)
	require.Equal(t, 1, svc.ConnectedClients(user))

	unsubscribe()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)
	assert.Zero(t, svc.ConnectedClients(user))
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	svc := New(logger.Discard())
	user := uuid.New()
	events, unsubscribe := svc.Subscribe(user)
	defer unsubscribe()

	for i := 0; i < clientBuffer+5; i++ {
		svc.Publish(user, Event{Type: EventNotification})
	}

	assert.Len(t, events, clientBuffer)
}
