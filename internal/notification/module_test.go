package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"ulok_portal_backend/internal/events"
	"ulok_portal_backend/internal/notification/inapp"
	"ulok_portal_backend/internal/notification/sse"
	"ulok_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	items []inapp.Notification
}

func (s *memoryStore) Create(_ context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := inapp.Notification{
		ID:           uuid.New(),
		UserID:       p.UserID,
		SubmissionID: p.SubmissionID,
		Title:        p.Title,
		Body:         p.Body,
		CreatedAt:    time.Now().UTC(),
	}
	s.items = append(s.items, n)
	return n, nil
}

func (s *memoryStore) List(_ context.Context, userID uuid.UUID, _, _ int) ([]inapp.Notification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []inapp.Notification
	for _, n := range s.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (s *memoryStore) CountUnread(context.Context, uuid.UUID) (int, error)  { return 0, nil }
func (s *memoryStore) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (s *memoryStore) MarkAllRead(context.Context, uuid.UUID) error         { return nil }

func TestSubmissionEventsArePushedToOwner(t *testing.T) {
	m := newModule(&memoryStore{}, logger.Discard())
	owner := uuid.New()
	stream, unsubscribe := m.SSE().Subscribe(owner)
	defer unsubscribe()

	id := uuid.New()
	require.NoError(t, m.Handle(context.Background(), events.SubmissionUpdated{SubmissionID: id, OwnerID: owner}))

	select {
	case ev := <-stream:
		assert.Equal(t, sse.EventSubmissionUpdated, ev.Type)
		assert.Equal(t, id, ev.SubmissionID)
	default:
		t.Fatal("expected a pushed event")
	}
}

func TestSubmissionEventsDoNotLeakToOtherUsers(t *testing.T) {
	m := newModule(&memoryStore{}, logger.Discard())
	stranger := uuid.New()
	stream, unsubscribe := m.SSE().Subscribe(stranger)
	defer unsubscribe()

	require.NoError(t, m.Handle(context.Background(), events.SubmissionDeleted{SubmissionID: uuid.New(), OwnerID: uuid.New()}))

	assert.Empty(t, stream)
}

func TestProfileRegisteredSendsWelcome(t *testing.T) {
	store := &memoryStore{}
	m := newModule(store, logger.Discard())
	user := uuid.New()
	stream, unsubscribe := m.SSE().Subscribe(user)
	defer unsubscribe()

	require.NoError(t, m.Handle(context.Background(), events.ProfileRegistered{UserID: user, Email: "a@example.com"}))

	items, total, err := m.InAppService().List(context.Background(), user, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, welcomeTitle, items[0].Title)

	ev := <-stream
	assert.Equal(t, sse.EventNotification, ev.Type)
}

func TestRegisterHandlersViaBus(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	m := newModule(&memoryStore{}, logger.Discard())
	m.RegisterHandlers(bus)

	owner := uuid.New()
	stream, unsubscribe := m.SSE().Subscribe(owner)
	defer unsubscribe()

	require.NoError(t, bus.PublishSync(context.Background(), events.SubmissionCreated{SubmissionID: uuid.New(), OwnerID: owner}))

	ev := <-stream
	assert.Equal(t, sse.EventSubmissionCreated, ev.Type)
}
