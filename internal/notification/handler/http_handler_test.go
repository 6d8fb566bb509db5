package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ulok_portal_backend/internal/notification/inapp"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInbox struct {
	items     []inapp.Notification
	markErr   error
	gotPage   int
	gotSize   int
	markedIDs []uuid.UUID
}

func (s *stubInbox) List(_ context.Context, _ uuid.UUID, page, pageSize int) ([]inapp.Notification, int, error) {
	s.gotPage, s.gotSize = page, pageSize
	return s.items, len(s.items), nil
}

func (s *stubInbox) CountUnread(context.Context, uuid.UUID) (int, error) { return 3, nil }

func (s *stubInbox) MarkRead(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	s.markedIDs = append(s.markedIDs, id)
	return s.markErr
}

func (s *stubInbox) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func newRouter(inbox Inbox, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(httpkit.ContextUserIDKey, userID)
		}
		c.Next()
	})
	NewHTTPHandler(inbox, nil).RegisterRoutes(r.Group("/notifications"))
	return r
}

func TestListClampsPageSize(t *testing.T) {
	inbox := &stubInbox{items: []inapp.Notification{{ID: uuid.New(), Title: "t", Body: "b"}}}
	r := newRouter(inbox, uuid.New())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications?page=0&limit=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inbox.gotPage)
	assert.Equal(t, 50, inbox.gotSize)

	var body struct {
		Items []inapp.Notification `json:"items"`
		Total int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.Total)
}

func TestUnauthenticatedIsRejected(t *testing.T) {
	r := newRouter(&stubInbox{}, uuid.Nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications/unread", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkReadMalformedIDIsNotFound(t *testing.T) {
	inbox := &stubInbox{}
	r := newRouter(inbox, uuid.New())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/notifications/nope/read", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, inbox.markedIDs)
}

func TestMarkReadPropagatesNotFound(t *testing.T) {
	inbox := &stubInbox{markErr: apperr.NotFound("notification not found")}
	r := newRouter(inbox, uuid.New())
	id := uuid.New()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/notifications/"+id.String()+"/read", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, inbox.markedIDs)
}
