// Package notification owns in-app notifications and the real-time push
// channel. It subscribes to submission and profile events so domain modules
// never talk to the SSE hub directly.
package notification

import (
	"context"

	"ulok_portal_backend/internal/events"
	apphttp "ulok_portal_backend/internal/http"
	notifhandler "ulok_portal_backend/internal/notification/handler"
	"ulok_portal_backend/internal/notification/inapp"
	"ulok_portal_backend/internal/notification/sse"
	"ulok_portal_backend/platform/httpkit"
	"ulok_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	welcomeTitle = "Selamat datang di portal ULOK"
	welcomeBody  = "Profil Anda sudah terdaftar. Anda dapat mulai mengajukan lokasi."
)

// Module wires the in-app store, the SSE hub and their routes.
type Module struct {
	log          *logger.Logger
	sse          *sse.Service
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
}

// New creates a new notification module.
func New(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return newModule(inapp.NewRepository(pool), log)
}

func newModule(store inapp.Store, log *logger.Logger) *Module {
	hub := sse.New(log)
	inAppSvc := inapp.NewService(store, log)
	inAppSvc.SetSSE(hub)

	return &Module{
		log:          log,
		sse:          hub,
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc, hub.Handler(streamUserID)),
	}
}

func streamUserID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		return uuid.Nil, false
	}
	return identity.UserID(), true
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.inAppHandler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// SSE exposes the push hub, mainly so shutdown can close open streams.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SubmissionCreated{}.EventName(), m)
	bus.Subscribe(events.SubmissionUpdated{}.EventName(), m)
	bus.Subscribe(events.SubmissionDeleted{}.EventName(), m)
	bus.Subscribe(events.ProfileRegistered{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SubmissionCreated:
		m.sse.Publish(e.OwnerID, sse.Event{Type: sse.EventSubmissionCreated, SubmissionID: e.SubmissionID, Data: e})
		return nil
	case events.SubmissionUpdated:
		m.sse.Publish(e.OwnerID, sse.Event{Type: sse.EventSubmissionUpdated, SubmissionID: e.SubmissionID, Data: e})
		return nil
	case events.SubmissionDeleted:
		m.sse.Publish(e.OwnerID, sse.Event{Type: sse.EventSubmissionDeleted, SubmissionID: e.SubmissionID, Data: e})
		return nil
	case events.ProfileRegistered:
		return m.handleProfileRegistered(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleProfileRegistered(ctx context.Context, e events.ProfileRegistered) error {
	_, err := m.inAppService.Send(ctx, inapp.SendParams{
		UserID: e.UserID,
		Title:  welcomeTitle,
		Body:   welcomeBody,
	})
	if err != nil {
		m.log.Error("failed to send welcome notification", "error", err, "userId", e.UserID)
	}
	return err
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
