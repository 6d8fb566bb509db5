// Package profile provides the external user directory module.
package profile

import (
	"ulok_portal_backend/internal/events"
	apphttp "ulok_portal_backend/internal/http"
	"ulok_portal_backend/internal/profile/handler"
	"ulok_portal_backend/internal/profile/repository"
	"ulok_portal_backend/internal/profile/service"
	"ulok_portal_backend/platform/logger"
	"ulok_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the profile bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the profile module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, phoneRegion string, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), bus, phoneRegion, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profile"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts profile routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/profile"))
}

var _ apphttp.Module = (*Module)(nil)
