// Package submissions provides the ulok submission bounded context module.
package submissions

import (
	"ulok_portal_backend/internal/adapters/storage"
	"ulok_portal_backend/internal/events"
	apphttp "ulok_portal_backend/internal/http"
	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/handler"
	"ulok_portal_backend/internal/submissions/repository"
	"ulok_portal_backend/internal/submissions/service"
	"ulok_portal_backend/platform/config"
	"ulok_portal_backend/platform/logger"
	"ulok_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the submissions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// Dependencies are the cross-module collaborators of the submissions module.
type Dependencies struct {
	Pool     *pgxpool.Pool
	Storage  storage.StorageService
	Owners   service.OwnerDirectory
	Notifier service.Notifier
	EventBus events.Bus
	Val      *validator.Validator
	Config   config.SubmissionConfig
	Logger   *logger.Logger
}

// NewModule creates and initializes the submissions module.
func NewModule(deps Dependencies) *Module {
	repo := repository.New(deps.Pool)
	svc := service.New(service.Deps{
		Repo:      repo,
		Storage:   deps.Storage,
		Owners:    deps.Owners,
		Notifier:  deps.Notifier,
		Reviewers: service.DefaultReviewerChain(repo),
		Checker:   domain.NewChecker(deps.Val, deps.Config.GetPhoneRegion()),
		EventBus:  deps.EventBus,
		Location:  deps.Config.GetDisplayLocation(),
		Logger:    deps.Logger,
	})

	return &Module{
		handler: handler.New(svc),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "submissions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts submission routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/submissions"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
