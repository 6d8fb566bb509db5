// Package service holds the external user directory logic.
package service

import (
	"context"
	"strings"

	"ulok_portal_backend/internal/events"
	"ulok_portal_backend/internal/profile/repository"
	"ulok_portal_backend/internal/profile/transport"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/logger"
	"ulok_portal_backend/platform/phone"
	"ulok_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

type Service struct {
	repo   repository.Repository
	bus    events.Bus
	region string
	log    *logger.Logger
}

func New(repo repository.Repository, bus events.Bus, phoneRegion string, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, region: phoneRegion, log: log}
}

// Register creates the caller's directory entry. Repeated calls return the
// existing profile unchanged.
func (s *Service) Register(ctx context.Context, userID uuid.UUID, email string, req transport.RegisterProfileRequest) (repository.Profile, bool, error) {
	profile, inserted, err := s.repo.Upsert(ctx, repository.CreateParams{
		ID:       userID,
		Email:    optional(email),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    s.normalizePhone(req.Phone),
		Company:  sanitize.TextPtr(req.Company),
		Address:  sanitize.TextPtr(req.Address),
	})
	if err != nil {
		return repository.Profile{}, false, apperr.Upstream(apperr.KindBadRequest, err)
	}

	if inserted {
		s.log.WithContext(ctx).Info("external user registered", "user_id", userID)
		if s.bus != nil {
			s.bus.Publish(ctx, events.ProfileRegistered{
				BaseEvent: events.NewBaseEvent(),
				UserID:    userID,
				Email:     email,
			})
		}
	}
	return profile, inserted, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return repository.Profile{}, apperr.Upstream(apperr.KindInternal, err)
	}
	return profile, err
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (repository.Profile, error) {
	profile, err := s.repo.Update(ctx, userID, repository.UpdateParams{
		FullName: trimmed(req.FullName),
		Phone:    s.normalizePhone(req.Phone),
		Company:  sanitize.TextPtr(req.Company),
		Address:  sanitize.TextPtr(req.Address),
	})
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return repository.Profile{}, apperr.Upstream(apperr.KindBadRequest, err)
	}
	return profile, err
}

// ExternalUserExists reports whether userID is in the external directory.
func (s *Service) ExternalUserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

func (s *Service) normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw, s.region)
	return &normalized
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
