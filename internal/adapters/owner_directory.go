package adapters

import (
	"context"

	submissionsvc "ulok_portal_backend/internal/submissions/service"

	"github.com/google/uuid"
)

// ProfileExistenceChecker is the narrow interface of the profile service.
type ProfileExistenceChecker interface {
	ExternalUserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// OwnerDirectoryAdapter implements submissions/service.OwnerDirectory using
// the external user directory of the profile module.
type OwnerDirectoryAdapter struct {
	profiles ProfileExistenceChecker
}

// NewOwnerDirectory creates a new adapter.
func NewOwnerDirectory(profiles ProfileExistenceChecker) *OwnerDirectoryAdapter {
	return &OwnerDirectoryAdapter{profiles: profiles}
}

// ExternalUserExists reports whether userID may own submissions.
func (a *OwnerDirectoryAdapter) ExternalUserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return a.profiles.ExternalUserExists(ctx, userID)
}

// Compile-time check.
var _ submissionsvc.OwnerDirectory = (*OwnerDirectoryAdapter)(nil)
