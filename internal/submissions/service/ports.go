package service

import (
	"context"

	"ulok_portal_backend/internal/submissions/domain"

	"github.com/google/uuid"
)

// OwnerDirectory confirms that an authenticated user is a registered
// external user.
type OwnerDirectory interface {
	ExternalUserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Notification is a one-way message to a submission owner.
type Notification struct {
	UserID       uuid.UUID
	SubmissionID uuid.UUID
	Title        string
	Body         string
}

// Notifier persists owner notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ReviewerLookup is the subset of the repository the reviewer chain needs.
type ReviewerLookup interface {
	ReviewerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Reviewer, error)
	ReviewerFromLatestActivity(ctx context.Context, submissionID uuid.UUID) (*domain.Reviewer, error)
}
