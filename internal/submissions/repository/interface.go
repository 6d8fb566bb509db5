package repository

import (
	"context"

	"ulok_portal_backend/internal/submissions/domain"

	"github.com/google/uuid"
)

// ListParams selects one page of an owner's submissions.
type ListParams struct {
	OwnerID uuid.UUID
	Limit   int
	Offset  int
}

// UpdateParams patches the owner-editable columns of one submission.
// PhotoPath is only written when non-nil.
type UpdateParams struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Fields    domain.Fields
	PhotoPath *string
}

// UpdateResult is the patched row plus the photo path it replaced.
type UpdateResult struct {
	Submission        domain.Submission
	PreviousPhotoPath *string
}

// Repository is the owner-scoped record store for submissions.
type Repository interface {
	List(ctx context.Context, params ListParams) ([]domain.Submission, int, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Submission, error)
	Create(ctx context.Context, s domain.Submission) (domain.Submission, error)
	Update(ctx context.Context, params UpdateParams) (UpdateResult, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ReviewerByUserID resolves a directly assigned reviewer. Returns nil
	// when the user does not exist.
	ReviewerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Reviewer, error)
	// ReviewerFromLatestActivity resolves the user of the most recent
	// assignment activity recorded for a submission.
	ReviewerFromLatestActivity(ctx context.Context, submissionID uuid.UUID) (*domain.Reviewer, error)
	// LatestVerdict returns the most recent KPLT verdict linked to a
	// submission, or nil when none exists.
	LatestVerdict(ctx context.Context, submissionID uuid.UUID) (*string, error)

	// CurrentPhotoPaths maps every id that still has a row to its stored
	// photo path ("" when none). Not owner-scoped; only the storage sweep
	// uses it.
	CurrentPhotoPaths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
