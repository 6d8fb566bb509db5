package repository

import (
	"context"
	"errors"
	"fmt"

	"ulok_portal_backend/internal/submissions/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	reviewerByUserQuery = `
		SELECT full_name, COALESCE(phone, '')
		FROM internal_users
		WHERE id = $1`

	reviewerFromActivityQuery = `
		SELECT u.full_name, COALESCE(u.phone, '')
		FROM assignment_activities aa
		JOIN assignments a ON a.id = aa.assignment_id
		JOIN internal_users u ON u.id = a.user_id
		WHERE aa.ulok_id = $1
		ORDER BY aa.created_at DESC
		LIMIT 1`

	latestVerdictQuery = `
		SELECT ka.verdict
		FROM kplt k
		JOIN kplt_approvals ka ON ka.kplt_id = k.id
		WHERE k.ulok_id = $1
		ORDER BY ka.created_at DESC
		LIMIT 1`
)

// ReviewerByUserID resolves a reviewer from the internal user directory.
func (r *Repo) ReviewerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Reviewer, error) {
	return r.queryReviewer(ctx, reviewerByUserQuery, userID)
}

// ReviewerFromLatestActivity resolves the reviewer through the assignment log.
func (r *Repo) ReviewerFromLatestActivity(ctx context.Context, submissionID uuid.UUID) (*domain.Reviewer, error) {
	return r.queryReviewer(ctx, reviewerFromActivityQuery, submissionID)
}

func (r *Repo) queryReviewer(ctx context.Context, query string, arg uuid.UUID) (*domain.Reviewer, error) {
	var rv domain.Reviewer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&rv.Name, &rv.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve reviewer: %w", err)
	}
	return &rv, nil
}

// LatestVerdict returns the newest KPLT verdict across all linked KPLT records.
func (r *Repo) LatestVerdict(ctx context.Context, submissionID uuid.UUID) (*string, error) {
	var verdict string
	if err := r.pool.QueryRow(ctx, latestVerdictQuery, submissionID).Scan(&verdict); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest verdict: %w", err)
	}
	return &verdict, nil
}
