package service

import (
	"context"

	"ulok_portal_backend/internal/submissions/domain"
)

// ReviewerResolver finds the reviewer of a submission. A nil reviewer with a
// nil error means this source has no answer.
type ReviewerResolver interface {
	ResolveReviewer(ctx context.Context, s domain.Submission) (*domain.Reviewer, error)
}

// ReviewerResolverFunc adapts a function to ReviewerResolver.
type ReviewerResolverFunc func(ctx context.Context, s domain.Submission) (*domain.Reviewer, error)

// ResolveReviewer calls f.
func (f ReviewerResolverFunc) ResolveReviewer(ctx context.Context, s domain.Submission) (*domain.Reviewer, error) {
	return f(ctx, s)
}

// ReviewerChain tries each resolver in order and returns the first answer.
// A failing source does not stop later sources; its error is returned only
// when nothing resolved.
type ReviewerChain []ReviewerResolver

// ResolveReviewer implements ReviewerResolver.
func (c ReviewerChain) ResolveReviewer(ctx context.Context, s domain.Submission) (*domain.Reviewer, error) {
	var firstErr error
	for _, r := range c {
		reviewer, err := r.ResolveReviewer(ctx, s)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if reviewer != nil {
			return reviewer, nil
		}
	}
	return nil, firstErr
}

// DirectAssignment resolves the reviewer referenced on the submission row.
func DirectAssignment(lookup ReviewerLookup) ReviewerResolver {
	return ReviewerResolverFunc(func(ctx context.Context, s domain.Submission) (*domain.Reviewer, error) {
		if s.ReviewerID == nil {
			return nil, nil
		}
		return lookup.ReviewerByUserID(ctx, *s.ReviewerID)
	})
}

// LatestAssignmentActivity resolves the reviewer through the newest
// assignment activity recorded against the submission.
func LatestAssignmentActivity(lookup ReviewerLookup) ReviewerResolver {
	return ReviewerResolverFunc(func(ctx context.Context, s domain.Submission) (*domain.Reviewer, error) {
		return lookup.ReviewerFromLatestActivity(ctx, s.ID)
	})
}

// DefaultReviewerChain is direct assignment first, then the activity log.
func DefaultReviewerChain(lookup ReviewerLookup) ReviewerChain {
	return ReviewerChain{DirectAssignment(lookup), LatestAssignmentActivity(lookup)}
}
