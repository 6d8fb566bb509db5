package adapters

import (
	"context"

	"ulok_portal_backend/internal/notification/inapp"
	submissionsvc "ulok_portal_backend/internal/submissions/service"
)

// InAppSender is the narrow interface of the in-app notification service.
type InAppSender interface {
	Send(ctx context.Context, p inapp.SendParams) (inapp.Notification, error)
}

// SubmissionNotifierAdapter implements submissions/service.Notifier by
// writing an in-app notification linked to the submission.
type SubmissionNotifierAdapter struct {
	sender InAppSender
}

// NewSubmissionNotifier creates a new adapter.
func NewSubmissionNotifier(sender InAppSender) *SubmissionNotifierAdapter {
	return &SubmissionNotifierAdapter{sender: sender}
}

// Notify persists n and pushes it to any open stream of the owner.
func (a *SubmissionNotifierAdapter) Notify(ctx context.Context, n submissionsvc.Notification) error {
	submissionID := n.SubmissionID
	_, err := a.sender.Send(ctx, inapp.SendParams{
		UserID:       n.UserID,
		SubmissionID: &submissionID,
		Title:        n.Title,
		Body:         n.Body,
	})
	return err
}

// Compile-time check.
var _ submissionsvc.Notifier = (*SubmissionNotifierAdapter)(nil)
