// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"ulok_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Submission Domain Events
// =============================================================================

// SubmissionCreated is published after a submission row and its photo exist.
type SubmissionCreated struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	PhotoPath    string    `json:"photoPath"`
}

func (e SubmissionCreated) EventName() string { return "submission.created" }

// SubmissionUpdated is published after an owner edit was persisted.
type SubmissionUpdated struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	PhotoChanged bool      `json:"photoChanged"`
}

func (e SubmissionUpdated) EventName() string { return "submission.updated" }

// SubmissionDeleted is published once the row is gone. Stored files may
// still be in the middle of cleanup.
type SubmissionDeleted struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	OwnerID      uuid.UUID `json:"ownerId"`
}

func (e SubmissionDeleted) EventName() string { return "submission.deleted" }

// =============================================================================
// Profile Domain Events
// =============================================================================

// ProfileRegistered is published the first time an external user registers
// their directory entry.
type ProfileRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e ProfileRegistered) EventName() string { return "profile.registered" }
