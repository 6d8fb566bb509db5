// Package domain holds the submission (ulok) record, its field rules and the
// storage naming scheme shared by the service and the HTTP layer.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the coarse workflow state of a submission.
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusInProgress Status = "In Progress"
	StatusOK         Status = "OK"
	StatusRejected   Status = "NOK"
)

// Canonical object type labels.
const (
	ObjectTypeLand     = "Tanah"
	ObjectTypeBuilding = "Bangunan"
)

// Submission is one property proposal ("ulok") owned by an external user.
type Submission struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Province      string
	Regency       string
	District      string
	Village       string
	Address       string
	Latitude      float64
	Longitude     float64
	ObjectType    string
	LandTitle     string
	FloorCount    int
	FrontageWidth float64
	Depth         float64
	Area          float64
	RentPrice     float64
	OwnerName     string
	OwnerPhone    string
	PhotoPath     *string
	Status        Status
	BranchID      *uuid.UUID
	ReviewerID    *uuid.UUID
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Edited reports whether the record changed after creation.
func (s Submission) Edited() bool {
	return s.UpdatedAt.After(s.CreatedAt)
}

// Reviewer is the internal staff member handling a submission.
type Reviewer struct {
	Name  string
	Phone string
}

// NormalizeObjectType maps accepted spellings onto the canonical labels.
func NormalizeObjectType(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tanah", "land":
		return ObjectTypeLand, true
	case "bangunan", "building":
		return ObjectTypeBuilding, true
	default:
		return "", false
	}
}

// ImmutableFields can never be changed through the owner edit path.
var ImmutableFields = []string{
	"id",
	"owner_id",
	"status",
	"branch_id",
	"reviewer_id",
	"approved_at",
	"created_at",
	"updated_at",
}

// StripImmutable removes immutable keys from form and returns the keys it
// dropped, in ImmutableFields order.
func StripImmutable(form map[string][]string) []string {
	var dropped []string
	for _, key := range ImmutableFields {
		if _, ok := form[key]; ok {
			delete(form, key)
			dropped = append(dropped, key)
		}
	}
	return dropped
}
