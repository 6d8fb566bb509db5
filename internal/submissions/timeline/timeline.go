// Package timeline turns a submission's status fields into the three-stage
// progress timeline shown to owners. Everything here is pure.
package timeline

import (
	"strings"
	"time"

	"ulok_portal_backend/internal/submissions/domain"
)

// State is the progress state of a stage.
type State string

const (
	StateCompleted  State = "completed"
	StateInProgress State = "in-progress"
	StatePending    State = "pending"
)

// Stage names, always emitted in this order.
const (
	StageSubmission    = "Submission"
	StageInitialReview = "Initial Review"
	StageApproval      = "Approval"
)

// Detail messages.
const (
	DetailAwaitingData    = "Menunggu data lengkap"
	DetailSurveyUnderway  = "Survey sedang berlangsung"
	DetailSurveyComplete  = "Survey selesai, menunggu persetujuan KPLT"
	DetailSurveyNotPassed = "Survey selesai (tidak lolos)"
	DetailAwaitingReview  = "Menunggu proses review"
	DetailApproved        = "Disetujui"
	DetailRejected        = "Pengajuan ditolak oleh KPLT"
	DetailAwaitingVerdict = "Menunggu keputusan KPLT: "
	DetailHalted          = "Pengajuan dihentikan/ditolak"
	DetailAwaitingSession = "Menunggu sesi persetujuan KPLT"
)

// Stage is one derived timeline entry.
type Stage struct {
	Name   string `json:"name"`
	State  State  `json:"state"`
	Detail string `json:"detail"`
}

// Input is the subset of a submission the timeline depends on.
type Input struct {
	Status     domain.Status
	CreatedAt  time.Time
	ApprovedAt *time.Time
	Verdict    *string
	Reviewer   *domain.Reviewer
}

// Derive returns exactly three stages: Submission, Initial Review, Approval.
func Derive(in Input) []Stage {
	return []Stage{
		{Name: StageSubmission, State: StateCompleted, Detail: timestamp(in.CreatedAt)},
		initialReview(in),
		approval(in),
	}
}

func initialReview(in Input) Stage {
	stage := Stage{Name: StageInitialReview}
	switch in.Status {
	case domain.StatusDraft:
		stage.State, stage.Detail = StatePending, DetailAwaitingData
	case domain.StatusInProgress:
		stage.State, stage.Detail = StateInProgress, reviewerDetail(in.Reviewer, DetailSurveyUnderway)
	case domain.StatusOK:
		stage.State, stage.Detail = StateCompleted, reviewerDetail(in.Reviewer, DetailSurveyComplete)
	case domain.StatusRejected:
		stage.State, stage.Detail = StateCompleted, DetailSurveyNotPassed
	default:
		stage.State, stage.Detail = StatePending, DetailAwaitingReview
	}
	return stage
}

// approval keeps a rejected verdict pending so the progress bar never shows a
// rejection as forward motion.
func approval(in Input) Stage {
	stage := Stage{Name: StageApproval}
	raw := ""
	if in.Verdict != nil {
		raw = *in.Verdict
	}

	switch ClassifyVerdict(raw) {
	case VerdictApproved:
		stage.State = StateCompleted
		if in.ApprovedAt != nil {
			stage.Detail = timestamp(*in.ApprovedAt)
		} else {
			stage.Detail = DetailApproved
		}
	case VerdictRejected:
		stage.State, stage.Detail = StatePending, DetailRejected
	case VerdictPending:
		stage.State, stage.Detail = StateInProgress, DetailAwaitingVerdict+strings.TrimSpace(raw)
	default:
		stage.State = StatePending
		if in.Status == domain.StatusRejected {
			stage.Detail = DetailHalted
		} else {
			stage.Detail = DetailAwaitingSession
		}
	}
	return stage
}

func reviewerDetail(r *domain.Reviewer, fallback string) string {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return fallback
	}
	detail := "Surveyor : " + strings.TrimSpace(r.Name)
	if p := strings.TrimSpace(r.Phone); p != "" {
		detail += "\nNomor Telpon : " + p
	}
	return detail
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
