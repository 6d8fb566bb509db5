package timeline

import "strings"

// Verdict is the classified KPLT decision.
type Verdict int

const (
	// VerdictNone means no verdict was recorded.
	VerdictNone Verdict = iota
	// VerdictPending is any non-empty verdict that is neither approved nor
	// rejected. Unknown wording lands here.
	VerdictPending
	VerdictApproved
	VerdictRejected
)

var (
	rejectedMarkers = []string{"reject", "tolak", "nok"}
	approvedMarkers = []string{"approved", "disetujui", "ok"}
)

// ClassifyVerdict maps a free-form verdict onto a Verdict using
// case-insensitive substring matching. Rejection markers are checked first
// because "nok" contains "ok".
func ClassifyVerdict(raw string) Verdict {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return VerdictNone
	}
	for _, m := range rejectedMarkers {
		if strings.Contains(v, m) {
			return VerdictRejected
		}
	}
	for _, m := range approvedMarkers {
		if strings.Contains(v, m) {
			return VerdictApproved
		}
	}
	return VerdictPending
}

func (v Verdict) String() string {
	switch v {
	case VerdictPending:
		return "pending"
	case VerdictApproved:
		return "approved"
	case VerdictRejected:
		return "rejected"
	default:
		return "none"
	}
}
