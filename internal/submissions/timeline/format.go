package timeline

import (
	"fmt"
	"strings"
	"time"
)

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var (
	dateTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	dateLayout      = "2006-01-02"
)

// FormatDetail renders a detail that is a date or timestamp as an Indonesian
// long date in loc. Multi-line or non-date text is returned unchanged.
func FormatDetail(detail string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(detail)
	if s == "" || strings.Contains(detail, "\n") {
		return detail
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.In(loc)
			return fmt.Sprintf("%s %02d.%02d %s", longDate(t), t.Hour(), t.Minute(), t.Format("MST"))
		}
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return longDate(t)
	}
	return detail
}

// FormatStages returns a copy of stages with every detail rendered.
func FormatStages(stages []Stage, loc *time.Location) []Stage {
	out := make([]Stage, len(stages))
	for i, st := range stages {
		st.Detail = FormatDetail(st.Detail, loc)
		out[i] = st
	}
	return out
}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsID[t.Month()-1], t.Year())
}
