package eightd

import (
	"strings"
	"time"
)

const (
	RootCauseFallback      = "8D 리포트 참조"
	CountermeasureFallback = "8D 리포트 참조"
)

// RootCauseSummary is the first non-empty occurrence why, written back to the entry on finalize.
func (r *Report) RootCauseSummary() string {
	for _, w := range r.RootCause.WhyHappened {
		if s := strings.TrimSpace(w); s != "" {
			return s
		}
	}
	return RootCauseFallback
}

// CountermeasureSummary joins the non-empty actions with " / ".
func (r *Report) CountermeasureSummary() string {
	var parts []string
	for _, cm := range r.Countermeasures {
		if s := strings.TrimSpace(cm.Action); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return CountermeasureFallback
	}
	return strings.Join(parts, " / ")
}

// ExportFileName names a manually exported report.
func (r *Report) ExportFileName() string { return "8D_REPORT_" + r.DocNo + ".pdf" }

// FinalizedFileName names the PDF attached to the entry when the report is finalized.
func (r *Report) FinalizedFileName(now time.Time) string {
	return "8D_AutoReport_" + r.DocNo + "_" + Today(now) + ".pdf"
}
