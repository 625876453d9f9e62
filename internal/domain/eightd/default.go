package eightd

import (
	"fmt"
	"strings"
	"time"
)

// Subject is the slice of an NCR entry the report template is seeded from.
type Subject struct {
	ID            string
	Month         int
	Day           int
	Customer      string
	Model         string
	PartName      string
	PartNo        string
	Source        string
	DefectContent string
}

const (
	dateLayout    = "2006-01-02"
	dotDateLayout = "2006.01.02"

	teamQuality     = "품질팀"
	teamProduction  = "생산팀"
	teamEngineering = "기술팀"
)

// Today formats t the way report date cells are stored.
func Today(t time.Time) string { return t.Format(dateLayout) }

// DocNo is "<year>.<MM>.<first two id characters, upper-cased>"; MM is the occurrence month.
func DocNo(s Subject, now time.Time) string {
	prefix := s.ID
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("%d.%02d.%s", now.Year(), s.Month, strings.ToUpper(prefix))
}

// OccurredOn formats the entry's month and day in the report year. Values are not calendar-checked.
func OccurredOn(s Subject, now time.Time) string {
	return fmt.Sprintf("%d.%02d.%02d", now.Year(), s.Month, s.Day)
}

// Default builds the templated report shown the first time an entry's report is opened.
func Default(s Subject, now time.Time) *Report {
	return &Report{
		DocNo:      DocNo(s, now),
		LastUpdate: Today(now),
		RelatedPerson: RelatedPerson{
			ActionDetail:    teamQuality,
			AssemblyTeam:    teamProduction,
			DevelopmentTeam: teamEngineering,
		},
		SevenW: SevenW{
			Who:      s.Customer,
			What:     s.Model + " / " + s.PartName,
			When:     OccurredOn(s, now),
			Where:    s.Source,
			Why:      s.DefectContent,
			HowMany:  "1 EA",
			HowOften: "1 Case",
		},
		RootCause: RootCause{
			WhyHappened:    FitWhys(nil),
			WhyNotDetected: FitWhys(nil),
		},
		Countermeasures: []Countermeasure{
			{Kind: KindPrevent, Owner: teamQuality, Status: StatusPlan},
			{Kind: KindDetection, Owner: teamProduction, Status: StatusPlan},
		},
		Verification: []VerificationItem{
			{Item: "개선 전후 데이터 비교 검증"},
			{Item: "신뢰성 시험 및 초품 검사"},
		},
		Prevention: []PreventionItem{
			{Standard: "CP", ReadAcross: "N/A"},
			{Standard: "PFMEA", ReadAcross: "N/A"},
		},
		Approvals: Approvals{Date: now.Format(dotDateLayout)},
	}
}
