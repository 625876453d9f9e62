package ncr

import (
	"strings"
	"time"

	"ncr-quality-backend/internal/domain/eightd"
)

type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
	StatusDelay  Status = "Delay"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusDelay:
		return true
	}
	return false
}

// Attachment is stored inline with its entry. Data is base64 text.
type Attachment struct {
	Name string `json:"name"`
	Data string `json:"data"`
	Type string `json:"type"`
}

// Entry is one non-conformance report. Month and Day are never calendar-checked,
// and ProgressRate is kept as entered.
type Entry struct {
	ID                 string         `json:"id"`
	Month              int            `json:"month"`
	Day                int            `json:"day"`
	Source             string         `json:"source"`
	Customer           string         `json:"customer"`
	Model              string         `json:"model"`
	PartName           string         `json:"partName"`
	PartNo             string         `json:"partNo"`
	DefectContent      string         `json:"defectContent"`
	OutflowCause       string         `json:"outflowCause"`
	RootCause          string         `json:"rootCause"`
	Countermeasure     string         `json:"countermeasure"`
	PlanDate           string         `json:"planDate"`
	ResultDate         string         `json:"resultDate"`
	EffectivenessCheck string         `json:"effectivenessCheck"`
	Status             Status         `json:"status"`
	ProgressRate       int            `json:"progressRate"`
	Remarks            string         `json:"remarks"`
	Attachments        []Attachment   `json:"attachments"`
	EightD             *eightd.Report `json:"eightDData,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Subject exposes the fields an 8D report template is seeded from.
func (e *Entry) Subject() eightd.Subject {
	return eightd.Subject{
		ID:            e.ID,
		Month:         e.Month,
		Day:           e.Day,
		Customer:      e.Customer,
		Model:         e.Model,
		PartName:      e.PartName,
		PartNo:        e.PartNo,
		Source:        e.Source,
		DefectContent: e.DefectContent,
	}
}

// Validate enforces the only rule on a saved entry: a customer must be named.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Customer) == "" {
		return &ValidationError{Field: "customer", Message: "is required"}
	}
	return nil
}

// Fields is a partial update. Only non-nil members are written.
type Fields struct {
	RootCause      *string
	Countermeasure *string
	Status         *Status
	ProgressRate   *int
	Attachments    *[]Attachment
	EightD         *eightd.Report
}

func (f Fields) Empty() bool {
	return f.RootCause == nil && f.Countermeasure == nil && f.Status == nil &&
		f.ProgressRate == nil && f.Attachments == nil && f.EightD == nil
}

// ApplyTo merges the set members into e.
func (f Fields) ApplyTo(e *Entry) {
	if f.RootCause != nil {
		e.RootCause = *f.RootCause
	}
	if f.Countermeasure != nil {
		e.Countermeasure = *f.Countermeasure
	}
	if f.Status != nil {
		e.Status = *f.Status
	}
	if f.ProgressRate != nil {
		e.ProgressRate = *f.ProgressRate
	}
	if f.Attachments != nil {
		e.Attachments = append([]Attachment(nil), (*f.Attachments)...)
	}
	if f.EightD != nil {
		e.EightD = f.EightD.Clone()
	}
}
