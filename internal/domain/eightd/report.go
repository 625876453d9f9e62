// Package eightd models the eight-discipline corrective action report attached to an NCR entry.
package eightd

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// WhyDepth is the number of steps in each five-why chain.
const WhyDepth = 5

type Report struct {
	DocNo            string             `json:"docNo"`
	LastUpdate       string             `json:"lastUpdate"`
	RelatedPerson    RelatedPerson      `json:"relatedPerson"`
	SevenW           SevenW             `json:"sevenW"`
	Containment      string             `json:"containment"`
	RootCause        RootCause          `json:"rootCause"`
	Countermeasures  []Countermeasure   `json:"countermeasures"`
	Verification     []VerificationItem `json:"verification"`
	Prevention       []PreventionItem   `json:"prevention"`
	ReviewAndConfirm string             `json:"reviewAndConfirm"`
	Approvals        Approvals          `json:"approvals"`
}

type RelatedPerson struct {
	ActionDetail    string `json:"actionDetail"`
	AssemblyTeam    string `json:"assemblyTeam"`
	DevelopmentTeam string `json:"developmentTeam"`
}

type SevenW struct {
	Who      string `json:"who"`
	What     string `json:"what"`
	When     string `json:"when"`
	Where    string `json:"where"`
	Why      string `json:"why"`
	HowMany  string `json:"howMany"`
	HowOften string `json:"howOften"`
}

type RootCause struct {
	WhyHappened    []string `json:"whyHappened"`
	WhyNotDetected []string `json:"whyNotDetected"`
	DiagramInfo    string   `json:"diagramInfo,omitempty"`
}

type Countermeasure struct {
	Kind      CountermeasureKind   `json:"type"`
	Action    string               `json:"action"`
	Owner     string               `json:"owner"`
	Complete  string               `json:"complete"`
	Implement string               `json:"implement"`
	Status    CountermeasureStatus `json:"status"`
}

type PreventionItem struct {
	Standard   string `json:"standard"`
	Owner      string `json:"owner"`
	Complete   string `json:"complete"`
	ReadAcross string `json:"readAcross"`
	RAOwner    string `json:"raOwner"`
	RAComplete string `json:"raComplete"`
}

type Approvals struct {
	MadeBy    string `json:"madeBy"`
	ReviewBy  string `json:"reviewBy"`
	ApproveBy string `json:"approveBy"`
	Date      string `json:"date"`
}

type CountermeasureKind string

const (
	KindPrevent   CountermeasureKind = "Prevent"
	KindDetection CountermeasureKind = "Detection"
)

func (k CountermeasureKind) Valid() bool { return k == KindPrevent || k == KindDetection }

type CountermeasureStatus string

const (
	StatusPlan       CountermeasureStatus = "Plan"
	StatusInProgress CountermeasureStatus = "InProgress"
	StatusDone       CountermeasureStatus = "Done"
)

// ParseCountermeasureStatus accepts the stored spellings, including the short "Ing".
func ParseCountermeasureStatus(s string) (CountermeasureStatus, error) {
	switch s {
	case "Plan", "":
		return StatusPlan, nil
	case "InProgress", "Ing":
		return StatusInProgress, nil
	case "Done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown countermeasure status %q", s)
}

func (s *CountermeasureStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseCountermeasureStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Verdict is the outcome of one verification item. Unset means not yet judged.
type Verdict int

const (
	VerdictUnset Verdict = iota
	VerdictPass
	VerdictFail
)

var verdictNames = map[Verdict]string{VerdictUnset: "", VerdictPass: "pass", VerdictFail: "fail"}

func (v Verdict) String() string { return verdictNames[v] }

func ParseVerdict(s string) (Verdict, error) {
	for k, name := range verdictNames {
		if name == s {
			return k, nil
		}
	}
	return VerdictUnset, fmt.Errorf("unknown verdict %q", s)
}

type VerificationItem struct {
	Item    string  `json:"item"`
	Verdict Verdict `json:"-"`
	Date    string  `json:"date"`
}

type verificationWire struct {
	Item    string  `json:"item"`
	Verdict *string `json:"verdict,omitempty"`
	Yes     bool    `json:"yes"`
	No      bool    `json:"no"`
	Date    string  `json:"date"`
}

// MarshalJSON writes the verdict together with the yes/no flags older readers expect.
func (v VerificationItem) MarshalJSON() ([]byte, error) {
	name := v.Verdict.String()
	return json.Marshal(verificationWire{
		Item:    v.Item,
		Verdict: &name,
		Yes:     v.Verdict == VerdictPass,
		No:      v.Verdict == VerdictFail,
		Date:    v.Date,
	})
}

// UnmarshalJSON prefers "verdict"; without it the yes/no flags decide, and both set reads as Unset.
func (v *VerificationItem) UnmarshalJSON(b []byte) error {
	var w verificationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	v.Item, v.Date = w.Item, w.Date
	if w.Verdict != nil {
		verdict, err := ParseVerdict(*w.Verdict)
		if err != nil {
			return err
		}
		v.Verdict = verdict
		return nil
	}
	switch {
	case w.Yes && !w.No:
		v.Verdict = VerdictPass
	case w.No && !w.Yes:
		v.Verdict = VerdictFail
	default:
		v.Verdict = VerdictUnset
	}
	return nil
}

var (
	ErrUnknownField    = errors.New("unknown report field")
	ErrIndexOutOfRange = errors.New("report list index out of range")

	// ErrDrafterUnavailable means no generator is configured, usually a missing API key.
	ErrDrafterUnavailable = errors.New("report drafter not configured")
)

// Clone returns a deep copy so callers can edit without aliasing slices.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	out.RootCause.WhyHappened = slices.Clone(r.RootCause.WhyHappened)
	out.RootCause.WhyNotDetected = slices.Clone(r.RootCause.WhyNotDetected)
	out.Countermeasures = slices.Clone(r.Countermeasures)
	out.Verification = slices.Clone(r.Verification)
	out.Prevention = slices.Clone(r.Prevention)
	return &out
}

// FitWhys pads with empty strings or truncates so the chain has exactly WhyDepth steps.
func FitWhys(in []string) []string {
	out := make([]string, WhyDepth)
	copy(out, in)
	return out
}
