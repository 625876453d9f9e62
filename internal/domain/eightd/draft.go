package eightd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDraft = errors.New("invalid draft response")

// DraftError names the first part of a generated draft that failed validation.
type DraftError struct {
	Field  string
	Reason string
}

func (e *DraftError) Error() string { return fmt.Sprintf("draft %s: %s", e.Field, e.Reason) }

func (e *DraftError) Unwrap() error { return ErrInvalidDraft }

// DraftSevenW uses pointers so keys the generator omitted are left alone on merge.
type DraftSevenW struct {
	Who      *string `json:"who"`
	What     *string `json:"what"`
	When     *string `json:"when"`
	Where    *string `json:"where"`
	Why      *string `json:"why"`
	HowMany  *string `json:"howMany"`
	HowOften *string `json:"howOften"`
}

type DraftCountermeasure struct {
	Kind   CountermeasureKind `json:"type"`
	Action string             `json:"action"`
}

// DraftResponse is the validated subset of a report a generator may propose.
type DraftResponse struct {
	SevenW           DraftSevenW
	Containment      string
	WhyHappened      []string
	WhyNotDetected   []string
	Countermeasures  []DraftCountermeasure
	ReviewAndConfirm string
}

type draftWire struct {
	SevenW      *DraftSevenW `json:"sevenW"`
	Containment *string      `json:"containment"`
	RootCause   *struct {
		WhyHappened    []string `json:"whyHappened"`
		WhyNotDetected []string `json:"whyNotDetected"`
	} `json:"rootCause"`
	Countermeasures []struct {
		Kind   string `json:"type"`
		Action string `json:"action"`
	} `json:"countermeasures"`
	ReviewAndConfirm *string `json:"reviewAndConfirm"`
}

// ParseDraft decodes generator output. Any missing required part rejects the whole draft.
func ParseDraft(raw []byte) (*DraftResponse, error) {
	raw = bytes.TrimSpace(raw)
	// some models wrap JSON mode output in a markdown fence
	if bytes.HasPrefix(raw, []byte("```")) {
		raw = bytes.TrimPrefix(raw, []byte("```json"))
		raw = bytes.TrimPrefix(raw, []byte("```"))
		raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))
	}

	var w draftWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &DraftError{Field: "body", Reason: err.Error()}
	}
	switch {
	case w.SevenW == nil:
		return nil, &DraftError{Field: "sevenW", Reason: "missing"}
	case w.Containment == nil:
		return nil, &DraftError{Field: "containment", Reason: "missing"}
	case w.RootCause == nil:
		return nil, &DraftError{Field: "rootCause", Reason: "missing"}
	case w.RootCause.WhyHappened == nil:
		return nil, &DraftError{Field: "rootCause.whyHappened", Reason: "missing"}
	case w.RootCause.WhyNotDetected == nil:
		return nil, &DraftError{Field: "rootCause.whyNotDetected", Reason: "missing"}
	case w.Countermeasures == nil:
		return nil, &DraftError{Field: "countermeasures", Reason: "missing"}
	case w.ReviewAndConfirm == nil:
		return nil, &DraftError{Field: "reviewAndConfirm", Reason: "missing"}
	}

	out := &DraftResponse{
		SevenW:           *w.SevenW,
		Containment:      *w.Containment,
		WhyHappened:      FitWhys(w.RootCause.WhyHappened),
		WhyNotDetected:   FitWhys(w.RootCause.WhyNotDetected),
		ReviewAndConfirm: *w.ReviewAndConfirm,
	}
	// unknown kinds are kept so positions match the generated list; they never match by kind
	out.Countermeasures = make([]DraftCountermeasure, 0, len(w.Countermeasures))
	for _, cm := range w.Countermeasures {
		kind := CountermeasureKind(strings.TrimSpace(cm.Kind))
		out.Countermeasures = append(out.Countermeasures, DraftCountermeasure{Kind: kind, Action: cm.Action})
	}
	return out, nil
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// MergeDraft returns prev with the draft applied. prev itself is not modified.
func MergeDraft(prev *Report, d *DraftResponse, now time.Time) *Report {
	next := prev.Clone()

	mergeString(&next.SevenW.Who, d.SevenW.Who)
	mergeString(&next.SevenW.What, d.SevenW.What)
	mergeString(&next.SevenW.When, d.SevenW.When)
	mergeString(&next.SevenW.Where, d.SevenW.Where)
	mergeString(&next.SevenW.Why, d.SevenW.Why)
	mergeString(&next.SevenW.HowMany, d.SevenW.HowMany)
	mergeString(&next.SevenW.HowOften, d.SevenW.HowOften)

	next.Containment = d.Containment
	next.RootCause.WhyHappened = FitWhys(d.WhyHappened)
	next.RootCause.WhyNotDetected = FitWhys(d.WhyNotDetected)

	today := Today(now)
	for i := range next.Countermeasures {
		cm := &next.Countermeasures[i]
		if match, ok := matchCountermeasure(d.Countermeasures, cm.Kind, i); ok && match.Action != "" {
			cm.Action = match.Action
		}
		cm.Complete = today
	}

	next.ReviewAndConfirm = d.ReviewAndConfirm
	return next
}

// matchCountermeasure finds the first proposal of the same kind, else the one at the same
// position in the generated list, whatever its kind.
func matchCountermeasure(list []DraftCountermeasure, kind CountermeasureKind, pos int) (DraftCountermeasure, bool) {
	for _, c := range list {
		if kind.Valid() && c.Kind == kind {
			return c, true
		}
	}
	if pos < len(list) {
		return list[pos], true
	}
	return DraftCountermeasure{}, false
}
