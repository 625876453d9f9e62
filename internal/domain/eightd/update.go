package eightd

import (
	"fmt"
	"sort"
)

// Field names one editable leaf of a Report. List fields also need Update.Index.
type Field string

const (
	FieldDocNo           Field = "docNo"
	FieldLastUpdate      Field = "lastUpdate"
	FieldActionDetail    Field = "relatedPerson.actionDetail"
	FieldAssemblyTeam    Field = "relatedPerson.assemblyTeam"
	FieldDevelopmentTeam Field = "relatedPerson.developmentTeam"

	FieldWho      Field = "sevenW.who"
	FieldWhat     Field = "sevenW.what"
	FieldWhen     Field = "sevenW.when"
	FieldWhere    Field = "sevenW.where"
	FieldWhy      Field = "sevenW.why"
	FieldHowMany  Field = "sevenW.howMany"
	FieldHowOften Field = "sevenW.howOften"

	FieldContainment    Field = "containment"
	FieldWhyHappened    Field = "rootCause.whyHappened"
	FieldWhyNotDetected Field = "rootCause.whyNotDetected"
	FieldDiagramInfo    Field = "rootCause.diagramInfo"

	FieldCMAction    Field = "countermeasures.action"
	FieldCMOwner     Field = "countermeasures.owner"
	FieldCMComplete  Field = "countermeasures.complete"
	FieldCMImplement Field = "countermeasures.implement"
	FieldCMStatus    Field = "countermeasures.status"

	FieldVerificationItem    Field = "verification.item"
	FieldVerificationVerdict Field = "verification.verdict"
	FieldVerificationDate    Field = "verification.date"

	FieldPreventionStandard   Field = "prevention.standard"
	FieldPreventionOwner      Field = "prevention.owner"
	FieldPreventionComplete   Field = "prevention.complete"
	FieldPreventionReadAcross Field = "prevention.readAcross"
	FieldPreventionRAOwner    Field = "prevention.raOwner"
	FieldPreventionRAComplete Field = "prevention.raComplete"

	FieldReviewAndConfirm Field = "reviewAndConfirm"
	FieldMadeBy           Field = "approvals.madeBy"
	FieldReviewBy         Field = "approvals.reviewBy"
	FieldApproveBy        Field = "approvals.approveBy"
	FieldApprovalDate     Field = "approvals.date"
)

// Update replaces one leaf value. Index is ignored for scalar fields.
type Update struct {
	Field Field  `json:"field" validate:"required"`
	Index int    `json:"index"`
	Value string `json:"value"`
}

type setter func(r *Report, idx int, v string) error

func scalar(get func(r *Report) *string) setter {
	return func(r *Report, _ int, v string) error {
		*get(r) = v
		return nil
	}
}

func indexed[T any](list func(r *Report) []T, set func(item *T, v string) error) setter {
	return func(r *Report, idx int, v string) error {
		items := list(r)
		if idx < 0 || idx >= len(items) {
			return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, len(items))
		}
		return set(&items[idx], v)
	}
}

func text[T any](get func(item *T) *string) func(item *T, v string) error {
	return func(item *T, v string) error {
		*get(item) = v
		return nil
	}
}

func whys(r *Report) []string {
	return r.RootCause.WhyHappened
}

func misses(r *Report) []string {
	return r.RootCause.WhyNotDetected
}

func cms(r *Report) []Countermeasure {
	return r.Countermeasures
}

func checks(r *Report) []VerificationItem {
	return r.Verification
}

func prevs(r *Report) []PreventionItem {
	return r.Prevention
}

var setters = map[Field]setter{
	FieldDocNo:           scalar(func(r *Report) *string { return &r.DocNo }),
	FieldLastUpdate:      scalar(func(r *Report) *string { return &r.LastUpdate }),
	FieldActionDetail:    scalar(func(r *Report) *string { return &r.RelatedPerson.ActionDetail }),
	FieldAssemblyTeam:    scalar(func(r *Report) *string { return &r.RelatedPerson.AssemblyTeam }),
	FieldDevelopmentTeam: scalar(func(r *Report) *string { return &r.RelatedPerson.DevelopmentTeam }),

	FieldWho:      scalar(func(r *Report) *string { return &r.SevenW.Who }),
	FieldWhat:     scalar(func(r *Report) *string { return &r.SevenW.What }),
	FieldWhen:     scalar(func(r *Report) *string { return &r.SevenW.When }),
	FieldWhere:    scalar(func(r *Report) *string { return &r.SevenW.Where }),
	FieldWhy:      scalar(func(r *Report) *string { return &r.SevenW.Why }),
	FieldHowMany:  scalar(func(r *Report) *string { return &r.SevenW.HowMany }),
	FieldHowOften: scalar(func(r *Report) *string { return &r.SevenW.HowOften }),

	FieldContainment:    scalar(func(r *Report) *string { return &r.Containment }),
	FieldWhyHappened:    indexed(whys, text(func(s *string) *string { return s })),
	FieldWhyNotDetected: indexed(misses, text(func(s *string) *string { return s })),
	FieldDiagramInfo:    scalar(func(r *Report) *string { return &r.RootCause.DiagramInfo }),

	FieldCMAction:    indexed(cms, text(func(c *Countermeasure) *string { return &c.Action })),
	FieldCMOwner:     indexed(cms, text(func(c *Countermeasure) *string { return &c.Owner })),
	FieldCMComplete:  indexed(cms, text(func(c *Countermeasure) *string { return &c.Complete })),
	FieldCMImplement: indexed(cms, text(func(c *Countermeasure) *string { return &c.Implement })),
	FieldCMStatus: indexed(cms, func(c *Countermeasure, v string) error {
		st, err := ParseCountermeasureStatus(v)
		if err != nil {
			return err
		}
		c.Status = st
		return nil
	}),

	FieldVerificationItem: indexed(checks, text(func(c *VerificationItem) *string { return &c.Item })),
	FieldVerificationVerdict: indexed(checks, func(c *VerificationItem, v string) error {
		verdict, err := ParseVerdict(v)
		if err != nil {
			return err
		}
		c.Verdict = verdict
		return nil
	}),
	FieldVerificationDate: indexed(checks, text(func(c *VerificationItem) *string { return &c.Date })),

	FieldPreventionStandard:   indexed(prevs, text(func(p *PreventionItem) *string { return &p.Standard })),
	FieldPreventionOwner:      indexed(prevs, text(func(p *PreventionItem) *string { return &p.Owner })),
	FieldPreventionComplete:   indexed(prevs, text(func(p *PreventionItem) *string { return &p.Complete })),
	FieldPreventionReadAcross: indexed(prevs, text(func(p *PreventionItem) *string { return &p.ReadAcross })),
	FieldPreventionRAOwner:    indexed(prevs, text(func(p *PreventionItem) *string { return &p.RAOwner })),
	FieldPreventionRAComplete: indexed(prevs, text(func(p *PreventionItem) *string { return &p.RAComplete })),

	FieldReviewAndConfirm: scalar(func(r *Report) *string { return &r.ReviewAndConfirm }),
	FieldMadeBy:           scalar(func(r *Report) *string { return &r.Approvals.MadeBy }),
	FieldReviewBy:         scalar(func(r *Report) *string { return &r.Approvals.ReviewBy }),
	FieldApproveBy:        scalar(func(r *Report) *string { return &r.Approvals.ApproveBy }),
	FieldApprovalDate:     scalar(func(r *Report) *string { return &r.Approvals.Date }),
}

// Fields lists every editable field name in lexical order.
func Fields() []Field {
	out := make([]Field, 0, len(setters))
	for f := range setters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply edits r in place. An unknown field or index leaves r untouched.
func (r *Report) Apply(u Update) error {
	set, ok := setters[u.Field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, u.Field)
	}
	return set(r, u.Index, u.Value)
}

// ApplyAll applies updates in order on a copy and returns it; r is unchanged on error.
func (r *Report) ApplyAll(updates []Update) (*Report, error) {
	next := r.Clone()
	for i, u := range updates {
		if err := next.Apply(u); err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
	}
	return next, nil
}
