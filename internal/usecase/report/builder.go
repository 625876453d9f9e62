// Package report drives the 8D report of one entry from first open to finalize.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/pkg/codec"
)

// Drafter returns raw JSON proposing report content for the subject.
type Drafter interface {
	Draft(ctx context.Context, s eightd.Subject) ([]byte, error)
}

// Renderer produces a single page A4 PDF of the report.
type Renderer interface {
	Render(ctx context.Context, r *eightd.Report) ([]byte, error)
}

type State int

const (
	StateUninitialized State = iota
	StateEditing
	StateDrafting
	StateFinalizing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEditing:
		return "editing"
	case StateDrafting:
		return "drafting"
	case StateFinalizing:
		return "finalizing"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrInvalidState = errors.New("report: operation not allowed in current state")
	ErrRender       = errors.New("report rendering failed")
	ErrDraft        = errors.New("report draft failed")
)

const pdfMIME = "application/pdf"

// FinalizeResult is everything written back to the entry when a report is finalized.
type FinalizeResult struct {
	Report         *eightd.Report
	RootCause      string
	Countermeasure string
	Attachments    []ncr.Attachment
	Status         ncr.Status
	ProgressRate   int

	FileName string
	PDF      []byte
}

// Fields is the partial update that persists r.
func (r *FinalizeResult) Fields() ncr.Fields {
	return ncr.Fields{
		RootCause:      &r.RootCause,
		Countermeasure: &r.Countermeasure,
		Status:         &r.Status,
		ProgressRate:   &r.ProgressRate,
		Attachments:    &r.Attachments,
		EightD:         r.Report,
	}
}

// Saver persists a finalize result. An error aborts the finalize.
type Saver func(ctx context.Context, res *FinalizeResult) error

// Builder owns the report of one entry. Long calls run without the lock held; the
// Drafting and Finalizing states keep other operations out meanwhile.
type Builder struct {
	mu       sync.Mutex
	state    State
	entry    ncr.Entry
	report   *eightd.Report
	drafter  Drafter
	renderer Renderer
	now      func() time.Time
}

func NewBuilder(d Drafter, r Renderer, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{drafter: d, renderer: r, now: now}
}

func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Report returns a copy of the current report.
func (b *Builder) Report() *eightd.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.report.Clone()
}

// begin moves from one state to another, failing if the builder is elsewhere.
func (b *Builder) begin(from, to State, op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != from {
		return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, b.state)
	}
	b.state = to
	return nil
}

func (b *Builder) settle(to State, rep *eightd.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rep != nil {
		b.report = rep
	}
	b.state = to
}

// Open loads the entry's stored report, or a default seeded from the entry.
func (b *Builder) Open(e *ncr.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateUninitialized {
		return fmt.Errorf("%w: open while %s", ErrInvalidState, b.state)
	}
	b.entry = *e
	b.entry.Attachments = append([]ncr.Attachment{}, e.Attachments...)
	if e.EightD != nil {
		b.report = e.EightD.Clone()
	} else {
		b.report = eightd.Default(e.Subject(), b.now())
	}
	b.state = StateEditing
	return nil
}

// Replace swaps in a caller-held copy of the report, as edited so far.
func (b *Builder) Replace(r *eightd.Report) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateEditing {
		return fmt.Errorf("%w: replace while %s", ErrInvalidState, b.state)
	}
	b.report = r.Clone()
	return nil
}

// Apply runs the updates in order. If any fails the report is left as it was.
func (b *Builder) Apply(updates ...eightd.Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateEditing {
		return fmt.Errorf("%w: edit while %s", ErrInvalidState, b.state)
	}
	next, err := b.report.ApplyAll(updates)
	if err != nil {
		return err
	}
	b.report = next
	return nil
}

// Draft asks the drafter for content and merges it in. On failure nothing changes.
func (b *Builder) Draft(ctx context.Context) error {
	if err := b.begin(StateEditing, StateDrafting, "draft"); err != nil {
		return err
	}
	prev := b.Report()
	subject := b.entry.Subject()

	raw, err := b.drafter.Draft(ctx, subject)
	if err != nil {
		b.settle(StateEditing, nil)
		if errors.Is(err, eightd.ErrDrafterUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDraft, err)
	}
	resp, err := eightd.ParseDraft(raw)
	if err != nil {
		b.settle(StateEditing, nil)
		return fmt.Errorf("%w: %w", ErrDraft, err)
	}

	b.settle(StateEditing, eightd.MergeDraft(prev, resp, b.now()))
	return nil
}

// Export renders the current report without persisting anything.
func (b *Builder) Export(ctx context.Context) (string, []byte, error) {
	b.mu.Lock()
	state, rep := b.state, b.report.Clone()
	b.mu.Unlock()
	if state != StateEditing {
		return "", nil, fmt.Errorf("%w: export while %s", ErrInvalidState, state)
	}
	pdf, err := b.renderer.Render(ctx, rep)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return rep.ExportFileName(), pdf, nil
}

// Finalize renders the report, attaches the PDF and hands the closing fields to save.
// Nothing reaches save unless rendering succeeded; any failure returns to Editing.
func (b *Builder) Finalize(ctx context.Context, save Saver) (*FinalizeResult, error) {
	if err := b.begin(StateEditing, StateFinalizing, "finalize"); err != nil {
		return nil, err
	}
	rep := b.Report()
	now := b.now()

	pdf, err := b.renderer.Render(ctx, rep)
	if err != nil {
		b.settle(StateEditing, nil)
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	name := rep.FinalizedFileName(now)
	atts := make([]ncr.Attachment, 0, len(b.entry.Attachments)+1)
	atts = append(atts, b.entry.Attachments...)
	atts = append(atts, ncr.Attachment{Name: name, Data: codec.Encode(pdf), Type: pdfMIME})

	res := &FinalizeResult{
		Report:         rep,
		RootCause:      rep.RootCauseSummary(),
		Countermeasure: rep.CountermeasureSummary(),
		Attachments:    atts,
		Status:         ncr.StatusClosed,
		ProgressRate:   100,
		FileName:       name,
		PDF:            pdf,
	}
	if err := save(ctx, res); err != nil {
		b.settle(StateEditing, nil)
		return nil, err
	}

	b.mu.Lock()
	res.Fields().ApplyTo(&b.entry)
	b.mu.Unlock()
	b.settle(StateClosed, nil)
	return res, nil
}

// Entry returns a copy of the entry as the builder last knew it.
func (b *Builder) Entry() ncr.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.entry
	e.Attachments = append([]ncr.Attachment{}, b.entry.Attachments...)
	return e
}
