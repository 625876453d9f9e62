// Package editor holds the transient create/update state for a single NCR entry.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/pkg/codec"
)

type State int

const (
	StateEmpty State = iota
	StateEditing
	StateSubmitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSubmitted:
		return "submitted"
	case StateDiscarded:
		return "discarded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrInvalidState = errors.New("editor: operation not allowed in current state")

// SaveFunc persists the whole draft and returns the stored entry.
type SaveFunc func(ctx context.Context, e *ncr.Entry) (*ncr.Entry, error)

// DeleteFunc removes the entry with the given id.
type DeleteFunc func(ctx context.Context, id string) error

// Draft is not safe for concurrent use; each request builds its own.
type Draft struct {
	state State
	entry ncr.Entry
}

func New() *Draft { return &Draft{} }

func (d *Draft) State() State { return d.state }

// Entry returns a copy of the current draft.
func (d *Draft) Entry() ncr.Entry {
	e := d.entry
	e.Attachments = append([]ncr.Attachment{}, d.entry.Attachments...)
	e.EightD = d.entry.EightD.Clone()
	return e
}

func (d *Draft) expect(s State, op string) error {
	if d.state != s {
		return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, d.state)
	}
	return nil
}

// Load starts editing a copy of an existing entry.
func (d *Draft) Load(e *ncr.Entry) error {
	if err := d.expect(StateEmpty, "load"); err != nil {
		return err
	}
	d.entry = *e
	d.entry.Attachments = append([]ncr.Attachment{}, e.Attachments...)
	d.entry.EightD = e.EightD.Clone()
	d.state = StateEditing
	return nil
}

// StartBlank seeds a new entry dated now with status Open and no attachments.
func (d *Draft) StartBlank(now time.Time) error {
	if err := d.expect(StateEmpty, "start"); err != nil {
		return err
	}
	d.entry = ncr.Entry{
		Month:       int(now.Month()),
		Day:         now.Day(),
		PlanDate:    eightd.Today(now),
		Status:      ncr.StatusOpen,
		Attachments: []ncr.Attachment{},
	}
	d.state = StateEditing
	return nil
}

// Set replaces the editable fields with e. The draft keeps its own id, and keeps
// its attachments and report when e carries none.
func (d *Draft) Set(e ncr.Entry) error {
	if err := d.expect(StateEditing, "set"); err != nil {
		return err
	}
	e.ID = d.entry.ID
	e.CreatedAt = d.entry.CreatedAt
	if e.Attachments == nil {
		e.Attachments = d.entry.Attachments
	}
	if e.EightD == nil {
		e.EightD = d.entry.EightD
	}
	d.entry = e
	return nil
}

// AddAttachment reads r fully and appends it base64 encoded.
func (d *Draft) AddAttachment(name, mime string, r io.Reader) error {
	if err := d.expect(StateEditing, "add attachment"); err != nil {
		return err
	}
	data, err := codec.EncodeReader(r)
	if err != nil {
		return fmt.Errorf("read attachment %q: %w", name, err)
	}
	d.entry.Attachments = append(d.entry.Attachments, ncr.Attachment{Name: name, Data: data, Type: mime})
	return nil
}

// RemoveAttachment drops the attachment at index i; an out of range index changes nothing.
func (d *Draft) RemoveAttachment(i int) error {
	if err := d.expect(StateEditing, "remove attachment"); err != nil {
		return err
	}
	if i < 0 || i >= len(d.entry.Attachments) {
		return fmt.Errorf("%w: attachment %d of %d", ncr.ErrValidation, i, len(d.entry.Attachments))
	}
	out := make([]ncr.Attachment, 0, len(d.entry.Attachments)-1)
	for j, a := range d.entry.Attachments {
		if j != i {
			out = append(out, a)
		}
	}
	d.entry.Attachments = out
	return nil
}

// Submit validates and hands the draft to save. Any failure keeps the draft editable.
func (d *Draft) Submit(ctx context.Context, save SaveFunc) (*ncr.Entry, error) {
	if err := d.expect(StateEditing, "submit"); err != nil {
		return nil, err
	}
	if err := d.entry.Validate(); err != nil {
		return nil, err
	}
	e := d.Entry()
	saved, err := save(ctx, &e)
	if err != nil {
		return nil, err
	}
	d.entry = *saved
	d.state = StateSubmitted
	return saved, nil
}

func (d *Draft) Cancel() error {
	if err := d.expect(StateEditing, "cancel"); err != nil {
		return err
	}
	d.state = StateDiscarded
	return nil
}

// Delete needs a stored entry. Without an id it returns ErrNoIdentifier and never calls del.
func (d *Draft) Delete(ctx context.Context, del DeleteFunc) error {
	if err := d.expect(StateEditing, "delete"); err != nil {
		return err
	}
	if d.entry.ID == "" {
		return ncr.ErrNoIdentifier
	}
	if err := del(ctx, d.entry.ID); err != nil {
		return err
	}
	d.state = StateDiscarded
	return nil
}
