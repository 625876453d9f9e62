package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/go-cmp/cmp"

	"ncr-quality-backend/internal/domain/ncr"
)

func saveEcho(_ context.Context, e *ncr.Entry) (*ncr.Entry, error) {
	if e.ID == "" {
		e.ID = "assigned"
	}
	return e, nil
}

func TestStartBlank(t *testing.T) {
	d := New()
	now := time.Date(2026, 4, 7, 15, 0, 0, 0, time.UTC)
	if err := d.StartBlank(now); err != nil {
		t.Fatalf("StartBlank: %v", err)
	}
	got := d.Entry()
	want := ncr.Entry{Month: 4, Day: 7, PlanDate: "2026-04-07", Status: ncr.StatusOpen, Attachments: []ncr.Attachment{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blank draft (-want +got):\n%s", diff)
	}
	if d.State() != StateEditing {
		t.Fatalf("state = %s", d.State())
	}
	if err := d.StartBlank(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second StartBlank: want ErrInvalidState, got %v", err)
	}
}

func TestSubmit_ValidatesCustomer(t *testing.T) {
	d := New()
	_ = d.StartBlank(time.Now())

	called := false
	_, err := d.Submit(context.Background(), func(ctx context.Context, e *ncr.Entry) (*ncr.Entry, error) {
		called = true
		return e, nil
	})
	if !errors.Is(err, ncr.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if called || d.State() != StateEditing {
		t.Fatalf("save called=%v state=%s", called, d.State())
	}

	e := d.Entry()
	e.Customer = "LGE"
	if err := d.Set(e); err != nil {
		t.Fatalf("Set: %v", err)
	}
	saved, err := d.Submit(context.Background(), saveEcho)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if saved.ID != "assigned" || d.State() != StateSubmitted {
		t.Fatalf("saved=%+v state=%s", saved, d.State())
	}
}

func TestSubmit_SaveFailureKeepsEditing(t *testing.T) {
	d := New()
	_ = d.Load(&ncr.Entry{ID: "e1", Customer: "LGE"})

	_, err := d.Submit(context.Background(), func(context.Context, *ncr.Entry) (*ncr.Entry, error) {
		return nil, ncr.ErrWrite
	})
	if !errors.Is(err, ncr.ErrWrite) || d.State() != StateEditing {
		t.Fatalf("err=%v state=%s", err, d.State())
	}
}

func TestAttachments(t *testing.T) {
	d := New()
	_ = d.Load(&ncr.Entry{ID: "e1", Customer: "LGE", Attachments: []ncr.Attachment{{Name: "a.txt", Data: "YQ==", Type: "text/plain"}}})

	if err := d.AddAttachment("b.txt", "text/plain", strings.NewReader("hello")); err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	got := d.Entry().Attachments
	if len(got) != 2 || got[1] != (ncr.Attachment{Name: "b.txt", Data: "aGVsbG8=", Type: "text/plain"}) {
		t.Fatalf("attachments = %+v", got)
	}

	if err := d.RemoveAttachment(5); !errors.Is(err, ncr.ErrValidation) {
		t.Fatalf("out of range: want ErrValidation, got %v", err)
	}
	if len(d.Entry().Attachments) != 2 {
		t.Fatal("failed remove changed the list")
	}
	if err := d.RemoveAttachment(0); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	if got := d.Entry().Attachments; len(got) != 1 || got[0].Name != "b.txt" {
		t.Fatalf("attachments = %+v", got)
	}

	if err := d.AddAttachment("bad", "x", iotest.ErrReader(errors.New("disk"))); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoad_CopiesInput(t *testing.T) {
	src := &ncr.Entry{ID: "e1", Customer: "LGE", Attachments: []ncr.Attachment{{Name: "a"}}}
	d := New()
	_ = d.Load(src)
	_ = d.RemoveAttachment(0)
	if len(src.Attachments) != 1 {
		t.Fatal("draft edits leaked into the loaded entry")
	}
}

func TestSet_KeepsIdentityAndAttachments(t *testing.T) {
	d := New()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = d.Load(&ncr.Entry{ID: "e1", Customer: "LGE", CreatedAt: created, Attachments: []ncr.Attachment{{Name: "a"}}})

	if err := d.Set(ncr.Entry{ID: "other", Customer: "MTX"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := d.Entry()
	if got.ID != "e1" || got.Customer != "MTX" || !got.CreatedAt.Equal(created) || len(got.Attachments) != 1 {
		t.Fatalf("entry = %+v", got)
	}

	if err := d.Set(ncr.Entry{Customer: "MTX", Attachments: []ncr.Attachment{}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(d.Entry().Attachments) != 0 {
		t.Fatal("explicit empty attachment list should clear")
	}
}

func TestDelete_WithoutIdentifier(t *testing.T) {
	d := New()
	_ = d.StartBlank(time.Now())

	calls := 0
	err := d.Delete(context.Background(), func(context.Context, string) error { calls++; return nil })
	if !errors.Is(err, ncr.ErrNoIdentifier) {
		t.Fatalf("want ErrNoIdentifier, got %v", err)
	}
	if calls != 0 || d.State() != StateEditing {
		t.Fatalf("calls=%d state=%s", calls, d.State())
	}
}

func TestDelete_WithIdentifier(t *testing.T) {
	d := New()
	_ = d.Load(&ncr.Entry{ID: "e1", Customer: "LGE"})

	var got string
	if err := d.Delete(context.Background(), func(_ context.Context, id string) error { got = id; return nil }); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got != "e1" || d.State() != StateDiscarded {
		t.Fatalf("id=%q state=%s", got, d.State())
	}
}

func TestCancelAndStateGuards(t *testing.T) {
	d := New()
	if err := d.Cancel(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Cancel on empty: want ErrInvalidState, got %v", err)
	}
	_ = d.StartBlank(time.Now())
	if err := d.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if d.State() != StateDiscarded {
		t.Fatalf("state = %s", d.State())
	}
	if err := d.AddAttachment("a", "b", strings.NewReader("")); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("AddAttachment after cancel: want ErrInvalidState, got %v", err)
	}
	if _, err := d.Submit(context.Background(), saveEcho); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Submit after cancel: want ErrInvalidState, got %v", err)
	}
}
