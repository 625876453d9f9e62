package ncrmock

import (
	"context"
	"errors"
	"testing"

	domain "ncr-quality-backend/internal/domain/ncr"
)

func TestRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	e := &domain.Entry{Customer: "LGE"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		UpsertFn: func(gotCtx context.Context, got *domain.Entry) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Upsert ctx mismatch")
			}
			if got != e {
				t.Fatalf("Upsert arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Upsert(ctx, e); !errors.Is(err, wantErr) {
		t.Fatalf("Upsert: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("UpsertFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Upsert(ctx, e); err != nil {
		t.Fatalf("Upsert default: want nil, got %v", err)
	}
}

func TestRepo_Get(t *testing.T) {
	ctx := context.Background()
	want := &domain.Entry{ID: "e-2"}

	m := &Repo{
		GetFn: func(_ context.Context, id string) (*domain.Entry, error) {
			if id != "e-2" {
				t.Fatalf("Get id mismatch: got %s", id)
			}
			return want, nil
		},
	}
	got, err := m.Get(ctx, "e-2")
	if err != nil || got != want {
		t.Fatalf("Get: got (%v, %v)", got, err)
	}

	m = &Repo{}
	if _, err := m.Get(ctx, "e-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get default: want ErrNotFound, got %v", err)
	}
}

func TestRepo_UpdateFields(t *testing.T) {
	ctx := context.Background()
	closed := domain.StatusClosed

	var got domain.Fields
	m := &Repo{
		UpdateFieldsFn: func(_ context.Context, id string, f domain.Fields) error {
			if id != "e-3" {
				t.Fatalf("UpdateFields id mismatch: got %s", id)
			}
			got = f
			return nil
		},
	}
	if err := m.UpdateFields(ctx, "e-3", domain.Fields{Status: &closed}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got.Status == nil || *got.Status != domain.StatusClosed {
		t.Fatalf("UpdateFields fields not forwarded: %+v", got)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	list, err := m.FetchAll(ctx)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("FetchAll default: got (%v, %v)", list, err)
	}
	if err := m.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete default: want nil, got %v", err)
	}
	if err := m.UpdateFields(ctx, "x", domain.Fields{}); err != nil {
		t.Fatalf("UpdateFields default: want nil, got %v", err)
	}
}
