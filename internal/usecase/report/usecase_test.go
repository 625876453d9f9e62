package report

import (
	"context"
	"errors"
	"testing"

	"ncr-quality-backend/internal/domain/activity"
	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/domain/uow"
	"ncr-quality-backend/internal/testutil/activitymock"
	"ncr-quality-backend/internal/testutil/ncrmock"
	"ncr-quality-backend/internal/testutil/uowmock"
)

type fixture struct {
	stored      *ncr.Entry
	updates     []ncr.Fields
	acts        *activitymock.Repo
	invalidated int
	archived    []string
	archiveErr  error
}

func (f *fixture) Invalidate(context.Context) { f.invalidated++ }

func (f *fixture) Put(_ context.Context, entryID, fileName, contentType string, data []byte) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	f.archived = append(f.archived, entryID+"/"+fileName)
	return "ncr/" + entryID + "/" + fileName, nil
}

func newFixture(d Drafter, r Renderer) (*fixture, *Usecase) {
	f := &fixture{stored: sampleEntry(), acts: &activitymock.Repo{}}
	repo := &ncrmock.Repo{
		GetFn: func(_ context.Context, id string) (*ncr.Entry, error) {
			if f.stored == nil || id != f.stored.ID {
				return nil, ncr.ErrNotFound
			}
			cp := *f.stored
			return &cp, nil
		},
		UpdateFieldsFn: func(_ context.Context, id string, fl ncr.Fields) error {
			f.updates = append(f.updates, fl)
			fl.ApplyTo(f.stored)
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Entries: repo, Activities: f.acts})
	u := NewUsecase(repo, tx, d, r, f, nil).WithClock(clock).WithArchive(f)
	return f, u
}

func TestUsecase_OpenNotFound(t *testing.T) {
	_, u := newFixture(nil, nil)
	if _, err := u.Open(context.Background(), "missing"); !errors.Is(err, ncr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := u.Open(context.Background(), ""); !errors.Is(err, ncr.ErrNoIdentifier) {
		t.Fatalf("want ErrNoIdentifier, got %v", err)
	}
}

func TestUsecase_EditContinuesFromCurrent(t *testing.T) {
	_, u := newFixture(nil, nil)
	current := &eightd.Report{DocNo: "CLIENT", Containment: "client side"}

	got, err := u.Edit(context.Background(), "ab12cd", current, []eightd.Update{{Field: eightd.FieldReviewAndConfirm, Value: "ok"}})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.DocNo != "CLIENT" || got.Containment != "client side" || got.ReviewAndConfirm != "ok" {
		t.Fatalf("report = %+v", got)
	}
	if current.ReviewAndConfirm != "" {
		t.Fatal("caller's report was modified")
	}

	if _, err := u.Edit(context.Background(), "ab12cd", nil, []eightd.Update{{Field: "nope"}}); !errors.Is(err, eightd.ErrUnknownField) {
		t.Fatalf("want ErrUnknownField, got %v", err)
	}
}

func TestUsecase_DraftDoesNotPersist(t *testing.T) {
	f, u := newFixture(staticDrafter(draftJSON), nil)
	got, err := u.Draft(context.Background(), "ab12cd", nil)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if got.Containment != "sort all stock" {
		t.Fatalf("report = %+v", got)
	}
	if len(f.updates) != 0 || f.invalidated != 0 {
		t.Fatalf("draft wrote to the store: updates=%d invalidated=%d", len(f.updates), f.invalidated)
	}
}

func TestUsecase_Save(t *testing.T) {
	f, u := newFixture(nil, nil)
	rep := &eightd.Report{DocNo: "2026.03.AB", Containment: "held"}

	if _, err := u.Save(context.Background(), "ab12cd", rep); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(f.updates) != 1 || f.updates[0].EightD == nil || f.updates[0].Status != nil {
		t.Fatalf("updates = %+v", f.updates)
	}
	if f.stored.EightD.Containment != "held" || f.stored.Status != ncr.StatusOpen {
		t.Fatalf("stored = %+v", f.stored)
	}
	if len(f.acts.Created) != 1 || f.acts.Created[0].Action != activity.ActionSaveReport {
		t.Fatalf("activities = %+v", f.acts.Created)
	}
	if f.invalidated != 1 {
		t.Fatalf("invalidated = %d", f.invalidated)
	}
}

func TestUsecase_Finalize(t *testing.T) {
	f, u := newFixture(nil, okRenderer())

	got, err := u.Finalize(context.Background(), "ab12cd", nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got.Status != ncr.StatusClosed || got.ProgressRate != 100 || len(got.Attachments) != 2 {
		t.Fatalf("entry = %+v", got)
	}
	if f.stored.Status != ncr.StatusClosed || len(f.stored.Attachments) != 2 || f.stored.EightD == nil {
		t.Fatalf("stored = %+v", f.stored)
	}
	if f.stored.RootCause != eightd.RootCauseFallback || f.stored.Countermeasure != eightd.CountermeasureFallback {
		t.Fatalf("summaries = %q, %q", f.stored.RootCause, f.stored.Countermeasure)
	}

	a := f.acts.Created
	if len(a) != 1 || a[0].Action != activity.ActionFinalize || a[0].FromStatus != "Open" || a[0].ToStatus != "Closed" {
		t.Fatalf("activities = %+v", a)
	}
	if f.invalidated != 1 || len(f.archived) != 1 {
		t.Fatalf("invalidated=%d archived=%v", f.invalidated, f.archived)
	}
}

func TestUsecase_FinalizeRenderFailure(t *testing.T) {
	r := rendererFunc(func(context.Context, *eightd.Report) ([]byte, error) { return nil, errors.New("crash") })
	f, u := newFixture(nil, r)

	if _, err := u.Finalize(context.Background(), "ab12cd", nil); !errors.Is(err, ErrRender) {
		t.Fatalf("want ErrRender, got %v", err)
	}
	if len(f.updates) != 0 || len(f.acts.Created) != 0 || f.invalidated != 0 || len(f.archived) != 0 {
		t.Fatalf("side effects after failed render: %+v", f)
	}
	if f.stored.Status != ncr.StatusOpen || len(f.stored.Attachments) != 1 {
		t.Fatalf("stored = %+v", f.stored)
	}
}

func TestUsecase_FinalizeArchiveFailureIsNotFatal(t *testing.T) {
	f, u := newFixture(nil, okRenderer())
	f.archiveErr = errors.New("bucket gone")

	if _, err := u.Finalize(context.Background(), "ab12cd", nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if f.stored.Status != ncr.StatusClosed {
		t.Fatalf("stored = %+v", f.stored)
	}
}

func TestUsecase_Export(t *testing.T) {
	f, u := newFixture(nil, okRenderer())
	name, pdf, err := u.Export(context.Background(), "ab12cd", &eightd.Report{DocNo: "X1"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "8D_REPORT_X1.pdf" || len(pdf) == 0 {
		t.Fatalf("name=%q len=%d", name, len(pdf))
	}
	if len(f.updates) != 0 {
		t.Fatal("export wrote to the store")
	}
}
