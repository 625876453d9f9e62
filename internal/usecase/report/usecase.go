package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ncr-quality-backend/internal/domain/activity"
	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/domain/uow"
)

// Archiver keeps a copy of finalized PDFs outside the database.
type Archiver interface {
	Put(ctx context.Context, entryID, fileName, contentType string, data []byte) (string, error)
}

// Invalidator drops the cached entry list after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Usecase struct {
	repo     ncr.Repository
	uow      uow.UnitOfWork
	drafter  Drafter
	renderer Renderer
	cache    Invalidator
	archive  Archiver
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(r ncr.Repository, tx uow.UnitOfWork, d Drafter, rd Renderer, cache Invalidator, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, uow: tx, drafter: d, renderer: rd, cache: cache, log: log, now: time.Now}
}

// WithArchive enables archival of finalized PDFs. A nil archive disables it.
func (u *Usecase) WithArchive(a Archiver) *Usecase {
	u.archive = a
	return u
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// builder opens the entry's report and, when current is set, continues from it.
func (u *Usecase) builder(ctx context.Context, id string, current *eightd.Report) (*Builder, error) {
	if id == "" {
		return nil, ncr.ErrNoIdentifier
	}
	e, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(u.drafter, u.renderer, u.now)
	if err := b.Open(e); err != nil {
		return nil, err
	}
	if current != nil {
		if err := b.Replace(current); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Open returns the stored report, or the default for an entry that has none.
func (u *Usecase) Open(ctx context.Context, id string) (*eightd.Report, error) {
	b, err := u.builder(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return b.Report(), nil
}

// Edit applies updates to current (or the stored report) and returns the result unsaved.
func (u *Usecase) Edit(ctx context.Context, id string, current *eightd.Report, updates []eightd.Update) (*eightd.Report, error) {
	b, err := u.builder(ctx, id, current)
	if err != nil {
		return nil, err
	}
	if err := b.Apply(updates...); err != nil {
		return nil, err
	}
	return b.Report(), nil
}

// Draft merges generated content into current and returns the result unsaved.
func (u *Usecase) Draft(ctx context.Context, id string, current *eightd.Report) (*eightd.Report, error) {
	b, err := u.builder(ctx, id, current)
	if err != nil {
		return nil, err
	}
	if err := b.Draft(ctx); err != nil {
		u.log.Warn("report draft failed", zap.String("entry_id", id), zap.Error(err))
		return nil, err
	}
	return b.Report(), nil
}

// Save stores rep on the entry as is, without closing it.
func (u *Usecase) Save(ctx context.Context, id string, rep *eightd.Report) (*eightd.Report, error) {
	if id == "" {
		return nil, ncr.ErrNoIdentifier
	}
	rep = rep.Clone()
	err := u.uow.WithinEntryTx(ctx, id, func(r uow.Repos, e *ncr.Entry) error {
		if err := r.Entries.UpdateFields(ctx, id, ncr.Fields{EightD: rep}); err != nil {
			return err
		}
		return r.Activities.Create(ctx, &activity.Activity{
			EntryID:    id,
			Action:     activity.ActionSaveReport,
			FromStatus: string(e.Status),
			ToStatus:   string(e.Status),
			Content:    rep.DocNo,
		})
	})
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx)
	return rep, nil
}

// Export renders current (or the stored report) to a PDF and its download name.
func (u *Usecase) Export(ctx context.Context, id string, current *eightd.Report) (string, []byte, error) {
	b, err := u.builder(ctx, id, current)
	if err != nil {
		return "", nil, err
	}
	return b.Export(ctx)
}

// Finalize closes the entry: the rendered PDF is attached, the summaries written back,
// status set to Closed and progress to 100. Nothing is written if rendering fails.
func (u *Usecase) Finalize(ctx context.Context, id string, current *eightd.Report) (*ncr.Entry, error) {
	b, err := u.builder(ctx, id, current)
	if err != nil {
		return nil, err
	}

	res, err := b.Finalize(ctx, func(ctx context.Context, res *FinalizeResult) error {
		return u.uow.WithinEntryTx(ctx, id, func(r uow.Repos, e *ncr.Entry) error {
			if err := r.Entries.UpdateFields(ctx, id, res.Fields()); err != nil {
				return err
			}
			return r.Activities.Create(ctx, &activity.Activity{
				EntryID:    id,
				Action:     activity.ActionFinalize,
				FromStatus: string(e.Status),
				ToStatus:   string(res.Status),
				Content:    res.FileName,
			})
		})
	})
	if err != nil {
		u.log.Warn("report finalize failed", zap.String("entry_id", id), zap.Error(err))
		return nil, err
	}
	u.invalidate(ctx)
	u.archiveCopy(ctx, id, res)

	e := b.Entry()
	return &e, nil
}

func (u *Usecase) archiveCopy(ctx context.Context, id string, res *FinalizeResult) {
	if u.archive == nil {
		return
	}
	key, err := u.archive.Put(ctx, id, res.FileName, pdfMIME, res.PDF)
	if err != nil {
		u.log.Error("archive finalized report", zap.String("entry_id", id), zap.Error(err))
		return
	}
	u.log.Info("archived finalized report", zap.String("entry_id", id), zap.String("object", key))
}

func (u *Usecase) invalidate(ctx context.Context) {
	if u.cache != nil {
		u.cache.Invalidate(ctx)
	}
}
