package ncr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"ncr-quality-backend/internal/domain/activity"
	domain "ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/domain/uow"
)

// ListCache holds the full entry list between mutations. Get returns, with a miss,
// the generation Set must carry; a Set whose generation was passed by Invalidate is dropped.
type ListCache interface {
	Get(ctx context.Context) ([]domain.Entry, int64, bool, error)
	Set(ctx context.Context, gen int64, entries []domain.Entry) error
	Invalidate(ctx context.Context) error
}

type Usecase struct {
	repo      domain.Repository
	acts      activity.Repository
	uow       uow.UnitOfWork
	cache     ListCache
	log       *zap.Logger
	customers []string
}

// NewUsecase: customers are the known names offered before any entry mentions them.
func NewUsecase(r domain.Repository, acts activity.Repository, tx uow.UnitOfWork, cache ListCache, log *zap.Logger, customers []string) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, acts: acts, uow: tx, cache: cache, log: log, customers: customers}
}

// List returns every entry newest first, narrowed by q when it is non-blank.
func (u *Usecase) List(ctx context.Context, q string) ([]domain.Entry, error) {
	all, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, q), nil
}

func (u *Usecase) all(ctx context.Context) ([]domain.Entry, error) {
	var (
		gen       int64
		cacheable bool
	)
	if u.cache != nil {
		entries, g, ok, err := u.cache.Get(ctx)
		if err != nil {
			u.log.Warn("list cache read failed", zap.Error(err))
		}
		if ok {
			return entries, nil
		}
		gen, cacheable = g, err == nil
	}

	entries, err := u.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := u.cache.Set(ctx, gen, entries); err != nil {
			u.log.Warn("list cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// Filter keeps entries whose customer, model or defect text contains q, ignoring case.
func Filter(entries []domain.Entry, q string) []domain.Entry {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return entries
	}
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Customer), q) ||
			strings.Contains(strings.ToLower(e.Model), q) ||
			strings.Contains(strings.ToLower(e.DefectContent), q) {
			out = append(out, e)
		}
	}
	return out
}

func (u *Usecase) Get(ctx context.Context, id string) (*domain.Entry, error) {
	if id == "" {
		return nil, domain.ErrNoIdentifier
	}
	return u.repo.Get(ctx, id)
}

// Save replaces the whole record, assigning an id on first insert, and logs the change.
func (u *Usecase) Save(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		act := &activity.Activity{Action: activity.ActionCreate, ToStatus: string(e.Status)}
		if e.ID != "" {
			prev, err := r.Entries.Get(ctx, e.ID)
			switch {
			case err == nil:
				act.Action = activity.ActionUpdate
				act.FromStatus = string(prev.Status)
				if e.CreatedAt.IsZero() {
					e.CreatedAt = prev.CreatedAt
				}
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}
		}

		if err := r.Entries.Upsert(ctx, e); err != nil {
			return err
		}
		act.EntryID = e.ID
		act.Content = describe(e)
		return r.Activities.Create(ctx, act)
	})
	if err != nil {
		u.log.Warn("entry save failed", zap.String("entry_id", e.ID), zap.Error(err))
		return nil, err
	}

	u.Invalidate(ctx)
	return e, nil
}

// Delete removes the entry. An entry that was never saved has nothing to delete.
func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrNoIdentifier
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		act := &activity.Activity{EntryID: id, Action: activity.ActionDelete}
		if prev, err := r.Entries.Get(ctx, id); err == nil {
			act.FromStatus = string(prev.Status)
			act.Content = describe(prev)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := r.Entries.Delete(ctx, id); err != nil {
			return err
		}
		return r.Activities.Create(ctx, act)
	})
	if err != nil {
		u.log.Warn("entry delete failed", zap.String("entry_id", id), zap.Error(err))
		return err
	}

	u.Invalidate(ctx)
	return nil
}

func (u *Usecase) Activities(ctx context.Context, id string) ([]activity.Activity, error) {
	if id == "" {
		return nil, domain.ErrNoIdentifier
	}
	return u.acts.ListByEntry(ctx, id)
}

// Customers merges the configured names with every customer in the list, sorted.
func (u *Usecase) Customers(ctx context.Context) ([]string, error) {
	entries, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(u.customers)+len(entries))
	out := make([]string, 0, len(seen))
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, c := range u.customers {
		add(c)
	}
	for _, e := range entries {
		add(e.Customer)
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops the cached list so the next read goes to the store.
func (u *Usecase) Invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warn("list cache invalidate failed", zap.Error(err))
	}
}

func describe(e *domain.Entry) string {
	return fmt.Sprintf("%s / %s / %s", e.Customer, e.Model, e.DefectContent)
}
