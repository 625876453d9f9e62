package ncrmock

import (
	"context"

	domain "ncr-quality-backend/internal/domain/ncr"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads return ErrNotFound / an empty list; unset writes succeed.
type Repo struct {
	FetchAllFn     func(ctx context.Context) ([]domain.Entry, error)
	GetFn          func(ctx context.Context, id string) (*domain.Entry, error)
	UpsertFn       func(ctx context.Context, e *domain.Entry) error
	UpdateFieldsFn func(ctx context.Context, id string, f domain.Fields) error
	DeleteFn       func(ctx context.Context, id string) error
}

func (m *Repo) FetchAll(ctx context.Context) ([]domain.Entry, error) {
	if m.FetchAllFn != nil {
		return m.FetchAllFn(ctx)
	}
	return []domain.Entry{}, nil
}

func (m *Repo) Get(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Upsert(ctx context.Context, e *domain.Entry) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, e)
	}
	return nil
}

func (m *Repo) UpdateFields(ctx context.Context, id string, f domain.Fields) error {
	if m.UpdateFieldsFn != nil {
		return m.UpdateFieldsFn(ctx, id, f)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
