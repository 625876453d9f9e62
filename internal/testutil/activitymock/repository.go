package activitymock

import (
	"context"

	domain "ncr-quality-backend/internal/domain/activity"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// With no CreateFn set it records every row in Created.
type Repo struct {
	CreateFn      func(ctx context.Context, a *domain.Activity) error
	ListByEntryFn func(ctx context.Context, entryID string) ([]domain.Activity, error)

	Created []domain.Activity
}

func (m *Repo) Create(ctx context.Context, a *domain.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	m.Created = append(m.Created, *a)
	return nil
}

func (m *Repo) ListByEntry(ctx context.Context, entryID string) ([]domain.Activity, error) {
	if m.ListByEntryFn != nil {
		return m.ListByEntryFn(ctx, entryID)
	}
	return []domain.Activity{}, nil
}
