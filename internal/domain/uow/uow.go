package uow

import (
	"context"

	"ncr-quality-backend/internal/domain/activity"
	"ncr-quality-backend/internal/domain/ncr"
)

type Repos struct {
	Entries    ncr.Repository
	Activities activity.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load the entry first, then pass it in
	WithinEntryTx(ctx context.Context, entryID string, fn func(r Repos, e *ncr.Entry) error) error
}
