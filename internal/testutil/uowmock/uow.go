package uowmock

import (
	"context"
	"errors"

	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn      func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinEntryTxFn func(ctx context.Context, entryID string, fn func(r uow.Repos, e *ncr.Entry) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinEntryTx(fn func(context.Context, string, func(uow.Repos, *ncr.Entry) error) error) *UoW {
	m.WithinEntryTxFn = fn
	return m
}

// Passthrough runs every transaction body directly against repos.
// WithinEntryTx loads the entry from repos.Entries first.
func Passthrough(repos uow.Repos) *UoW {
	return New().
		WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		}).
		WithWithinEntryTx(func(ctx context.Context, id string, fn func(uow.Repos, *ncr.Entry) error) error {
			e, err := repos.Entries.Get(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, e)
		})
}

func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinEntryTx(ctx context.Context, entryID string, fn func(r uow.Repos, e *ncr.Entry) error) error {
	if m.WithinEntryTxFn != nil {
		return m.WithinEntryTxFn(ctx, entryID, fn)
	}
	return errUnimplemented
}
