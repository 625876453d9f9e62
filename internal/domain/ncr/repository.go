package ncr

import "context"

type Repository interface {
	// FetchAll returns every entry, newest first.
	FetchAll(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	// Upsert replaces the whole record. An empty ID gets a new one assigned.
	Upsert(ctx context.Context, e *Entry) error
	UpdateFields(ctx context.Context, id string, f Fields) error
	// Delete of a missing id succeeds.
	Delete(ctx context.Context, id string) error
}
