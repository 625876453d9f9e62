package activity

import "context"

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	// ListByEntry returns newest first.
	ListByEntry(ctx context.Context, entryID string) ([]Activity, error)
}
