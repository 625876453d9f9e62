package dashboard

import (
	"context"

	"ncr-quality-backend/internal/domain/ncr"
)

// Lister is satisfied by the NCR usecase.
type Lister interface {
	List(ctx context.Context, q string) ([]ncr.Entry, error)
}

type Usecase struct {
	lister         Lister
	internalSource string
}

func NewUsecase(l Lister, internalSource string) *Usecase {
	return &Usecase{lister: l, internalSource: internalSource}
}

func (u *Usecase) Get(ctx context.Context) (Summary, error) {
	entries, err := u.lister.List(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(entries, u.internalSource), nil
}
