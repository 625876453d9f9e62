package gormstore

import (
	"context"

	"gorm.io/gorm"

	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Entries:    &NCRRepository{db: tx},
		Activities: &ActivityRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinEntryTx(ctx context.Context, entryID string, fn func(r uow.Repos, e *ncr.Entry) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		e, err := r.Entries.Get(ctx, entryID)
		if err != nil {
			return err
		}
		return fn(r, e)
	})
}

// Migrate creates or updates the tables this store owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ncrRow{}, &activityRow{})
}
