package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ncr-quality-backend/internal/domain/activity"
	"ncr-quality-backend/pkg/id"
)

// Table: ncr_activities
type activityRow struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	EntryID    string    `gorm:"column:entry_id;size:36;not null;index:idx_ncr_activities_entry"`
	Action     string    `gorm:"column:action;size:32;not null"`
	FromStatus string    `gorm:"column:from_status;size:16"`
	ToStatus   string    `gorm:"column:to_status;size:16"`
	Content    string    `gorm:"column:content;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index:idx_ncr_activities_entry"`
}

func (activityRow) TableName() string { return "ncr_activities" }

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	if a.ID == "" {
		a.ID = id.New()
	}
	row := &activityRow{
		ID:         a.ID,
		EntryID:    a.EntryID,
		Action:     string(a.Action),
		FromStatus: a.FromStatus,
		ToStatus:   a.ToStatus,
		Content:    a.Content,
		CreatedAt:  a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return writeErr("record activity", err)
	}
	a.CreatedAt = row.CreatedAt
	return nil
}

func (r *ActivityRepository) ListByEntry(ctx context.Context, entryID string) ([]activity.Activity, error) {
	var rows []activityRow
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, connErr("list activities", err)
	}
	out := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, activity.Activity{
			ID:         row.ID,
			EntryID:    row.EntryID,
			Action:     activity.Action(row.Action),
			FromStatus: row.FromStatus,
			ToStatus:   row.ToStatus,
			Content:    row.Content,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
