package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ncr-quality-backend/internal/domain/eightd"
	ncrDomain "ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/pkg/id"
)

// Table: ncr_entries
type ncrRow struct {
	ID                 string         `gorm:"column:id;primaryKey;size:36"`
	Month              int            `gorm:"column:month"`
	Day                int            `gorm:"column:day"`
	Source             string         `gorm:"column:source;size:64"`
	Customer           string         `gorm:"column:customer;size:128;index:idx_ncr_entries_customer"`
	Model              string         `gorm:"column:model;size:128"`
	PartName           string         `gorm:"column:part_name;size:255"`
	PartNo             string         `gorm:"column:part_no;size:128"`
	DefectContent      string         `gorm:"column:defect_content;type:text"`
	OutflowCause       string         `gorm:"column:outflow_cause;type:text"`
	RootCause          string         `gorm:"column:root_cause;type:text"`
	Countermeasure     string         `gorm:"column:countermeasure;type:text"`
	PlanDate           string         `gorm:"column:plan_date;size:32"`
	ResultDate         string         `gorm:"column:result_date;size:32"`
	EffectivenessCheck string         `gorm:"column:effectiveness_check;type:text"`
	Status             string         `gorm:"column:status;size:16"`
	ProgressRate       int            `gorm:"column:progress_rate"`
	Remarks            string         `gorm:"column:remarks;type:text"`
	Attachments        datatypes.JSON `gorm:"column:attachments"`
	EightDData         datatypes.JSON `gorm:"column:eight_d_data"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_ncr_entries_created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ncrRow) TableName() string { return "ncr_entries" }

// replaced on upsert; id and created_at are kept
var upsertColumns = []string{
	"month", "day", "source", "customer", "model", "part_name", "part_no", "defect_content",
	"outflow_cause", "root_cause", "countermeasure", "plan_date", "result_date",
	"effectiveness_check", "status", "progress_rate", "remarks", "attachments", "eight_d_data", "updated_at",
}

func toRow(e *ncrDomain.Entry) (*ncrRow, error) {
	atts := e.Attachments
	if atts == nil {
		atts = []ncrDomain.Attachment{}
	}
	attJSON, err := json.Marshal(atts)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	var reportJSON datatypes.JSON
	if e.EightD != nil {
		b, err := json.Marshal(e.EightD)
		if err != nil {
			return nil, fmt.Errorf("encode 8d report: %w", err)
		}
		reportJSON = b
	}
	return &ncrRow{
		ID:                 e.ID,
		Month:              e.Month,
		Day:                e.Day,
		Source:             e.Source,
		Customer:           e.Customer,
		Model:              e.Model,
		PartName:           e.PartName,
		PartNo:             e.PartNo,
		DefectContent:      e.DefectContent,
		OutflowCause:       e.OutflowCause,
		RootCause:          e.RootCause,
		Countermeasure:     e.Countermeasure,
		PlanDate:           e.PlanDate,
		ResultDate:         e.ResultDate,
		EffectivenessCheck: e.EffectivenessCheck,
		Status:             string(e.Status),
		ProgressRate:       e.ProgressRate,
		Remarks:            e.Remarks,
		Attachments:        attJSON,
		EightDData:         reportJSON,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}, nil
}

func (r *ncrRow) toEntity() (*ncrDomain.Entry, error) {
	e := &ncrDomain.Entry{
		ID:                 r.ID,
		Month:              r.Month,
		Day:                r.Day,
		Source:             r.Source,
		Customer:           r.Customer,
		Model:              r.Model,
		PartName:           r.PartName,
		PartNo:             r.PartNo,
		DefectContent:      r.DefectContent,
		OutflowCause:       r.OutflowCause,
		RootCause:          r.RootCause,
		Countermeasure:     r.Countermeasure,
		PlanDate:           r.PlanDate,
		ResultDate:         r.ResultDate,
		EffectivenessCheck: r.EffectivenessCheck,
		Status:             ncrDomain.Status(r.Status),
		ProgressRate:       r.ProgressRate,
		Remarks:            r.Remarks,
		Attachments:        []ncrDomain.Attachment{},
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if len(r.Attachments) > 0 && string(r.Attachments) != "null" {
		if err := json.Unmarshal(r.Attachments, &e.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments of %s: %w", r.ID, err)
		}
	}
	if len(r.EightDData) > 0 && string(r.EightDData) != "null" {
		var rep eightd.Report
		if err := json.Unmarshal(r.EightDData, &rep); err != nil {
			return nil, fmt.Errorf("decode 8d report of %s: %w", r.ID, err)
		}
		e.EightD = &rep
	}
	return e, nil
}

func connErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ncrDomain.ErrConnection, err)
}

func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ncrDomain.ErrWrite, err)
}

type NCRRepository struct{ db *gorm.DB }

func NewNCRRepository(db *gorm.DB) *NCRRepository { return &NCRRepository{db: db} }

func (r *NCRRepository) FetchAll(ctx context.Context) ([]ncrDomain.Entry, error) {
	var rows []ncrRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, connErr("fetch entries", err)
	}
	out := make([]ncrDomain.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *NCRRepository) Get(ctx context.Context, entryID string) (*ncrDomain.Entry, error) {
	var row ncrRow
	err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ncrDomain.ErrNotFound
	}
	if err != nil {
		return nil, connErr("get entry", err)
	}
	return row.toEntity()
}

func (r *NCRRepository) Upsert(ctx context.Context, e *ncrDomain.Entry) error {
	if e.ID == "" {
		e.ID = id.New()
	}
	row, err := toRow(e)
	if err != nil {
		return writeErr("upsert entry", err)
	}
	row.UpdatedAt = time.Time{} // stamped by gorm
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(row).Error
	if err != nil {
		return writeErr("upsert entry", err)
	}
	e.UpdatedAt = row.UpdatedAt
	if e.CreatedAt.IsZero() {
		e.CreatedAt = row.CreatedAt
	}
	return nil
}

func fieldColumns(f ncrDomain.Fields) (map[string]any, error) {
	m := map[string]any{}
	if f.RootCause != nil {
		m["root_cause"] = *f.RootCause
	}
	if f.Countermeasure != nil {
		m["countermeasure"] = *f.Countermeasure
	}
	if f.Status != nil {
		m["status"] = string(*f.Status)
	}
	if f.ProgressRate != nil {
		m["progress_rate"] = *f.ProgressRate
	}
	if f.Attachments != nil {
		b, err := json.Marshal(*f.Attachments)
		if err != nil {
			return nil, fmt.Errorf("encode attachments: %w", err)
		}
		m["attachments"] = datatypes.JSON(b)
	}
	if f.EightD != nil {
		b, err := json.Marshal(f.EightD)
		if err != nil {
			return nil, fmt.Errorf("encode 8d report: %w", err)
		}
		m["eight_d_data"] = datatypes.JSON(b)
	}
	return m, nil
}

func (r *NCRRepository) UpdateFields(ctx context.Context, entryID string, f ncrDomain.Fields) error {
	if f.Empty() {
		return nil
	}
	cols, err := fieldColumns(f)
	if err != nil {
		return writeErr("update entry", err)
	}
	res := r.db.WithContext(ctx).Model(&ncrRow{}).Where("id = ?", entryID).Updates(cols)
	if res.Error != nil {
		return writeErr("update entry", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// mysql reports 0 for an unchanged row, so confirm it exists
	var n int64
	if err := r.db.WithContext(ctx).Model(&ncrRow{}).Where("id = ?", entryID).Count(&n).Error; err != nil {
		return connErr("update entry", err)
	}
	if n == 0 {
		return ncrDomain.ErrNotFound
	}
	return nil
}

func (r *NCRRepository) Delete(ctx context.Context, entryID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).Delete(&ncrRow{}).Error; err != nil {
		return writeErr("delete entry", err)
	}
	return nil
}
