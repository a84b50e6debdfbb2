package repository

import (
	"context"
	"fmt"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// EfficiencyRepository handles efficiency record persistence.
type EfficiencyRepository struct {
	db *gorm.DB
}

// NewEfficiencyRepository creates an EfficiencyRepository bound to db.
func NewEfficiencyRepository(db *gorm.DB) *EfficiencyRepository {
	return &EfficiencyRepository{db: db}
}

// CreateBatch inserts records in one transaction.
func (r *EfficiencyRepository) CreateBatch(ctx context.Context, records []domain.EfficiencyRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(records, 100).Error; err != nil {
		return fmt.Errorf("failed to create efficiency records: %w", err)
	}
	return nil
}

// List returns records newest first, optionally limited to one cell type.
func (r *EfficiencyRepository) List(ctx context.Context, cellType string) ([]domain.EfficiencyRecord, error) {
	query := r.db.WithContext(ctx).Model(&domain.EfficiencyRecord{})
	if cellType != "" {
		query = query.Where("cell_type = ?", cellType)
	}
	var items []domain.EfficiencyRecord
	err := query.Order("record_date DESC").Order("id DESC").Find(&items).Error
	return items, err
}

// Current returns the records flagged as the standing record, best first.
func (r *EfficiencyRepository) Current(ctx context.Context) ([]domain.EfficiencyRecord, error) {
	var items []domain.EfficiencyRecord
	err := r.db.WithContext(ctx).
		Where("is_current_record = ?", true).
		Order("efficiency DESC").
		Find(&items).Error
	return items, err
}

// ChartData returns every record as a chart point, oldest first.
func (r *EfficiencyRepository) ChartData(ctx context.Context) ([]domain.EfficiencyPoint, error) {
	var points []domain.EfficiencyPoint
	err := r.db.WithContext(ctx).
		Model(&domain.EfficiencyRecord{}).
		Select("id", "cell_type", "efficiency", "record_date", "institution").
		Order("record_date ASC").Order("id ASC").
		Scan(&points).Error
	return points, err
}

// Count returns the number of efficiency records.
func (r *EfficiencyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.EfficiencyRecord{}).Count(&n).Error
	return n, err
}
