package repository

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// JobLogRepository persists ingestion run audit rows.
type JobLogRepository struct {
	db *gorm.DB
}

// NewJobLogRepository creates a JobLogRepository bound to db.
func NewJobLogRepository(db *gorm.DB) *JobLogRepository {
	return &JobLogRepository{db: db}
}

// Start records a new run in the running state and returns its row.
func (r *JobLogRepository) Start(ctx context.Context, jobType string, startedAt time.Time) (*domain.JobLog, error) {
	job := &domain.JobLog{
		JobType:   jobType,
		Status:    domain.JobStatusRunning,
		StartedAt: startedAt,
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// Finish moves a run to its terminal status.
func (r *JobLogRepository) Finish(ctx context.Context, id uint, status domain.JobStatus, itemsProcessed int, errMsg string, completedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.JobLog{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          status,
		"items_processed": itemsProcessed,
		"error_message":   domain.OptionalString(errMsg),
		"completed_at":    completedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns the newest job logs first.
func (r *JobLogRepository) Recent(ctx context.Context, limit int) ([]domain.JobLog, error) {
	var jobs []domain.JobLog
	err := r.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").
		Limit(clampLimit(limit, 20, 100)).
		Find(&jobs).Error
	return jobs, err
}

// Latest returns the newest job log or ErrNotFound when none exist.
func (r *JobLogRepository) Latest(ctx context.Context) (*domain.JobLog, error) {
	var job domain.JobLog
	err := r.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}
