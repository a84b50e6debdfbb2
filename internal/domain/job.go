package domain

import "time"

// JobStatus is the lifecycle state of an ingestion run: running, then success or failed.
type JobStatus string

const (
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// Job types recorded in job_logs.
const (
	JobTypeScheduledFetch = "scheduled_fetch"
	JobTypeManualFetch    = "manual_fetch"
)

// JobLog is the audit row for one ingestion run.
type JobLog struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	JobType        string     `gorm:"type:varchar(64);not null;index:idx_job_logs_type" json:"jobType"`
	Status         JobStatus  `gorm:"type:varchar(16);not null;default:running" json:"status"`
	ItemsProcessed int        `gorm:"not null;default:0" json:"itemsProcessed"`
	ErrorMessage   *string    `gorm:"type:text" json:"errorMessage"`
	StartedAt      time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// TableName returns the database table name for JobLog.
func (JobLog) TableName() string {
	return "job_logs"
}
