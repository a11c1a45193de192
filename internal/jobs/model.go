package jobs

import "time"

// Status is a job lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusBatched    Status = "batched"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job represents a subtitle translation job.
type Job struct {
	ID              int64
	Name            string
	OriginalPath    string
	SourceSrtPath   string
	Status          Status
	TargetLanguages []string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
