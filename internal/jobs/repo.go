package jobs

import (
	"context"
	"time"
)

// Repo defines persistence operations for jobs.
type Repo interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Job, error)
	List(ctx context.Context) ([]Job, error)
	// NextBatched returns the oldest batched job, if any.
	NextBatched(ctx context.Context) (Job, bool, error)
	// Claim transitions a job from batched to processing. It reports false
	// when another worker already claimed the job or its status moved on.
	Claim(ctx context.Context, id int64) (bool, error)
	// SetBatched marks a job ready for processing and records the source
	// subtitle path produced during ingestion.
	SetBatched(ctx context.Context, id int64, sourceSrtPath string) error
	// SetLanguages replaces the target language list and status together.
	SetLanguages(ctx context.Context, id int64, languages []string, status Status) error
	SetStatus(ctx context.Context, id int64, status Status) error
	// Complete marks a job completed at the given time.
	Complete(ctx context.Context, id int64, at time.Time) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}
