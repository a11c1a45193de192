package translations

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested translated file does not exist.
var ErrNotFound = errors.New("translated file not found")

// ErrDuplicate indicates a job already has a file for the language. Postgres
// enforces this with a unique constraint on (job_id, language).
var ErrDuplicate = errors.New("translated file already exists for language")

// Repo defines persistence operations for translated files.
type Repo interface {
	Create(ctx context.Context, file TranslatedFile) (TranslatedFile, error)
	ListByJob(ctx context.Context, jobID int64) ([]TranslatedFile, error)
	// Baseline returns the job's row for the baseline language.
	Baseline(ctx context.Context, jobID int64) (TranslatedFile, error)
	DeleteByJob(ctx context.Context, jobID int64) error
}
