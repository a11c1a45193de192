package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, name, original_path, source_srt_path, status, target_languages, completed_at, created_at, updated_at`

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) (Job, error) {
	const query = `
INSERT INTO jobs (name, original_path, source_srt_path, status, target_languages)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	langs, err := marshalLanguages(job.TargetLanguages)
	if err != nil {
		return Job{}, err
	}

	err = r.DB.QueryRowContext(
		ctx,
		query,
		job.Name,
		job.OriginalPath,
		job.SourceSrtPath,
		string(job.Status),
		langs,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// ListByIDs returns jobs matching the given IDs.
func (r *PGRepo) ListByIDs(ctx context.Context, ids []int64) ([]Job, error) {
	if len(ids) == 0 {
		return []Job{}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE id IN (%s) ORDER BY id ASC`,
		jobColumns, strings.Join(placeholders, ", "),
	)
	return r.queryJobs(ctx, query, args...)
}

// List returns all jobs, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs ORDER BY created_at DESC, id DESC`, jobColumns)
	return r.queryJobs(ctx, query)
}

// NextBatched returns the oldest batched job, if any.
func (r *PGRepo) NextBatched(ctx context.Context) (Job, bool, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE status = $1 ORDER BY created_at ASC, id ASC LIMIT 1`,
		jobColumns,
	)
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, string(StatusBatched)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, false, nil
		}
		return Job{}, false, err
	}
	return job, true, nil
}

// Claim transitions a job from batched to processing. The status guard in
// the WHERE clause makes the claim safe against concurrent workers.
func (r *PGRepo) Claim(ctx context.Context, id int64) (bool, error) {
	const query = `
UPDATE jobs
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3`

	res, err := r.DB.ExecContext(ctx, query, string(StatusProcessing), id, string(StatusBatched))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// SetBatched marks a job ready for processing.
func (r *PGRepo) SetBatched(ctx context.Context, id int64, sourceSrtPath string) error {
	const query = `
UPDATE jobs
SET status = $1, source_srt_path = $2, updated_at = now()
WHERE id = $3`
	return r.exec(ctx, query, string(StatusBatched), sourceSrtPath, id)
}

// SetLanguages replaces the target language list and status together.
func (r *PGRepo) SetLanguages(ctx context.Context, id int64, languages []string, status Status) error {
	langs, err := marshalLanguages(languages)
	if err != nil {
		return err
	}
	const query = `
UPDATE jobs
SET target_languages = $1, status = $2, updated_at = now()
WHERE id = $3`
	return r.exec(ctx, query, langs, string(status), id)
}

// SetStatus updates a job's status.
func (r *PGRepo) SetStatus(ctx context.Context, id int64, status Status) error {
	const query = `
UPDATE jobs
SET status = $1, updated_at = now()
WHERE id = $2`
	return r.exec(ctx, query, string(status), id)
}

// Complete marks a job completed at the given time.
func (r *PGRepo) Complete(ctx context.Context, id int64, at time.Time) error {
	const query = `
UPDATE jobs
SET status = $1, completed_at = $2, updated_at = now()
WHERE id = $3`
	return r.exec(ctx, query, string(StatusCompleted), at, id)
}

// DeleteByIDs removes jobs by ID. Dependent rows cascade.
func (r *PGRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	query := fmt.Sprintf(`DELETE FROM jobs WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) queryJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var status string
	var langs []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&job.ID,
		&job.Name,
		&job.OriginalPath,
		&job.SourceSrtPath,
		&status,
		&langs,
		&completedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}

	job.Status = Status(status)
	if len(langs) > 0 {
		if err := json.Unmarshal(langs, &job.TargetLanguages); err != nil {
			return Job{}, fmt.Errorf("unmarshal target languages: %w", err)
		}
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return job, nil
}

func marshalLanguages(languages []string) ([]byte, error) {
	if languages == nil {
		languages = []string{}
	}
	raw, err := json.Marshal(languages)
	if err != nil {
		return nil, fmt.Errorf("marshal target languages: %w", err)
	}
	return raw, nil
}

var _ Repo = (*PGRepo)(nil)
