package translations

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new translated file row.
func (r *PGRepo) Create(ctx context.Context, file TranslatedFile) (TranslatedFile, error) {
	const query = `
INSERT INTO translated_files (job_id, language, path, duration_seconds, credits_used)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		file.JobID,
		file.Language,
		file.Path,
		file.DurationSeconds,
		file.CreditsUsed,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return TranslatedFile{}, err
	}
	return file, nil
}

// ListByJob returns all translated files for a job, oldest first.
func (r *PGRepo) ListByJob(ctx context.Context, jobID int64) ([]TranslatedFile, error) {
	const query = `
SELECT id, job_id, language, path, duration_seconds, credits_used, created_at
FROM translated_files
WHERE job_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []TranslatedFile{}
	for rows.Next() {
		var f TranslatedFile
		if err := rows.Scan(&f.ID, &f.JobID, &f.Language, &f.Path, &f.DurationSeconds, &f.CreditsUsed, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Baseline returns the job's row for the baseline language.
func (r *PGRepo) Baseline(ctx context.Context, jobID int64) (TranslatedFile, error) {
	const query = `
SELECT id, job_id, language, path, duration_seconds, credits_used, created_at
FROM translated_files
WHERE job_id = $1 AND language = $2
LIMIT 1`

	var f TranslatedFile
	err := r.DB.QueryRowContext(ctx, query, jobID, BaselineLanguage).Scan(
		&f.ID,
		&f.JobID,
		&f.Language,
		&f.Path,
		&f.DurationSeconds,
		&f.CreditsUsed,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TranslatedFile{}, ErrNotFound
		}
		return TranslatedFile{}, err
	}
	return f, nil
}

// DeleteByJob removes all translated file rows for a job.
func (r *PGRepo) DeleteByJob(ctx context.Context, jobID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM translated_files WHERE job_id = $1`, jobID)
	return err
}

var _ Repo = (*PGRepo)(nil)
