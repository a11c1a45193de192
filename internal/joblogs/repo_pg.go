package joblogs

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a job log entry.
func (r *PGRepo) Create(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO job_logs (job_id, credits_used, message)
VALUES ($1, $2, $3)`

	var credits sql.NullFloat64
	if entry.CreditsUsed != nil {
		credits = sql.NullFloat64{Float64: *entry.CreditsUsed, Valid: true}
	}
	var message sql.NullString
	if entry.Message != "" {
		message = sql.NullString{String: entry.Message, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query, entry.JobID, credits, message)
	return err
}

// ListByJob returns log entries for a job, oldest first.
func (r *PGRepo) ListByJob(ctx context.Context, jobID int64) ([]Entry, error) {
	const query = `
SELECT id, job_id, credits_used, message, created_at
FROM job_logs
WHERE job_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var credits sql.NullFloat64
		var message sql.NullString
		if err := rows.Scan(&e.ID, &e.JobID, &credits, &message, &e.CreatedAt); err != nil {
			return nil, err
		}
		if credits.Valid {
			v := credits.Float64
			e.CreditsUsed = &v
		}
		if message.Valid {
			e.Message = message.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SumCreditsByJob returns the total charged credits per job ID.
func (r *PGRepo) SumCreditsByJob(ctx context.Context) (map[int64]float64, error) {
	const query = `
SELECT job_id, COALESCE(SUM(credits_used), 0)
FROM job_logs
WHERE credits_used IS NOT NULL
GROUP BY job_id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[int64]float64{}
	for rows.Next() {
		var jobID int64
		var total float64
		if err := rows.Scan(&jobID, &total); err != nil {
			return nil, err
		}
		totals[jobID] = total
	}
	return totals, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
