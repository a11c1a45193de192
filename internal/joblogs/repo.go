package joblogs

import "context"

// Repo defines persistence operations for job logs.
type Repo interface {
	Create(ctx context.Context, entry Entry) error
	ListByJob(ctx context.Context, jobID int64) ([]Entry, error)
	// SumCreditsByJob returns the total charged credits per job ID.
	SumCreditsByJob(ctx context.Context) (map[int64]float64, error)
}
