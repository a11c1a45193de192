package joblogs

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64][]Entry // jobID -> entries
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		data:   make(map[int64][]Entry),
	}
}

// Create stores a job log entry.
func (r *MemoryRepo) Create(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.data[entry.JobID] = append(r.data[entry.JobID], entry)
	return nil
}

// ListByJob returns log entries for a job.
func (r *MemoryRepo) ListByJob(ctx context.Context, jobID int64) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, len(r.data[jobID]))
	copy(entries, r.data[jobID])
	return entries, nil
}

// SumCreditsByJob returns the total charged credits per job ID.
func (r *MemoryRepo) SumCreditsByJob(ctx context.Context) (map[int64]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := map[int64]float64{}
	for jobID, entries := range r.data {
		for _, e := range entries {
			if e.CreditsUsed != nil {
				totals[jobID] += *e.CreditsUsed
			}
		}
	}
	return totals, nil
}

var _ Repo = (*MemoryRepo)(nil)
