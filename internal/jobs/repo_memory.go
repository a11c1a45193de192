package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Job
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		data:   make(map[int64]Job),
	}
}

// Create stores a new job.
func (r *MemoryRepo) Create(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.data[job.ID] = job
	return job, nil
}

// GetByID returns a job by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// ListByIDs returns jobs matching the given IDs.
func (r *MemoryRepo) ListByIDs(ctx context.Context, ids []int64) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := []Job{}
	for _, id := range ids {
		if job, ok := r.data[id]; ok {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

// List returns all jobs, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]Job, 0, len(r.data))
	for _, job := range r.data {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// NextBatched returns the oldest batched job, if any.
func (r *MemoryRepo) NextBatched(ctx context.Context) (Job, bool, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found bool
	var oldest Job
	for _, job := range r.data {
		if job.Status != StatusBatched {
			continue
		}
		if !found || job.CreatedAt.Before(oldest.CreatedAt) ||
			(job.CreatedAt.Equal(oldest.CreatedAt) && job.ID < oldest.ID) {
			oldest = job
			found = true
		}
	}
	return oldest, found, nil
}

// Claim transitions a job from batched to processing.
func (r *MemoryRepo) Claim(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.data[id]
	if !ok || job.Status != StatusBatched {
		return false, nil
	}
	job.Status = StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	r.data[id] = job
	return true, nil
}

// SetBatched marks a job ready for processing.
func (r *MemoryRepo) SetBatched(ctx context.Context, id int64, sourceSrtPath string) error {
	return r.update(ctx, id, func(job *Job) {
		job.Status = StatusBatched
		job.SourceSrtPath = sourceSrtPath
	})
}

// SetLanguages replaces the target language list and status together.
func (r *MemoryRepo) SetLanguages(ctx context.Context, id int64, languages []string, status Status) error {
	langs := make([]string, len(languages))
	copy(langs, languages)
	return r.update(ctx, id, func(job *Job) {
		job.TargetLanguages = langs
		job.Status = status
	})
}

// SetStatus updates a job's status.
func (r *MemoryRepo) SetStatus(ctx context.Context, id int64, status Status) error {
	return r.update(ctx, id, func(job *Job) {
		job.Status = status
	})
}

// Complete marks a job completed at the given time.
func (r *MemoryRepo) Complete(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, func(job *Job) {
		job.Status = StatusCompleted
		job.CompletedAt = &at
	})
}

// DeleteByIDs removes jobs by ID.
func (r *MemoryRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.data, id)
	}
	return nil
}

func (r *MemoryRepo) update(ctx context.Context, id int64, fn func(*Job)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	fn(&job)
	job.UpdatedAt = time.Now().UTC()
	r.data[id] = job
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
