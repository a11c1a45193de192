package translations

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64][]TranslatedFile // jobID -> files
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		data:   make(map[int64][]TranslatedFile),
	}
}

// Create stores a translated file for a job.
func (r *MemoryRepo) Create(ctx context.Context, file TranslatedFile) (TranslatedFile, error) {
	if err := ctx.Err(); err != nil {
		return TranslatedFile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data[file.JobID] {
		if existing.Language == file.Language {
			return TranslatedFile{}, fmt.Errorf("job %d language %s: %w", file.JobID, file.Language, ErrDuplicate)
		}
	}
	file.ID = r.nextID
	r.nextID++
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	r.data[file.JobID] = append(r.data[file.JobID], file)
	return file, nil
}

// ListByJob returns all translated files for a job.
func (r *MemoryRepo) ListByJob(ctx context.Context, jobID int64) ([]TranslatedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	files := make([]TranslatedFile, len(r.data[jobID]))
	copy(files, r.data[jobID])
	return files, nil
}

// Baseline returns the job's row for the baseline language.
func (r *MemoryRepo) Baseline(ctx context.Context, jobID int64) (TranslatedFile, error) {
	if err := ctx.Err(); err != nil {
		return TranslatedFile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.data[jobID] {
		if f.Language == BaselineLanguage {
			return f, nil
		}
	}
	return TranslatedFile{}, ErrNotFound
}

// DeleteByJob removes all translated files for a job.
func (r *MemoryRepo) DeleteByJob(ctx context.Context, jobID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, jobID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
