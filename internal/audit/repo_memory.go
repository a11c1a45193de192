package audit

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	events []Event
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Create stores an audit event.
func (r *MemoryRepo) Create(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	r.nextID++
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.events = append(r.events, event)
	return nil
}

// List returns a page of events plus the total count for the filter.
func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]Event, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matched := []Event{}
	for _, e := range r.events {
		if search := strings.TrimSpace(q.ActorSearch); search != "" &&
			!strings.Contains(strings.ToLower(e.Actor), strings.ToLower(search)) {
			continue
		}
		if len(q.Actions) > 0 && !containsAction(q.Actions, e.Action) {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	asc := strings.EqualFold(q.SortOrder, "asc")
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "actor":
			less = matched[i].Actor < matched[j].Actor
		case "action":
			less = matched[i].Action < matched[j].Action
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})

	total := len(matched)

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []Event{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func containsAction(actions []Action, a Action) bool {
	for _, candidate := range actions {
		if candidate == a {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
