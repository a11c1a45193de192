package audit

import "context"

// ListQuery filters and paginates audit events.
type ListQuery struct {
	Page        int
	PageSize    int
	ActorSearch string
	Actions     []Action
	SortBy      string // "createdAt", "actor", or "action"
	SortOrder   string // "asc" or "desc"
}

// Repo defines persistence operations for audit events.
type Repo interface {
	Create(ctx context.Context, event Event) error
	// List returns a page of events plus the total count for the filter.
	List(ctx context.Context, q ListQuery) ([]Event, int, error)
}
