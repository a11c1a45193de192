package credits

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu      sync.Mutex
	balance float64
}

// NewMemoryStore constructs a MemoryStore with an opening balance.
func NewMemoryStore(opening float64) *MemoryStore {
	return &MemoryStore{balance: opening}
}

// Balance reads the current balance.
func (s *MemoryStore) Balance(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

// Adjust applies a relative delta and returns the new balance.
func (s *MemoryStore) Adjust(ctx context.Context, delta float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += delta
	return s.balance, nil
}

var _ Store = (*MemoryStore)(nil)
