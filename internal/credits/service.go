package credits

import (
	"context"
	"fmt"
)

// Service exposes admission checks and balance mutations over a Store.
//
// CheckAdmission and Deduct are intentionally separate calls rather than one
// atomic check-and-deduct. A batch that passes admission may still drive the
// balance slightly negative if a recharge or concurrent deduction lands in
// between; a single shared balance makes that overdraft bounded and
// acceptable.
type Service struct {
	store Store
}

// NewService constructs a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Balance returns the current available units.
func (s *Service) Balance(ctx context.Context) (float64, error) {
	return s.store.Balance(ctx)
}

// CheckAdmission reports whether the balance covers the estimate. It never
// mutates the balance.
func (s *Service) CheckAdmission(ctx context.Context, estimate float64) (bool, float64, error) {
	balance, err := s.store.Balance(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("read balance: %w", err)
	}
	return balance >= estimate, balance, nil
}

// Deduct removes amount from the balance and returns the new balance.
func (s *Service) Deduct(ctx context.Context, amount float64) (float64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("deduct amount must be non-negative")
	}
	return s.store.Adjust(ctx, -amount)
}

// Credit adds amount to the balance and returns the new balance.
func (s *Service) Credit(ctx context.Context, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive")
	}
	return s.store.Adjust(ctx, amount)
}
