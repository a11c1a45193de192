package credits

import "context"

// Store holds the system-wide credit balance. A single row backs the whole
// installation.
type Store interface {
	Balance(ctx context.Context) (float64, error)
	// Adjust applies a relative delta to the balance and returns the new
	// balance. Negative deltas deduct, positive deltas recharge.
	Adjust(ctx context.Context, delta float64) (float64, error)
}
