package credits

import (
	"context"
	"database/sql"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Balance reads the current balance.
func (s *PGStore) Balance(ctx context.Context) (float64, error) {
	const query = `SELECT available_units FROM system_credits WHERE id = 1`
	var balance float64
	if err := s.DB.QueryRowContext(ctx, query).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// Adjust applies a relative delta in a single statement so concurrent
// adjustments never lose updates.
func (s *PGStore) Adjust(ctx context.Context, delta float64) (float64, error) {
	const query = `
UPDATE system_credits
SET available_units = available_units + $1, updated_at = now()
WHERE id = 1
RETURNING available_units`
	var balance float64
	if err := s.DB.QueryRowContext(ctx, query, delta).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

var _ Store = (*PGStore)(nil)
