package joblogs

import "time"

// Entry is a per-job log line. CreditsUsed is set on charge entries and nil
// on informational ones.
type Entry struct {
	ID          int64
	JobID       int64
	CreditsUsed *float64
	Message     string
	CreatedAt   time.Time
}
