package audit

import (
	"context"

	"github.com/Colman1000/tongues-of-fire/internal/shared/telemetry"
)

// Recorder writes audit events best-effort. Failures are logged and
// swallowed so the audit trail never blocks the operation it describes.
type Recorder struct {
	repo Repo
}

// NewRecorder constructs a Recorder over the given repo.
func NewRecorder(repo Repo) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores an audit event, logging instead of returning on failure.
func (r *Recorder) Record(ctx context.Context, actor string, action Action, details map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	if !ValidAction(action) {
		telemetry.Warn("audit.unknown_action", map[string]any{
			"actor":  actor,
			"action": string(action),
		})
		return
	}
	if err := r.repo.Create(ctx, Event{Actor: actor, Action: action, Details: details}); err != nil {
		telemetry.Error("audit.record.failed", map[string]any{
			"actor":  actor,
			"action": string(action),
			"err":    err.Error(),
		})
	}
}
