package audit

import "time"

// Action identifies an auditable event.
type Action string

const (
	ActionLoginSuccess         Action = "LOGIN_SUCCESS"
	ActionLoginFailure         Action = "LOGIN_FAILURE"
	ActionJobCreated           Action = "JOB_CREATED"
	ActionJobDeleted           Action = "JOB_DELETED"
	ActionJobDownloaded        Action = "JOB_DOWNLOADED"
	ActionJobLanguagesAppended Action = "JOB_LANGUAGES_APPENDED"
	ActionJobFailed            Action = "JOB_FAILED"
	ActionCreditsRecharged     Action = "CREDITS_RECHARGED"
)

var validActions = map[Action]struct{}{
	ActionLoginSuccess:         {},
	ActionLoginFailure:         {},
	ActionJobCreated:           {},
	ActionJobDeleted:           {},
	ActionJobDownloaded:        {},
	ActionJobLanguagesAppended: {},
	ActionJobFailed:            {},
	ActionCreditsRecharged:     {},
}

// ValidAction reports whether a is a known action.
func ValidAction(a Action) bool {
	_, ok := validActions[a]
	return ok
}

// Event is a recorded audit entry.
type Event struct {
	ID        int64          `json:"id"`
	Actor     string         `json:"actor"`
	Action    Action         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
