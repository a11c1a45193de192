package translations

import "time"

// BaselineLanguage is the language of the uploaded source subtitles. The
// baseline row carries the cost of a single translation pass and is used to
// estimate the cost of further languages.
const BaselineLanguage = "en"

// TranslatedFile represents one produced subtitle artifact for a job.
type TranslatedFile struct {
	ID              int64
	JobID           int64
	Language        string
	Path            string
	DurationSeconds int
	CreditsUsed     float64
	CreatedAt       time.Time
}
