// Package planner computes the outstanding translation work for a job and
// its estimated credit cost.
package planner

import (
	"errors"
	"strings"

	"github.com/Colman1000/tongues-of-fire/internal/translations"
)

// ErrMissingBaseline indicates a job has no baseline row to estimate from.
var ErrMissingBaseline = errors.New("missing baseline translation")

// Plan describes what a single batch should produce.
type Plan struct {
	// Delta holds the languages still to be translated, in request order.
	Delta []string
	// BaselineCredits is the cost of the baseline pass.
	BaselineCredits float64
	// EstimatedCost is the flat charge for the batch.
	EstimatedCost float64
}

// Compute derives the work plan from requested languages and existing
// translated files. The baseline language never appears in the delta, and
// languages with existing rows are skipped.
func Compute(requested []string, files []translations.TranslatedFile) (Plan, error) {
	existing := make(map[string]struct{}, len(files))
	for _, f := range files {
		existing[normalize(f.Language)] = struct{}{}
	}

	seen := map[string]struct{}{}
	delta := []string{}
	for _, lang := range requested {
		norm := normalize(lang)
		if norm == "" || norm == translations.BaselineLanguage {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		if _, done := existing[norm]; done {
			continue
		}
		delta = append(delta, norm)
	}

	var baseline *translations.TranslatedFile
	for i := range files {
		if normalize(files[i].Language) == translations.BaselineLanguage {
			baseline = &files[i]
			break
		}
	}

	if len(delta) == 0 {
		return Plan{Delta: delta}, nil
	}
	if baseline == nil {
		return Plan{}, ErrMissingBaseline
	}

	return Plan{
		Delta:           delta,
		BaselineCredits: baseline.CreditsUsed,
		EstimatedCost:   baseline.CreditsUsed * float64(len(delta)),
	}, nil
}

func normalize(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
