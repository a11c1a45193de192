// Package translator defines the machine translation provider contract used
// by the processing loop.
package translator

import (
	"context"
	"fmt"
	"strings"
)

// Client translates a block of subtitle text from one language to another.
type Client interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Placeholder is a deterministic stand-in provider for environments without
// translator credentials. It tags each cue text line with the target
// language instead of translating it.
type Placeholder struct{}

// NewPlaceholder returns a Placeholder client.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Translate tags text lines with the target language.
func (p *Placeholder) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if targetLang == "" {
		return "", fmt.Errorf("target language is required")
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(trimmed, "-->") || isCueCounter(trimmed) {
			continue
		}
		lines[i] = "[" + targetLang + "] " + line
	}
	return strings.Join(lines, "\n"), nil
}

func isCueCounter(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var _ Client = (*Placeholder)(nil)
