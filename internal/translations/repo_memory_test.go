package translations

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoCreateRejectsDuplicateLanguage(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first := TranslatedFile{JobID: 7, Language: "es", Path: "processed/7/es.vtt", DurationSeconds: 1800, CreditsUsed: 1.0}
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Create(ctx, TranslatedFile{JobID: 7, Language: "es", Path: "processed/7/es-again.vtt"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Other languages and other jobs are unaffected.
	if _, err := repo.Create(ctx, TranslatedFile{JobID: 7, Language: "fr", Path: "processed/7/fr.vtt"}); err != nil {
		t.Fatalf("Create fr: %v", err)
	}
	if _, err := repo.Create(ctx, TranslatedFile{JobID: 8, Language: "es", Path: "processed/8/es.vtt"}); err != nil {
		t.Fatalf("Create other job: %v", err)
	}

	files, err := repo.ListByJob(ctx, 7)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files for job 7, got %d", len(files))
	}
}
