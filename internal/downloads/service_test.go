package downloads

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object/local"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
)

func newTestService(t *testing.T) (*Service, *audit.MemoryRepo) {
	t.Helper()
	auditRepo := audit.NewMemoryRepo()
	return &Service{
		Jobs:  jobs.NewMemoryRepo(),
		Files: translations.NewMemoryRepo(),
		Audit: audit.NewRecorder(auditRepo),
		Store: local.New(t.TempDir()),
	}, auditRepo
}

func TestBundleZipsTranslatedFiles(t *testing.T) {
	svc, auditRepo := newTestService(t)
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, jobs.Job{Name: "my: movie", Status: jobs.StatusCompleted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for lang, content := range map[string]string{
		"en": "WEBVTT\n\nenglish",
		"es": "WEBVTT\n\nspanish",
	} {
		key := "processed/" + lang + ".vtt"
		if _, err := svc.Store.SaveWithKey(ctx, key, "text/vtt", strings.NewReader(content)); err != nil {
			t.Fatalf("seed file: %v", err)
		}
		if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: job.ID, Language: lang, Path: key}); err != nil {
			t.Fatalf("Create file: %v", err)
		}
	}

	signedURL, err := svc.Bundle(ctx, "ops", []int64{job.ID})
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}

	idx := strings.Index(signedURL, "downloads/")
	if idx < 0 {
		t.Fatalf("signed url does not reference the archive: %s", signedURL)
	}
	rc, err := svc.Store.Open(ctx, signedURL[idx:])
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["my- movie/my- movie.en.vtt"] || !names["my- movie/my- movie.es.vtt"] {
		t.Fatalf("unexpected entries %v", names)
	}

	events, _, err := auditRepo.List(ctx, audit.ListQuery{Actions: []audit.Action{audit.ActionJobDownloaded}})
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one download event, got %d", len(events))
	}
}

func TestBundleRejectsEmptySelection(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Bundle(context.Background(), "ops", nil); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestBundleUnknownJobs(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Bundle(context.Background(), "ops", []int64{42}); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBundleRequiresTranslatedFiles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, jobs.Job{Name: "empty", Status: jobs.StatusPending})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Bundle(ctx, "ops", []int64{job.ID}); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
