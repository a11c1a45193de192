// Package downloads bundles translated subtitles into downloadable archives.
package downloads

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
)

const downloadExpires = 15 * time.Minute

var unsafeNameChars = regexp.MustCompile(`[/\\?%*:|"<>]`)

// Service builds zip bundles of translated files.
type Service struct {
	Jobs  jobs.Repo
	Files translations.Repo
	Audit *audit.Recorder
	Store object.ObjectStore
}

// Bundle zips every translated file of the given jobs, uploads the archive,
// and returns a signed download URL.
func (s *Service) Bundle(ctx context.Context, actor string, jobIDs []int64) (string, error) {
	if len(jobIDs) == 0 {
		return "", fmt.Errorf("%w: at least one job id is required", jobs.ErrInvalidInput)
	}

	selected, err := s.Jobs.ListByIDs(ctx, jobIDs)
	if err != nil {
		return "", err
	}
	if len(selected) == 0 {
		return "", jobs.ErrNotFound
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := 0

	for _, job := range selected {
		files, err := s.Files.ListByJob(ctx, job.ID)
		if err != nil {
			return "", err
		}

		jobDir := sanitizeName(job.Name)
		for _, f := range files {
			content, err := object.ReadAll(ctx, s.Store, f.Path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", f.Path, err)
			}

			entryName := path.Join(jobDir, fmt.Sprintf("%s.%s%s", jobDir, f.Language, path.Ext(f.Path)))
			w, err := zw.Create(entryName)
			if err != nil {
				return "", fmt.Errorf("zip entry %s: %w", entryName, err)
			}
			if _, err := w.Write(content); err != nil {
				return "", fmt.Errorf("zip write %s: %w", entryName, err)
			}
			entries++
		}
	}

	if entries == 0 {
		return "", fmt.Errorf("%w: selected jobs have no translated files", jobs.ErrInvalidInput)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("close zip: %w", err)
	}

	key := fmt.Sprintf("downloads/translations-%d.zip", time.Now().Unix())
	if _, err := s.Store.SaveWithKey(ctx, key, "application/zip", bytes.NewReader(buf.Bytes())); err != nil {
		return "", fmt.Errorf("store archive: %w", err)
	}

	url, err := s.Store.SignedDownloadURL(ctx, key, downloadExpires)
	if err != nil {
		return "", fmt.Errorf("sign archive url: %w", err)
	}

	ids := make([]int64, 0, len(selected))
	for _, job := range selected {
		ids = append(ids, job.ID)
	}
	s.Audit.Record(ctx, actor, audit.ActionJobDownloaded, map[string]any{
		"jobIds": ids,
		"key":    key,
	})

	return url, nil
}

func sanitizeName(name string) string {
	cleaned := unsafeNameChars.ReplaceAllString(name, "-")
	if cleaned == "" {
		cleaned = "job"
	}
	return cleaned
}
