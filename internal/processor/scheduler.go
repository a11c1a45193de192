// Package processor runs the background translation loop. One batch is
// claimed and worked per tick; languages within a batch run concurrently.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/credits"
	"github.com/Colman1000/tongues-of-fire/internal/joblogs"
	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/planner"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	"github.com/Colman1000/tongues-of-fire/internal/shared/telemetry"
	"github.com/Colman1000/tongues-of-fire/internal/subtitle"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
	"github.com/Colman1000/tongues-of-fire/internal/translator"
)

// Scheduler drives the processing loop.
type Scheduler struct {
	Jobs       jobs.Repo
	Files      translations.Repo
	Logs       joblogs.Repo
	Credits    *credits.Service
	Audit      *audit.Recorder
	Store      object.ObjectStore
	Translator translator.Client

	Interval     time.Duration
	TempDir      string
	BlockSeconds int
	CostPerBlock float64
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			telemetry.Error("processor.tick.failed", map[string]any{"err": err.Error()})
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick processes at most one batched job. Returned errors are infrastructure
// failures; per-job failures are absorbed into the job's own state.
func (s *Scheduler) Tick(ctx context.Context) error {
	job, found, err := s.Jobs.NextBatched(ctx)
	if err != nil {
		return fmt.Errorf("next batched: %w", err)
	}
	if !found {
		return nil
	}

	files, err := s.Files.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("list files job=%d: %w", job.ID, err)
	}

	plan, err := planner.Compute(job.TargetLanguages, files)
	if err != nil {
		if errors.Is(err, planner.ErrMissingBaseline) {
			s.failJob(ctx, job, "no baseline subtitles to estimate from")
			return nil
		}
		return fmt.Errorf("plan job=%d: %w", job.ID, err)
	}

	if len(plan.Delta) == 0 {
		if err := s.Jobs.Complete(ctx, job.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("complete job=%d: %w", job.ID, err)
		}
		telemetry.Info("processor.job.complete", map[string]any{"job_id": job.ID, "reason": "nothing to translate"})
		return nil
	}

	admitted, balance, err := s.Credits.CheckAdmission(ctx, plan.EstimatedCost)
	if err != nil {
		return fmt.Errorf("check admission job=%d: %w", job.ID, err)
	}
	if !admitted {
		// The job stays batched and is retried on a later tick, typically
		// after a recharge.
		telemetry.Warn("processor.job.deferred", map[string]any{
			"job_id":   job.ID,
			"estimate": plan.EstimatedCost,
			"balance":  balance,
		})
		return nil
	}

	claimed, err := s.Jobs.Claim(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("claim job=%d: %w", job.ID, err)
	}
	if !claimed {
		return nil
	}

	s.work(ctx, job, plan)
	return nil
}

func (s *Scheduler) work(ctx context.Context, job jobs.Job, plan planner.Plan) {
	tempDir, err := os.MkdirTemp(s.TempDir, fmt.Sprintf("job-%d-", job.ID))
	if err != nil {
		s.failJob(ctx, job, "failed to allocate work directory")
		return
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			telemetry.Warn("processor.tempdir.cleanup", map[string]any{
				"job_id": job.ID,
				"dir":    tempDir,
				"err":    err.Error(),
			})
		}
	}()

	raw, err := object.ReadAll(ctx, s.Store, job.SourceSrtPath)
	if err != nil {
		s.failJob(ctx, job, "failed to download source subtitles")
		return
	}
	source := string(raw)

	sourcePath := filepath.Join(tempDir, "source.srt")
	if err := os.WriteFile(sourcePath, raw, 0o644); err != nil {
		s.failJob(ctx, job, "failed to stage source subtitles")
		return
	}

	telemetry.Info("processor.job.start", map[string]any{
		"job_id":    job.ID,
		"languages": plan.Delta,
		"estimate":  plan.EstimatedCost,
	})

	// Languages run independently. A failing sibling must not cancel the
	// others, so no shared cancellation context is used here.
	var g errgroup.Group
	for _, lang := range plan.Delta {
		lang := lang
		g.Go(func() error {
			if err := s.translateLanguage(ctx, job, tempDir, source, lang); err != nil {
				return fmt.Errorf("%s: %w", lang, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Finished languages keep their rows and stored artifacts.
		s.failJob(ctx, job, err.Error())
		return
	}

	if _, err := s.Credits.Deduct(ctx, plan.EstimatedCost); err != nil {
		s.failJob(ctx, job, "failed to charge credits")
		return
	}

	charge := plan.EstimatedCost
	if err := s.Logs.Create(ctx, joblogs.Entry{
		JobID:       job.ID,
		CreditsUsed: &charge,
		Message:     fmt.Sprintf("translated %s", strings.Join(plan.Delta, ", ")),
	}); err != nil {
		telemetry.Error("processor.charge_log.failed", map[string]any{"job_id": job.ID, "err": err.Error()})
	}

	if err := s.Jobs.Complete(ctx, job.ID, time.Now().UTC()); err != nil {
		telemetry.Error("processor.complete.failed", map[string]any{"job_id": job.ID, "err": err.Error()})
		return
	}

	telemetry.Info("processor.job.complete", map[string]any{
		"job_id":  job.ID,
		"charged": plan.EstimatedCost,
	})
}

func (s *Scheduler) translateLanguage(ctx context.Context, job jobs.Job, tempDir, source, lang string) error {
	translated, err := s.Translator.Translate(ctx, source, translations.BaselineLanguage, lang)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	vtt := subtitle.ToVTT(translated)

	stagedPath := filepath.Join(tempDir, lang+".vtt")
	if err := os.WriteFile(stagedPath, []byte(vtt), 0o644); err != nil {
		return fmt.Errorf("stage output: %w", err)
	}

	key := path.Join("processed", fmt.Sprintf("%d", job.ID), lang+".vtt")
	staged, err := os.Open(stagedPath)
	if err != nil {
		return fmt.Errorf("open staged output: %w", err)
	}
	defer staged.Close()

	if _, err := s.Store.SaveWithKey(ctx, key, "text/vtt", staged); err != nil {
		return fmt.Errorf("store output: %w", err)
	}

	duration := subtitle.Duration(translated)
	cost := subtitle.Cost(duration, s.BlockSeconds, s.CostPerBlock)

	if _, err := s.Files.Create(ctx, translations.TranslatedFile{
		JobID:           job.ID,
		Language:        lang,
		Path:            key,
		DurationSeconds: duration,
		CreditsUsed:     cost,
	}); err != nil {
		return fmt.Errorf("record output: %w", err)
	}
	return nil
}

func (s *Scheduler) failJob(ctx context.Context, job jobs.Job, message string) {
	if err := s.Jobs.SetStatus(ctx, job.ID, jobs.StatusFailed); err != nil {
		telemetry.Error("processor.fail.status", map[string]any{"job_id": job.ID, "err": err.Error()})
	}
	if err := s.Logs.Create(ctx, joblogs.Entry{JobID: job.ID, Message: message}); err != nil {
		telemetry.Error("processor.fail.log", map[string]any{"job_id": job.ID, "err": err.Error()})
	}
	s.Audit.Record(ctx, "system", audit.ActionJobFailed, map[string]any{
		"jobId":  job.ID,
		"reason": message,
	})
	telemetry.Error("processor.job.failed", map[string]any{"job_id": job.ID, "reason": message})
}
