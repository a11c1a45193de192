package jobs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/credits"
	"github.com/Colman1000/tongues-of-fire/internal/joblogs"
	"github.com/Colman1000/tongues-of-fire/internal/planner"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	"github.com/Colman1000/tongues-of-fire/internal/shared/telemetry"
	"github.com/Colman1000/tongues-of-fire/internal/subtitle"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
)

// Service implements job lifecycle operations.
type Service struct {
	Jobs         Repo
	Files        translations.Repo
	Logs         joblogs.Repo
	Credits      *credits.Service
	Audit        *audit.Recorder
	Store        object.ObjectStore
	BlockSeconds int
	CostPerBlock float64
}

// IngestFile names one uploaded subtitle to turn into a job.
type IngestFile struct {
	Name string
	Path string
}

// IngestResult reports the outcome for one ingested file.
type IngestResult struct {
	JobID    int64   `json:"jobId,omitempty"`
	FileName string  `json:"fileName"`
	Status   string  `json:"status"`
	Error    string  `json:"error,omitempty"`
	Credits  float64 `json:"baselineCredits,omitempty"`
}

// Ingest creates one job per uploaded subtitle file. The uploaded content is
// normalized into both formats: the VTT copy becomes the baseline artifact
// and the SRT copy feeds the translation loop.
func (s *Service) Ingest(ctx context.Context, actor string, languages []string, files []IngestFile) ([]IngestResult, error) {
	languages = normalizeLanguages(languages)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", ErrInvalidInput)
	}

	results := make([]IngestResult, 0, len(files))
	for _, file := range files {
		result := s.ingestOne(ctx, actor, languages, file)
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) ingestOne(ctx context.Context, actor string, languages []string, file IngestFile) IngestResult {
	ext := strings.ToLower(path.Ext(file.Path))
	if ext != ".srt" && ext != ".vtt" {
		return IngestResult{FileName: file.Name, Status: "rejected", Error: "only .srt and .vtt files are supported"}
	}

	name := strings.TrimSuffix(file.Name, path.Ext(file.Name))
	if name == "" {
		name = file.Name
	}

	job, err := s.Jobs.Create(ctx, Job{
		Name:            name,
		OriginalPath:    file.Path,
		Status:          StatusPending,
		TargetLanguages: languages,
	})
	if err != nil {
		return IngestResult{FileName: file.Name, Status: "failed", Error: "failed to create job"}
	}

	raw, err := object.ReadAll(ctx, s.Store, file.Path)
	if err != nil {
		s.failIngest(ctx, job.ID, "uploaded file could not be read")
		return IngestResult{JobID: job.ID, FileName: file.Name, Status: "failed", Error: "uploaded file could not be read"}
	}

	content := string(raw)
	baseDir := path.Dir(file.Path)

	var baselinePath, sourceSrtPath string
	if ext == ".srt" {
		// The upload is the loop's SRT input. Store a VTT copy as the
		// baseline artifact.
		sourceSrtPath = file.Path
		baselinePath = path.Join(baseDir, "english.vtt")
		vtt := subtitle.ToVTT(content)
		if _, err := s.Store.SaveWithKey(ctx, baselinePath, "text/vtt", strings.NewReader(vtt)); err != nil {
			s.failIngest(ctx, job.ID, "failed to store baseline subtitles")
			return IngestResult{JobID: job.ID, FileName: file.Name, Status: "failed", Error: "failed to store baseline subtitles"}
		}
	} else {
		// The upload already is the baseline. Derive the SRT input.
		baselinePath = file.Path
		sourceSrtPath = path.Join(baseDir, "source.srt")
		srt := subtitle.ToSRT(content)
		if _, err := s.Store.SaveWithKey(ctx, sourceSrtPath, "text/srt", strings.NewReader(srt)); err != nil {
			s.failIngest(ctx, job.ID, "failed to store source subtitles")
			return IngestResult{JobID: job.ID, FileName: file.Name, Status: "failed", Error: "failed to store source subtitles"}
		}
	}

	duration := subtitle.Duration(content)
	cost := subtitle.Cost(duration, s.BlockSeconds, s.CostPerBlock)

	if _, err := s.Files.Create(ctx, translations.TranslatedFile{
		JobID:           job.ID,
		Language:        translations.BaselineLanguage,
		Path:            baselinePath,
		DurationSeconds: duration,
		CreditsUsed:     cost,
	}); err != nil {
		s.failIngest(ctx, job.ID, "failed to record baseline subtitles")
		return IngestResult{JobID: job.ID, FileName: file.Name, Status: "failed", Error: "failed to record baseline subtitles"}
	}

	if err := s.Jobs.SetBatched(ctx, job.ID, sourceSrtPath); err != nil {
		s.failIngest(ctx, job.ID, "failed to queue job")
		return IngestResult{JobID: job.ID, FileName: file.Name, Status: "failed", Error: "failed to queue job"}
	}

	s.Audit.Record(ctx, actor, audit.ActionJobCreated, map[string]any{
		"jobId":     job.ID,
		"name":      job.Name,
		"languages": languages,
	})

	return IngestResult{JobID: job.ID, FileName: file.Name, Status: "queued", Credits: cost}
}

func (s *Service) failIngest(ctx context.Context, jobID int64, message string) {
	if err := s.Jobs.SetStatus(ctx, jobID, StatusFailed); err != nil {
		telemetry.Error("jobs.ingest.mark_failed", map[string]any{"job_id": jobID, "err": err.Error()})
	}
	if err := s.Logs.Create(ctx, joblogs.Entry{JobID: jobID, Message: message}); err != nil {
		telemetry.Error("jobs.ingest.log_failed", map[string]any{"job_id": jobID, "err": err.Error()})
	}
}

// JobDetail bundles a job with its produced files.
type JobDetail struct {
	Job              Job
	Files            []translations.TranslatedFile
	TotalCreditsUsed float64
}

// Get returns a job with its translated files. The baseline pass is not
// counted toward TotalCreditsUsed.
func (s *Service) Get(ctx context.Context, id int64) (JobDetail, error) {
	job, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return JobDetail{}, err
	}
	files, err := s.Files.ListByJob(ctx, id)
	if err != nil {
		return JobDetail{}, err
	}

	var total float64
	for _, f := range files {
		if f.Language == translations.BaselineLanguage {
			continue
		}
		total += f.CreditsUsed
	}
	return JobDetail{Job: job, Files: files, TotalCreditsUsed: total}, nil
}

// AppendResult reports the outcome of appending languages to one job.
type AppendResult struct {
	JobID  int64  `json:"jobId"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// AppendLanguages queues additional target languages on existing jobs. A
// running balance is tracked across the batch so the whole request is
// admitted or skipped consistently against the credits available right now.
func (s *Service) AppendLanguages(ctx context.Context, actor string, jobIDs []int64, languages []string) ([]AppendResult, error) {
	languages = normalizeLanguages(languages)
	if len(jobIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one job id is required", ErrInvalidInput)
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("%w: at least one language is required", ErrInvalidInput)
	}

	balance, err := s.Credits.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}

	results := make([]AppendResult, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		job, err := s.Jobs.GetByID(ctx, jobID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				results = append(results, AppendResult{JobID: jobID, Status: "skipped", Reason: "job not found"})
				continue
			}
			return nil, err
		}
		if job.Status == StatusProcessing {
			results = append(results, AppendResult{JobID: jobID, Status: "skipped", Reason: "job is processing"})
			continue
		}

		files, err := s.Files.ListByJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		plan, err := planner.Compute(languages, files)
		if err != nil {
			if errors.Is(err, planner.ErrMissingBaseline) {
				results = append(results, AppendResult{JobID: jobID, Status: "skipped", Reason: "job has no baseline subtitles"})
				continue
			}
			return nil, err
		}
		if len(plan.Delta) == 0 {
			results = append(results, AppendResult{JobID: jobID, Status: "skipped", Reason: "languages already translated"})
			continue
		}
		if balance < plan.EstimatedCost {
			results = append(results, AppendResult{JobID: jobID, Status: "skipped", Reason: "insufficient credits"})
			continue
		}
		balance -= plan.EstimatedCost

		merged := mergeLanguages(job.TargetLanguages, languages)
		if err := s.Jobs.SetLanguages(ctx, jobID, merged, StatusBatched); err != nil {
			return nil, err
		}

		s.Audit.Record(ctx, actor, audit.ActionJobLanguagesAppended, map[string]any{
			"jobId":     jobID,
			"languages": plan.Delta,
			"estimate":  plan.EstimatedCost,
		})

		results = append(results, AppendResult{JobID: jobID, Status: "queued"})
	}
	return results, nil
}

// DeleteResult reports the outcome of a delete request.
type DeleteResult struct {
	Deleted []int64 `json:"deleted"`
	Skipped []int64 `json:"skipped"`
}

// Delete removes jobs and their stored artifacts. Processing jobs are
// skipped; storage deletes are best-effort.
func (s *Service) Delete(ctx context.Context, actor string, jobIDs []int64) (DeleteResult, error) {
	if len(jobIDs) == 0 {
		return DeleteResult{}, fmt.Errorf("%w: at least one job id is required", ErrInvalidInput)
	}

	jobsToDelete, err := s.Jobs.ListByIDs(ctx, jobIDs)
	if err != nil {
		return DeleteResult{}, err
	}

	result := DeleteResult{Deleted: []int64{}, Skipped: []int64{}}

	// Requested ids with no matching job are reported as skipped so the
	// response accounts for the whole request.
	found := make(map[int64]struct{}, len(jobsToDelete))
	for _, job := range jobsToDelete {
		found[job.ID] = struct{}{}
	}
	seen := map[int64]struct{}{}
	for _, id := range jobIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			result.Skipped = append(result.Skipped, id)
		}
	}

	deletable := []int64{}
	for _, job := range jobsToDelete {
		if job.Status == StatusProcessing {
			result.Skipped = append(result.Skipped, job.ID)
			continue
		}

		files, err := s.Files.ListByJob(ctx, job.ID)
		if err != nil {
			return DeleteResult{}, err
		}
		keys := []string{job.OriginalPath, job.SourceSrtPath}
		for _, f := range files {
			keys = append(keys, f.Path)
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := s.Store.Delete(ctx, key); err != nil {
				telemetry.Warn("jobs.delete.storage", map[string]any{
					"job_id": job.ID,
					"key":    key,
					"err":    err.Error(),
				})
			}
		}

		if err := s.Files.DeleteByJob(ctx, job.ID); err != nil {
			return DeleteResult{}, err
		}

		deletable = append(deletable, job.ID)
		result.Deleted = append(result.Deleted, job.ID)
	}

	if err := s.Jobs.DeleteByIDs(ctx, deletable); err != nil {
		return DeleteResult{}, err
	}

	if len(result.Deleted) > 0 {
		s.Audit.Record(ctx, actor, audit.ActionJobDeleted, map[string]any{
			"jobIds": result.Deleted,
		})
	}
	return result, nil
}

// ReportRow is a per-job summary of charged credits.
type ReportRow struct {
	JobID           int64      `json:"jobId"`
	Name            string     `json:"name"`
	Status          Status     `json:"status"`
	TargetLanguages []string   `json:"targetLanguages"`
	CreditsUsed     float64    `json:"creditsUsed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Report summarizes all jobs with their charged credits.
type Report struct {
	Jobs             []ReportRow `json:"jobs"`
	TotalCreditsUsed float64     `json:"totalCreditsUsed"`
	AvailableUnits   float64     `json:"availableUnits"`
}

// BuildReport aggregates job histories against the charge log.
func (s *Service) BuildReport(ctx context.Context) (Report, error) {
	all, err := s.Jobs.List(ctx)
	if err != nil {
		return Report{}, err
	}
	totals, err := s.Logs.SumCreditsByJob(ctx)
	if err != nil {
		return Report{}, err
	}
	balance, err := s.Credits.Balance(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Jobs: make([]ReportRow, 0, len(all)), AvailableUnits: balance}
	for _, job := range all {
		used := totals[job.ID]
		// The baseline language leads the list; stored target languages
		// never include it.
		languages := append([]string{translations.BaselineLanguage}, job.TargetLanguages...)
		report.Jobs = append(report.Jobs, ReportRow{
			JobID:           job.ID,
			Name:            job.Name,
			Status:          job.Status,
			TargetLanguages: languages,
			CreditsUsed:     used,
			CompletedAt:     job.CompletedAt,
			CreatedAt:       job.CreatedAt,
		})
		report.TotalCreditsUsed += used
	}
	return report, nil
}

func normalizeLanguages(languages []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, lang := range languages {
		norm := strings.ToLower(strings.TrimSpace(lang))
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func mergeLanguages(existing, requested []string) []string {
	return normalizeLanguages(append(append([]string{}, existing...), requested...))
}
