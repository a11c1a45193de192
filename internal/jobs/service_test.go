package jobs

import (
	"context"
	"strings"
	"testing"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/credits"
	"github.com/Colman1000/tongues-of-fire/internal/joblogs"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object/local"
	"github.com/Colman1000/tongues-of-fire/internal/subtitle"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:04,000\nHello there.\n\n2\n00:29:58,000 --> 00:29:59,500\nGoodbye.\n"

func newTestService(t *testing.T, balance float64) (*Service, *audit.MemoryRepo) {
	t.Helper()
	auditRepo := audit.NewMemoryRepo()
	return &Service{
		Jobs:         NewMemoryRepo(),
		Files:        translations.NewMemoryRepo(),
		Logs:         joblogs.NewMemoryRepo(),
		Credits:      credits.NewService(credits.NewMemoryStore(balance)),
		Audit:        audit.NewRecorder(auditRepo),
		Store:        local.New(t.TempDir()),
		BlockSeconds: subtitle.DefaultBlockSeconds,
		CostPerBlock: subtitle.DefaultCostPerBlock,
	}, auditRepo
}

func uploadSample(t *testing.T, svc *Service, key, content string) {
	t.Helper()
	if _, err := svc.Store.SaveWithKey(context.Background(), key, "text/srt", strings.NewReader(content)); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
}

func TestIngestSRTCreatesBaselineAndQueuesJob(t *testing.T) {
	svc, auditRepo := newTestService(t, 10)
	ctx := context.Background()
	uploadSample(t, svc, "uploads/translate/abc/movie.srt", sampleSRT)

	results, err := svc.Ingest(ctx, "ops", []string{"es", "fr"}, []IngestFile{
		{Name: "movie.srt", Path: "uploads/translate/abc/movie.srt"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(results) != 1 || results[0].Status != "queued" {
		t.Fatalf("unexpected results %+v", results)
	}

	job, err := svc.Jobs.GetByID(ctx, results[0].JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != StatusBatched {
		t.Fatalf("expected batched job, got %s", job.Status)
	}
	if job.SourceSrtPath != "uploads/translate/abc/movie.srt" {
		t.Fatalf("srt upload must stay the loop input, got %q", job.SourceSrtPath)
	}
	if job.Name != "movie" {
		t.Fatalf("expected job name without extension, got %q", job.Name)
	}

	baseline, err := svc.Files.Baseline(ctx, job.ID)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if baseline.Path != "uploads/translate/abc/english.vtt" {
		t.Fatalf("unexpected baseline path %q", baseline.Path)
	}
	// 1799 seconds lands in the second 900s block.
	if baseline.CreditsUsed != 1.0 {
		t.Fatalf("expected baseline cost 1.0, got %v", baseline.CreditsUsed)
	}

	vtt, err := object.ReadAll(ctx, svc.Store, baseline.Path)
	if err != nil {
		t.Fatalf("read baseline: %v", err)
	}
	if !strings.HasPrefix(string(vtt), "WEBVTT") {
		t.Fatal("baseline artifact must be VTT")
	}

	events, _, err := auditRepo.List(ctx, audit.ListQuery{Actions: []audit.Action{audit.ActionJobCreated}})
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one JOB_CREATED event, got %d", len(events))
	}
}

func TestIngestVTTDerivesSRTInput(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()
	vttContent := subtitle.ToVTT(sampleSRT)
	uploadSample(t, svc, "uploads/translate/xyz/movie.vtt", vttContent)

	results, err := svc.Ingest(ctx, "ops", []string{"es"}, []IngestFile{
		{Name: "movie.vtt", Path: "uploads/translate/xyz/movie.vtt"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if results[0].Status != "queued" {
		t.Fatalf("unexpected result %+v", results[0])
	}

	job, err := svc.Jobs.GetByID(ctx, results[0].JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.SourceSrtPath != "uploads/translate/xyz/source.srt" {
		t.Fatalf("expected derived source.srt, got %q", job.SourceSrtPath)
	}

	baseline, err := svc.Files.Baseline(ctx, job.ID)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if baseline.Path != "uploads/translate/xyz/movie.vtt" {
		t.Fatalf("vtt upload must stay the baseline, got %q", baseline.Path)
	}

	srt, err := object.ReadAll(ctx, svc.Store, job.SourceSrtPath)
	if err != nil {
		t.Fatalf("read derived srt: %v", err)
	}
	if strings.Contains(string(srt), "WEBVTT") {
		t.Fatal("derived srt must not carry the VTT header")
	}
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	svc, _ := newTestService(t, 10)

	results, err := svc.Ingest(context.Background(), "ops", []string{"es"}, []IngestFile{
		{Name: "notes.txt", Path: "uploads/translate/abc/notes.txt"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if results[0].Status != "rejected" {
		t.Fatalf("expected rejection, got %+v", results[0])
	}
}

func TestGetExcludesBaselineFromTotal(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, Job{Name: "movie", Status: StatusCompleted, TargetLanguages: []string{"es"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, f := range []translations.TranslatedFile{
		{JobID: job.ID, Language: "en", CreditsUsed: 1.0},
		{JobID: job.ID, Language: "es", CreditsUsed: 1.0},
		{JobID: job.ID, Language: "fr", CreditsUsed: 1.0},
	} {
		if _, err := svc.Files.Create(ctx, f); err != nil {
			t.Fatalf("Create file: %v", err)
		}
	}

	detail, err := svc.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.TotalCreditsUsed != 2.0 {
		t.Fatalf("expected total 2.0 excluding baseline, got %v", detail.TotalCreditsUsed)
	}
}

func TestAppendLanguagesQueuesDelta(t *testing.T) {
	svc, auditRepo := newTestService(t, 10)
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, Job{Name: "movie", Status: StatusCompleted, TargetLanguages: []string{"es"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: job.ID, Language: "en", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create baseline: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: job.ID, Language: "es", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create es: %v", err)
	}

	results, err := svc.AppendLanguages(ctx, "ops", []int64{job.ID}, []string{"fr", "de"})
	if err != nil {
		t.Fatalf("AppendLanguages: %v", err)
	}
	if results[0].Status != "queued" {
		t.Fatalf("expected queued, got %+v", results[0])
	}

	updated, err := svc.Jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Status != StatusBatched {
		t.Fatalf("expected batched, got %s", updated.Status)
	}
	want := map[string]bool{"es": true, "fr": true, "de": true}
	if len(updated.TargetLanguages) != len(want) {
		t.Fatalf("unexpected merged languages %v", updated.TargetLanguages)
	}
	for _, lang := range updated.TargetLanguages {
		if !want[lang] {
			t.Fatalf("unexpected language %q", lang)
		}
	}

	events, _, err := auditRepo.List(ctx, audit.ListQuery{Actions: []audit.Action{audit.ActionJobLanguagesAppended}})
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one append event, got %d", len(events))
	}

	// Admission is only checked here; the actual charge happens in the
	// processing loop.
	balance, err := svc.Credits.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 10 {
		t.Fatalf("append must not deduct credits, balance is %v", balance)
	}
}

func TestAppendLanguagesSkipsByReason(t *testing.T) {
	svc, _ := newTestService(t, 1.0)
	ctx := context.Background()

	processing, err := svc.Jobs.Create(ctx, Job{Name: "busy", Status: StatusProcessing})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done, err := svc.Jobs.Create(ctx, Job{Name: "done", Status: StatusCompleted, TargetLanguages: []string{"es"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: done.ID, Language: "en", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create baseline: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: done.ID, Language: "es", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create es: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: done.ID, Language: "fr", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create fr: %v", err)
	}

	expensive, err := svc.Jobs.Create(ctx, Job{Name: "expensive", Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Files.Create(ctx, translations.TranslatedFile{JobID: expensive.ID, Language: "en", CreditsUsed: 1.0}); err != nil {
		t.Fatalf("Create baseline: %v", err)
	}

	results, err := svc.AppendLanguages(ctx, "ops", []int64{processing.ID, done.ID, expensive.ID, 999}, []string{"es", "fr"})
	if err != nil {
		t.Fatalf("AppendLanguages: %v", err)
	}

	byID := map[int64]AppendResult{}
	for _, r := range results {
		byID[r.JobID] = r
	}
	if byID[processing.ID].Reason != "job is processing" {
		t.Fatalf("unexpected reason %q", byID[processing.ID].Reason)
	}
	if byID[done.ID].Reason != "languages already translated" {
		t.Fatalf("unexpected reason %q", byID[done.ID].Reason)
	}
	// Two new languages at 1.0 each against a 1.0 balance.
	if byID[expensive.ID].Reason != "insufficient credits" {
		t.Fatalf("unexpected reason %q", byID[expensive.ID].Reason)
	}
	if byID[999].Reason != "job not found" {
		t.Fatalf("unexpected reason %q", byID[999].Reason)
	}
}

func TestDeleteSkipsProcessingJobs(t *testing.T) {
	svc, auditRepo := newTestService(t, 10)
	ctx := context.Background()

	busy, err := svc.Jobs.Create(ctx, Job{Name: "busy", Status: StatusProcessing})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done, err := svc.Jobs.Create(ctx, Job{Name: "done", Status: StatusCompleted, OriginalPath: "uploads/translate/abc/movie.srt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	uploadSample(t, svc, "uploads/translate/abc/movie.srt", sampleSRT)

	result, err := svc.Delete(ctx, "ops", []int64{busy.ID, done.ID})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != done.ID {
		t.Fatalf("unexpected deleted %v", result.Deleted)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != busy.ID {
		t.Fatalf("unexpected skipped %v", result.Skipped)
	}

	if _, err := svc.Jobs.GetByID(ctx, done.ID); err != ErrNotFound {
		t.Fatalf("expected deleted job gone, got %v", err)
	}
	if _, err := svc.Jobs.GetByID(ctx, busy.ID); err != nil {
		t.Fatalf("processing job must survive, got %v", err)
	}
	if _, err := object.ReadAll(ctx, svc.Store, "uploads/translate/abc/movie.srt"); err == nil {
		t.Fatal("expected stored artifact removed")
	}

	events, _, err := auditRepo.List(ctx, audit.ListQuery{Actions: []audit.Action{audit.ActionJobDeleted}})
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one delete event, got %d", len(events))
	}
}

func TestDeleteReportsUnknownIDsAsSkipped(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	done, err := svc.Jobs.Create(ctx, Job{Name: "done", Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := svc.Delete(ctx, "ops", []int64{done.ID, 999})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != done.ID {
		t.Fatalf("unexpected deleted %v", result.Deleted)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != 999 {
		t.Fatalf("expected unknown id skipped, got %v", result.Skipped)
	}
}

func TestBuildReportSumsChargeLog(t *testing.T) {
	svc, _ := newTestService(t, 7.5)
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, Job{Name: "movie", Status: StatusCompleted, TargetLanguages: []string{"es"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	charge := 2.0
	if err := svc.Logs.Create(ctx, joblogs.Entry{JobID: job.ID, CreditsUsed: &charge, Message: "batch charged"}); err != nil {
		t.Fatalf("Create log: %v", err)
	}
	if err := svc.Logs.Create(ctx, joblogs.Entry{JobID: job.ID, Message: "note"}); err != nil {
		t.Fatalf("Create log: %v", err)
	}

	report, err := svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if len(report.Jobs) != 1 {
		t.Fatalf("expected one row, got %d", len(report.Jobs))
	}
	if report.Jobs[0].CreditsUsed != 2.0 {
		t.Fatalf("expected 2.0 credits, got %v", report.Jobs[0].CreditsUsed)
	}
	if report.TotalCreditsUsed != 2.0 {
		t.Fatalf("expected total 2.0, got %v", report.TotalCreditsUsed)
	}
	if report.AvailableUnits != 7.5 {
		t.Fatalf("expected balance 7.5, got %v", report.AvailableUnits)
	}
}

func TestBuildReportPrependsBaselineLanguage(t *testing.T) {
	svc, _ := newTestService(t, 5)
	ctx := context.Background()

	if _, err := svc.Jobs.Create(ctx, Job{Name: "movie", Status: StatusCompleted, TargetLanguages: []string{"es", "fr"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	report, err := svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if len(report.Jobs) != 1 {
		t.Fatalf("expected one row, got %d", len(report.Jobs))
	}
	got := report.Jobs[0].TargetLanguages
	want := []string{translations.BaselineLanguage, "es", "fr"}
	if len(got) != len(want) {
		t.Fatalf("expected languages %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected languages %v, got %v", want, got)
		}
	}
}
