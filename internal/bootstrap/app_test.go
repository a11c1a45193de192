package bootstrap

import (
	"testing"

	"github.com/Colman1000/tongues-of-fire/internal/shared/config"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:          "8080",
		LocalStoreDir: t.TempDir(),
	}
}

func TestBuildWiresMemoryBackedApp(t *testing.T) {
	app, err := Build(memoryConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.Router == nil {
		t.Fatal("expected router")
	}
	if app.DB != nil {
		t.Fatal("expected no database connection without DATABASE_URL")
	}
	if app.Scheduler == nil || app.Scheduler.Translator == nil {
		t.Fatal("expected scheduler with translator")
	}
}

func TestBuildWorkerWiresScheduler(t *testing.T) {
	app, err := BuildWorker(memoryConfig(t))
	if err != nil {
		t.Fatalf("BuildWorker: %v", err)
	}
	if app.Scheduler == nil {
		t.Fatal("expected scheduler")
	}
	if app.JobsService == nil {
		t.Fatal("expected jobs service")
	}
}
