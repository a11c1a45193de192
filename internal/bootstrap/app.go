// Package bootstrap wires configuration into services, handlers, and the
// background scheduler.
package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/credits"
	"github.com/Colman1000/tongues-of-fire/internal/downloads"
	"github.com/Colman1000/tongues-of-fire/internal/joblogs"
	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/processor"
	"github.com/Colman1000/tongues-of-fire/internal/shared/config"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/db"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	localstore "github.com/Colman1000/tongues-of-fire/internal/shared/storage/object/local"
	s3store "github.com/Colman1000/tongues-of-fire/internal/shared/storage/object/s3"
	"github.com/Colman1000/tongues-of-fire/internal/translations"
	"github.com/Colman1000/tongues-of-fire/internal/translator"
	"github.com/Colman1000/tongues-of-fire/internal/translator/deepl"
	"github.com/Colman1000/tongues-of-fire/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	JobsRepo  jobs.Repo
	FilesRepo translations.Repo
	LogsRepo  joblogs.Repo
	AuditRepo audit.Repo

	CreditsService   *credits.Service
	AuditRecorder    *audit.Recorder
	JobsService      *jobs.Service
	DownloadsService *downloads.Service
	Translator       translator.Client

	Scheduler *processor.Scheduler
}

// Build prepares shared dependencies and the HTTP router for the API
// process. When DATABASE_URL is empty everything runs on in-memory repos,
// which keeps local development and tests free of infrastructure.
func Build(cfg config.Config) (*App, error) {
	return build(cfg, db.DefaultServerOptions())
}

// BuildWorker is Build with a pool sized for the single-worker
// processing loop.
func BuildWorker(cfg config.Config) (*App, error) {
	return build(cfg, db.DefaultWorkerOptions())
}

func build(cfg config.Config, dbOpts db.Options) (*App, error) {
	ctx := context.Background()

	var sqlDB *sql.DB
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(dbOpts))
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		sqlDB = conn
	} else {
		log.Printf("DATABASE_URL is empty, using in-memory repositories")
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if sqlDB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: sqlDB}
		app.FilesRepo = &translations.PGRepo{DB: sqlDB}
		app.LogsRepo = &joblogs.PGRepo{DB: sqlDB}
		app.AuditRepo = &audit.PGRepo{DB: sqlDB}
		app.CreditsService = credits.NewService(&credits.PGStore{DB: sqlDB})
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.FilesRepo = translations.NewMemoryRepo()
		app.LogsRepo = joblogs.NewMemoryRepo()
		app.AuditRepo = audit.NewMemoryRepo()
		app.CreditsService = credits.NewService(credits.NewMemoryStore(0))
	}

	app.AuditRecorder = audit.NewRecorder(app.AuditRepo)
	app.Translator = buildTranslator(cfg)

	app.JobsService = &jobs.Service{
		Jobs:         app.JobsRepo,
		Files:        app.FilesRepo,
		Logs:         app.LogsRepo,
		Credits:      app.CreditsService,
		Audit:        app.AuditRecorder,
		Store:        store,
		BlockSeconds: cfg.BlockSeconds,
		CostPerBlock: cfg.CostPerBlock,
	}
	app.DownloadsService = &downloads.Service{
		Jobs:  app.JobsRepo,
		Files: app.FilesRepo,
		Audit: app.AuditRecorder,
		Store: store,
	}
	app.Scheduler = &processor.Scheduler{
		Jobs:         app.JobsRepo,
		Files:        app.FilesRepo,
		Logs:         app.LogsRepo,
		Credits:      app.CreditsService,
		Audit:        app.AuditRecorder,
		Store:        store,
		Translator:   app.Translator,
		Interval:     cfg.PollInterval,
		BlockSeconds: cfg.BlockSeconds,
		CostPerBlock: cfg.CostPerBlock,
	}

	app.Router = server.NewRouter(server.Deps{
		Config:    cfg,
		Jobs:      jobs.NewHandler(app.JobsService),
		Uploads:   uploads.NewHandler(store),
		Downloads: downloads.NewHandler(app.DownloadsService),
		Credits:   credits.NewHandler(app.CreditsService, app.AuditRecorder, cfg.RechargeToken),
		Audit:     audit.NewHandler(app.AuditRepo),
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildTranslator(cfg config.Config) translator.Client {
	if strings.TrimSpace(cfg.TranslatorAPIKey) == "" {
		log.Printf("TRANSLATOR_API_KEY is empty, using placeholder translator")
		return translator.NewPlaceholder()
	}
	return deepl.New(deepl.Options{
		BaseURL:      cfg.TranslatorBaseURL,
		APIKey:       cfg.TranslatorAPIKey,
		RateLimitRPM: cfg.TranslatorRPM,
	})
}
