// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Serve mode: JSON HTTP API for thread generation and history
//   - Bot mode: Telegram front-end for thread generation
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/bot"
	"github.com/threadforge/threadforge/internal/core/assemble"
	"github.com/threadforge/threadforge/internal/core/generate"
	"github.com/threadforge/threadforge/internal/ingest"
	"github.com/threadforge/threadforge/internal/platform/config"
	"github.com/threadforge/threadforge/internal/platform/observability"
	"github.com/threadforge/threadforge/internal/server"
	db "github.com/threadforge/threadforge/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes. database may be nil when no DSN is configured.
type App struct {
	cfg          *config.Config
	database     *db.DB
	orchestrator *generate.Orchestrator
	fetcher      *ingest.Fetcher
	logger       *zerolog.Logger
}

// New creates a new App instance and wires the generation backends: the
// remote OpenAI backend first (skipped automatically when no API key is
// set), then the deterministic local pipeline as fallback.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	assembler := assemble.New(logger, nil)

	remote := generate.NewOpenAI(generate.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
		RPS:    cfg.OpenAIRPS,
	}, assembler, logger)

	local := generate.NewLocal(logger, nil)

	retry := generate.RetryConfig{
		MaxRetries:   cfg.GenerateMaxRetries,
		InitialDelay: cfg.GenerateInitialDelay,
	}

	orchestrator := generate.NewOrchestrator(logger, retry, remote, local)

	var fetcher *ingest.Fetcher
	if cfg.IngestEnabled {
		fetcher = ingest.New(&http.Client{Timeout: cfg.IngestTimeout}, cfg.IngestUserAgent, cfg.IngestMaxBytes, logger)
	}

	return &App{
		cfg:          cfg,
		database:     database,
		orchestrator: orchestrator,
		fetcher:      fetcher,
		logger:       logger,
	}
}

// StartHealthServer runs the health and metrics endpoints until ctx is
// cancelled.
func (a *App) StartHealthServer(ctx context.Context) error {
	var pinger observability.Pinger
	if a.database != nil {
		pinger = a.database
	}

	return observability.NewServer(pinger, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunServe starts the JSON API.
func (a *App) RunServe(ctx context.Context) error {
	srv := server.New(a.cfg, a.orchestrator, a.fetcher, a.database, a.logger)

	return srv.Start(ctx)
}

// RunBot starts the Telegram front-end.
func (a *App) RunBot(ctx context.Context) error {
	b, err := bot.New(a.cfg, a.orchestrator, a.database, a.logger)
	if err != nil {
		return err
	}

	return b.Run(ctx)
}
