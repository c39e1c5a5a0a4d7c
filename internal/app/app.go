// Package app initializes and holds the services a leaderboard run needs, acting as a
// dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/JakeFAU/cp-leaderboard/internal/config"
	collyfetcher "github.com/JakeFAU/cp-leaderboard/internal/fetcher/colly"
	"github.com/JakeFAU/cp-leaderboard/internal/id/uuid"
	"github.com/JakeFAU/cp-leaderboard/internal/logging"
	"github.com/JakeFAU/cp-leaderboard/internal/metrics"
	"github.com/JakeFAU/cp-leaderboard/internal/pipeline"
	"github.com/JakeFAU/cp-leaderboard/internal/policy/ratelimit"
	"github.com/JakeFAU/cp-leaderboard/internal/render"
	"github.com/JakeFAU/cp-leaderboard/internal/storage/gcs"
	"github.com/JakeFAU/cp-leaderboard/internal/storage/local"
	"github.com/JakeFAU/cp-leaderboard/internal/storage/memory"
	"github.com/JakeFAU/cp-leaderboard/internal/teams"
)

// App holds the shared services for one process invocation.
type App struct {
	cfg       config.Config
	fs        afero.Fs
	logger    *zap.Logger
	runID     string
	storage   pipeline.BlobStore
	recorder  *metrics.Recorder
	gcsClient *storage.Client
}

// Options overrides how New builds services. Zero values select the production defaults.
type Options struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// GetConfig returns the validated configuration.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// GetFs returns the filesystem used for the team list and local output.
func (a *App) GetFs() afero.Fs {
	return a.fs
}

// GetLogger returns the run-scoped logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetRecorder returns the run's metrics recorder.
func (a *App) GetRecorder() *metrics.Recorder {
	return a.recorder
}

// New builds the logger, run ID, output provider and metrics recorder from cfg. It fails fast
// if any of them cannot be initialized.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	logger := opts.Logger
	if logger == nil {
		l, err := logging.New(cfg.Logging.Development)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	runID, err := uuid.New().NewRunID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	logger = logging.ForRun(logger, runID)

	a := &App{
		cfg:      cfg,
		fs:       fs,
		logger:   logger,
		runID:    runID,
		recorder: metrics.New(),
	}

	switch cfg.Output.Provider {
	case config.OutputLocal:
		store, err := local.New(fs, local.Config{BaseDir: cfg.Output.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("init local output: %w", err)
		}
		logger.Debug("Using local output provider", zap.String("path", a.PagePath()))
		a.storage = store
	case config.OutputGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.Output.GCS.Bucket})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("init gcs output: %w", err)
		}
		logger.Debug("Using GCS output provider", zap.String("bucket", cfg.Output.GCS.Bucket))
		a.gcsClient = client
		a.storage = store
	case config.OutputMemory:
		logger.Debug("Using in-memory output provider. The page will be discarded.")
		a.storage = memory.NewBlobStore()
	default:
		return nil, fmt.Errorf("unknown output provider: %s", cfg.Output.Provider)
	}

	return a, nil
}

// PagePath is where the local provider writes the page.
func (a *App) PagePath() string {
	return filepath.Join(a.cfg.Output.BaseDir, a.cfg.Output.Path)
}

// NewPipeline wires the run stages from configuration.
func (a *App) NewPipeline() (*pipeline.Pipeline, error) {
	renderer, err := render.New(render.Config{
		Title:          a.cfg.Render.Title,
		Heading:        a.cfg.Render.Heading,
		RefreshSeconds: a.cfg.Render.RefreshSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: a.cfg.HTTP.RequestsPerSecond,
		Burst:             a.cfg.HTTP.Burst,
		OnDelay:           a.recorder.ObserveRateLimitDelay,
	})
	fetcher := collyfetcher.New(collyfetcher.Config{
		BaseURL:   a.cfg.API.BaseURL,
		TeamParam: a.cfg.API.TeamParam,
		UserAgent: a.cfg.HTTP.UserAgent,
		Timeout:   a.cfg.HTTP.Timeout,
		Limiter:   limiter,
	})
	loader := teams.NewLoader(a.fs, teams.Config{SkipBlank: a.cfg.Teams.SkipBlank})

	return pipeline.New(
		pipeline.Config{
			TeamsFile:   a.cfg.Teams.File,
			OutputPath:  a.cfg.Output.Path,
			ContentType: render.ContentType,
		},
		loader,
		fetcher,
		renderer,
		a.storage,
		a.recorder,
		systemClock{},
		a.logger,
	), nil
}

// FlushMetrics writes the recorder to the configured textfile, if any.
func (a *App) FlushMetrics() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	return a.recorder.WriteTextfile(a.cfg.Metrics.Textfile)
}

// Close releases clients and flushes the logger.
func (a *App) Close() {
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("Error closing GCS client", zap.Error(err))
		}
	}
	// Syncing stderr fails on some platforms; there is nowhere left to report it.
	_ = a.logger.Sync()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
