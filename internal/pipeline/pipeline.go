// Package pipeline runs one leaderboard refresh: load teams, fetch scores, aggregate, rank,
// render and write.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/cp-leaderboard/internal/scoreboard"
)

// Config holds the run's fixed paths.
type Config struct {
	TeamsFile   string
	OutputPath  string
	ContentType string
}

// Result summarizes a completed run.
type Result struct {
	Location string
	Board    scoreboard.Board
	Warnings []scoreboard.DurationWarning
}

// Pipeline wires the stages of a single run.
type Pipeline struct {
	cfg      Config
	loader   TeamLoader
	fetcher  Fetcher
	renderer Renderer
	store    BlobStore
	recorder Recorder
	clock    Clock
	logger   *zap.Logger
}

// New constructs a Pipeline.
func New(
	cfg Config,
	loader TeamLoader,
	fetcher Fetcher,
	renderer Renderer,
	store BlobStore,
	recorder Recorder,
	clock Clock,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		loader:   loader,
		fetcher:  fetcher,
		renderer: renderer,
		store:    store,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
	}
}

// Run performs the full refresh once. Fetch failures never fail the run; a missing team list,
// a render failure or a write failure does.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := p.clock.Now()
	result, err := p.run(ctx)
	finished := p.clock.Now()
	p.recorder.ObserveRun(finished, finished.Sub(start), err == nil)
	return result, err
}

func (p *Pipeline) run(ctx context.Context) (Result, error) {
	ids, err := p.loader.Load(p.cfg.TeamsFile)
	if err != nil {
		return Result{}, fmt.Errorf("load teams: %w", err)
	}
	p.logger.Info("Loaded team list", zap.String("path", p.cfg.TeamsFile), zap.Int("entries", len(ids)))

	agg := scoreboard.NewAggregator()
	for _, id := range ids {
		if agg.Seen(id) {
			p.logger.Debug("Skipping duplicate team", zap.String("team", id))
			continue
		}
		payload := p.fetcher.Fetch(ctx, id)
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("fetch team %q: %w", id, err)
		}
		p.recorder.ObserveFetch(payload.HasData())
		if payload.HasData() {
			p.logger.Debug("Fetched team scores", zap.String("team", id), zap.Int("images", len(payload.Records)))
		} else {
			p.logger.Warn("No score data for team", zap.String("team", id), zap.Error(payload.Err))
		}
		agg.Add(payload)
	}

	board, warnings := agg.Build()
	for _, w := range warnings {
		p.logger.Warn("Ignoring malformed duration",
			zap.String("team", w.TeamID),
			zap.String("image", w.Image),
			zap.String("duration", w.Raw),
		)
	}
	p.recorder.ObserveDurationWarnings(len(warnings))
	board.Teams = scoreboard.Rank(board.Teams)
	p.recorder.ObserveBoard(len(board.Teams), len(board.Images))

	var page bytes.Buffer
	if err := p.renderer.Render(&page, board); err != nil {
		return Result{}, fmt.Errorf("render leaderboard: %w", err)
	}
	location, err := p.store.PutObject(ctx, p.cfg.OutputPath, p.cfg.ContentType, &page)
	if err != nil {
		return Result{}, fmt.Errorf("write leaderboard: %w", err)
	}
	p.logger.Info("Leaderboard written",
		zap.String("location", location),
		zap.Int("teams", len(board.Teams)),
		zap.Int("images", len(board.Images)),
	)
	return Result{Location: location, Board: board, Warnings: warnings}, nil
}
