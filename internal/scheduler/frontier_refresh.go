package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// FrontierRunner computes a frontier for a set of tickers.
type FrontierRunner interface {
	Run(ctx context.Context, req optimization.RunRequest) (*optimization.Frontier, error)
}

// FrontierRefreshJob recomputes the configured frontier and stores it as the
// latest snapshot.
type FrontierRefreshJob struct {
	runner  FrontierRunner
	store   *optimization.SnapshotStore
	request optimization.RunRequest
	timeout time.Duration
	log     zerolog.Logger
}

// FrontierRefreshConfig holds configuration for the frontier refresh job
type FrontierRefreshConfig struct {
	Runner  FrontierRunner
	Store   *optimization.SnapshotStore
	Request optimization.RunRequest
	Timeout time.Duration // defaults to 5 minutes
	Log     zerolog.Logger
}

// NewFrontierRefreshJob creates a new frontier refresh job
func NewFrontierRefreshJob(cfg FrontierRefreshConfig) *FrontierRefreshJob {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &FrontierRefreshJob{
		runner:  cfg.Runner,
		store:   cfg.Store,
		request: cfg.Request,
		timeout: timeout,
		log:     cfg.Log.With().Str("job", "frontier_refresh").Logger(),
	}
}

// Name returns the job name
func (j *FrontierRefreshJob) Name() string {
	return "frontier_refresh"
}

// Run computes the frontier. A run where only some targets failed is still
// stored; a run where all failed keeps the previous snapshot.
func (j *FrontierRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	f, err := j.runner.Run(ctx, j.request)

	var fe *optimization.FrontierError
	switch {
	case err == nil:
	case errors.As(err, &fe) && !fe.AllFailed():
		j.log.Warn().
			Int("failed", len(fe.Failures)).
			Int("total", fe.Total).
			Msg("Frontier refresh completed with failed targets")
	default:
		return fmt.Errorf("frontier refresh failed: %w", err)
	}

	j.store.Save(f)
	j.log.Info().
		Str("frontier_id", f.ID).
		Int("points", len(f.Points)).
		Dur("duration", time.Since(start)).
		Msg("Frontier refreshed")
	return nil
}
