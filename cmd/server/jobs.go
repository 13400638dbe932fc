package main

import (
	"github.com/aristath/frontier/internal/config"
	"github.com/aristath/frontier/internal/modules/optimization"
	"github.com/aristath/frontier/internal/scheduler"
	"github.com/rs/zerolog"
)

// registerFrontierRefresh schedules the configured frontier and runs it once
// in the background so /api/optimizer/latest is populated after startup.
func registerFrontierRefresh(
	cfg *config.Config,
	sched *scheduler.Scheduler,
	runner scheduler.FrontierRunner,
	store *optimization.SnapshotStore,
	log zerolog.Logger,
) error {
	targets, err := optimization.TargetGrid(cfg.Frontier.TargetMin, cfg.Frontier.TargetMax, cfg.Frontier.TargetSteps)
	if err != nil {
		return err
	}

	job := scheduler.NewFrontierRefreshJob(scheduler.FrontierRefreshConfig{
		Runner: runner,
		Store:  store,
		Request: optimization.RunRequest{
			Tickers:         cfg.Frontier.Tickers,
			LookbackYears:   cfg.Frontier.LookbackYears,
			Targets:         targets,
			RiskFreeRate:    cfg.Frontier.RiskFreeRate,
			IncludeRiskFree: cfg.Frontier.IncludeRiskFree,
		},
		Log: log,
	})

	if cfg.Frontier.RefreshSchedule != "" {
		if err := sched.AddJob(cfg.Frontier.RefreshSchedule, job); err != nil {
			return err
		}
	}

	go func() {
		if err := sched.RunNow(job); err != nil {
			log.Error().Err(err).Msg("Initial frontier refresh failed")
		}
	}()
	return nil
}
