// Package main is the entry point for the frontier service.
//
// The service computes minimum-variance efficient frontiers over HTTP and
// periodically refreshes a configured frontier from downloaded price history.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/aristath/frontier/internal/config"
	"github.com/aristath/frontier/internal/modules/optimization"
	optimizationhandlers "github.com/aristath/frontier/internal/modules/optimization/handlers"
	"github.com/aristath/frontier/internal/scheduler"
	"github.com/aristath/frontier/internal/server"
	"github.com/aristath/frontier/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting frontier service")

	yahooClient := yahoo.NewClient(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout, log)
	service := optimization.NewService(yahooClient, cfg.Frontier.PeriodsPerYear, cfg.Frontier.MaxWorkers, log)
	store := optimization.NewSnapshotStore()

	optimizerHandler := optimizationhandlers.NewHandler(
		service,
		store,
		cfg.Frontier.MaxWorkers,
		cfg.Frontier.LookbackYears,
		log,
	)

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Modules:   []server.RouteRegistrar{optimizerHandler},
		Snapshots: store,
	})

	sched := scheduler.New(log)
	if len(cfg.Frontier.Tickers) > 0 {
		if err := registerFrontierRefresh(cfg, sched, service, store, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to register frontier refresh")
		}
	} else {
		log.Info().Msg("FRONTIER_TICKERS not set, scheduled refresh disabled")
	}
	sched.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
