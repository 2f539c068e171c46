// Package main is the entry point for the Quasar analysis service. It wires
// the state-vector analysis engine to an HTTP API, archives completed runs
// in sqlite, and prunes the archive on a daily schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/quasar/internal/config"
	"github.com/aristath/quasar/internal/database"
	"github.com/aristath/quasar/internal/modules/analysis"
	"github.com/aristath/quasar/internal/modules/history"
	"github.com/aristath/quasar/internal/modules/report"
	"github.com/aristath/quasar/internal/scheduler"
	"github.com/aristath/quasar/internal/server"
	"github.com/aristath/quasar/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Quasar")

	// History database (archived analysis runs)
	historyDB, err := database.New(database.Config{
		Path: cfg.HistoryDBPath(),
		Name: "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	historyRepo, err := history.NewRepository(historyDB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history repository")
	}

	// Engine services
	analysisService := analysis.NewService(cfg.MaxQubits, log)
	reportService := report.NewService(log)

	// Background retention pruning
	sched := scheduler.New(historyRepo, cfg.HistoryRetentionDays, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	srv := server.New(server.Config{
		Log:             log,
		Config:          cfg,
		HistoryDB:       historyDB,
		AnalysisService: analysisService,
		ReportService:   reportService,
		HistoryRepo:     historyRepo,
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

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
