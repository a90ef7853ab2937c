package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/packtracker/internal/api"
	"github.com/codyseavey/packtracker/internal/config"
	"github.com/codyseavey/packtracker/internal/database"
	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/logging"
	"github.com/codyseavey/packtracker/internal/services"
	"github.com/codyseavey/packtracker/internal/stats"
	"github.com/codyseavey/packtracker/internal/store"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logging.Setup("info", "console", "packtracker")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, "packtracker")
	cfg.LogSummary()

	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DBPath, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to initialize database")
	}

	st := store.New(db)

	statsService := stats.NewService(st, st, stats.WithCache(cfg.StatsCacheSize, cfg.StatsCacheTTL))
	st.OnWrite(statsService.Invalidate)

	imports := importer.New(st, cfg.ImportWritesPerSecond)

	// Initialize snapshot service for daily value tracking
	snapshotService := services.NewSnapshotService(db, st, cfg.SnapshotHour)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start snapshot service in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Interface("panic", r).Msg("PANIC in snapshot service - restarting in 30 seconds")
					}
				}()
				snapshotService.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
				log.Info().Msg("Snapshot service restarting after panic recovery...")
			}
		}
	}()

	router := api.SetupRouter(api.Deps{
		Config:    cfg,
		Store:     st,
		Stats:     statsService,
		Importer:  imports,
		Snapshots: snapshotService,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Stop background workers
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("Server exited")
}
