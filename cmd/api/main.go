package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/pvhub/internal/api"
	"github.com/timmy/pvhub/internal/app"
	"github.com/timmy/pvhub/internal/config"
	"github.com/timmy/pvhub/internal/logger"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx := appLogger.WithContext(context.Background())
	a, err := app.New(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize services")
	}
	defer a.Close()

	deps := api.Dependencies{
		Content: a.Content,
		Catalog: a.Catalog,
		Summary: a.Summary,
		Runner:  a.Runner,
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		deps.DB = sqlDB
	}

	var stopScheduler func()
	if cfg.Scheduler.Enabled {
		scheduler, err := a.NewScheduler()
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to create scheduler")
		}
		scheduler.Start(ctx)
		deps.Scheduler = scheduler
		stopScheduler = func() {
			select {
			case <-scheduler.Stop().Done():
			case <-time.After(30 * time.Second):
				appLogger.Warn("Scheduled run did not stop in time")
			}
		}
	} else {
		appLogger.Info("Scheduler disabled")
	}
	if cfg.Server.AdminToken == "" {
		appLogger.Warn("ADMIN_TOKEN is not set; admin endpoints will reject every request")
	}

	router := api.SetupRouter(deps, &cfg.Server)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if stopScheduler != nil {
		stopScheduler()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
