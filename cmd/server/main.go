package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/evpulse/internal/config"
	"github.com/stwalsh4118/evpulse/internal/database"
	"github.com/stwalsh4118/evpulse/internal/handlers"
	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/logger"
	"github.com/stwalsh4118/evpulse/internal/preset"
	"github.com/stwalsh4118/evpulse/internal/repository"
	"github.com/stwalsh4118/evpulse/internal/scheduler"
	"github.com/stwalsh4118/evpulse/internal/services"
	"github.com/stwalsh4118/evpulse/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	version         = "0.1.0"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting EV Pulse API", map[string]interface{}{
		"version":     version,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"source":      cfg.Dataset.Source,
	})

	ctx := context.Background()

	// The readiness probe pings the database only when the dataset lives there
	var pinger handlers.Pinger
	var source loader.Source

	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})

		repo := repository.NewVehicleRepository(db, cfg.Dataset.Table)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare vehicle table", err, map[string]interface{}{
				"table": cfg.Dataset.Table,
			})
		}
		pinger = db
		source = repository.NewDatabaseSource(repo, cfg.Dataset.Table)
	case config.SourceURL:
		source = loader.NewHTTPSource(cfg.Dataset.URL, cfg.Dataset.FetchTimeout)
	default:
		source = loader.NewFileSource(cfg.Dataset.Path)
	}

	var defaultPreset *preset.Preset
	if cfg.Dataset.DefaultPreset != "" {
		defaultPreset, err = preset.Load(cfg.Dataset.DefaultPreset)
		if err != nil {
			log.Fatal("Failed to load default preset", err, map[string]interface{}{
				"path": cfg.Dataset.DefaultPreset,
			})
		}
		log.Info("Default preset loaded", map[string]interface{}{
			"name": defaultPreset.Name,
		})
	}

	// Initialize store and service layers
	dashboardService := services.NewDashboardService(
		source,
		store.New(cfg.Dashboard.PageSize),
		log,
		services.Options{
			Preset:        defaultPreset,
			MaxChartItems: cfg.Dashboard.MaxChartItems,
		},
	)

	// The initial load runs in the background; requests get 503 until it completes
	loadID := dashboardService.ReloadAsync(ctx)
	log.Info("Initial dataset load started", map[string]interface{}{
		"load_id": loadID,
		"source":  source.Name(),
	})

	reloadScheduler := scheduler.New(cfg.Dataset.ReloadSchedule, dashboardService, log)
	if err := reloadScheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", err, nil)
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Service: dashboardService,
		Log:     log,
		DB:      pinger,
		Origins: cfg.CORS.Origins,
		Env:     cfg.Server.Env,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	reloadScheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
