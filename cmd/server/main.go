package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/auth"
	"github.com/SAP-F-2025/interview-service/internal/cache"
	"github.com/SAP-F-2025/interview-service/internal/catalog"
	"github.com/SAP-F-2025/interview-service/internal/config"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/handlers"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/SAP-F-2025/interview-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	if err := run(cfg, logger, slogger); err != nil {
		logger.LogError(err, "Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger, slogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := pkg.NewDatabase(cfg)
	db, err := database.Open()
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	if sqlDB, err := db.DB(); err == nil {
		go pollDBStats(ctx, m, sqlDB.Stats)
	}

	cacheService := cache.NewNoopCache()
	if cfg.Cache.Enabled {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", "error", err)
		} else {
			defer client.Close()
			cacheService = cache.NewRedisCache(client, slogger)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var generator feedback.Generator
	openaiGen, err := feedback.NewOpenAIGenerator(cfg.Feedback.OpenAI(), slogger)
	if err != nil {
		logger.Warn("Feedback generation disabled", "error", err)
		generator = feedback.NewUnavailableGenerator()
	} else {
		generator = openaiGen
	}

	manager := services.NewServiceManager(services.Dependencies{
		Repo:           postgres.NewRepository(db),
		Cache:          cacheService,
		EventPublisher: publisher,
		Generator:      generator,
		Metrics:        m,
		Logger:         slogger,
		Attempts:       services.AttemptServiceConfig{QuestionsTTL: cfg.Cache.QuestionsTTL},
	})

	if cfg.SeedFile != "" {
		seeded, err := catalog.NewSeeder(manager.Interview(), slogger).SeedFile(ctx, cfg.SeedFile)
		if err != nil {
			return err
		}
		logger.Info("Interview catalog seeded", "file", cfg.SeedFile, "created", len(seeded))
	}

	var identity auth.IdentityProvider
	switch cfg.Auth.Provider {
	case "header":
		logger.Warn("Using header identity provider; do not expose this server publicly")
		identity = auth.NewHeaderProvider(cfg.Auth.GetAdminIDs()...)
	default:
		identity = auth.NewCasdoorProvider(cfg.Auth, slogger)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.NewHandlerManager(manager, logger), identity, m, registry, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Interview service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pollDBStats(ctx context.Context, m *metrics.Metrics, stats func() sql.DBStats) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RecordDBStats(stats())
		}
	}
}
