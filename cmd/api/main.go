package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moodjournal/backend/internal/advice"
	"moodjournal/backend/internal/cache"
	"moodjournal/backend/internal/config"
	"moodjournal/backend/internal/db"
	"moodjournal/backend/internal/logger"
	"moodjournal/backend/internal/metrics"
	"moodjournal/backend/internal/openrouter"
	"moodjournal/backend/internal/server"
	"moodjournal/backend/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Mode: cfg.LogMode, Redact: cfg.LogRedact, HashSalt: cfg.LogHashSalt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err.Error())
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		log.Fatal("Database connect failed", "error", err.Error())
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal("Database ping failed", "error", err.Error())
	}
	if err := store.ValidateSchema(ctx, pool); err != nil {
		log.Fatal("Database schema mismatch", "error", err.Error())
	}

	provider, err := openrouter.New(openrouter.Config{
		BaseURL:        cfg.OpenRouterBaseURL,
		APIKey:         cfg.OpenRouterAPIKey,
		Referer:        cfg.OpenRouterReferer,
		Title:          cfg.OpenRouterTitle,
		ConnectTimeout: cfg.AIConnectTimeout,
		ReadTimeout:    cfg.AIReadTimeout,
		RateLimit:      cfg.AIRateLimitPerSec,
		Burst:          cfg.AIRateBurst,
	})
	if err != nil {
		log.Fatal("Provider client init failed", "error", err.Error())
	}

	m := metrics.New()
	opts := []advice.OrchestratorOption{advice.WithMetrics(m)}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, model cooldown disabled", "error", err.Error())
		} else {
			defer rdb.Close()
			opts = append(opts, advice.WithCooldown(cache.NewModelCooldown(rdb, log, cfg.AIModelCooldown)))
		}
	}
	orchestrator := advice.NewOrchestrator(provider, log.With("service", "Orchestrator"), opts...)

	users := store.NewUserRepository(pool)
	moods := store.NewMoodRepository(pool)
	service := advice.NewService(advice.Deps{
		Users:     users,
		Moods:     moods,
		Snapshots: store.NewAnalysisStore(pool),
		Runner:    orchestrator,
		Log:       log.With("service", "AdviceService"),
		Metrics:   m,
	}, advice.Config{
		Models: advice.Models{
			AnalysisPrimary:   cfg.OpenRouterAnalysisModel,
			AnalysisSecondary: cfg.OpenRouterAnalysisFallbackModel,
			PlanPrimary:       cfg.OpenRouterModel,
			PlanFallback:      cfg.OpenRouterFallbackModel,
			PlanAuxiliary:     cfg.OpenRouterAuxModels,
		},
		PlanHorizonDays: cfg.PlanHorizonDays,
		PlanLanguage:    cfg.PlanLanguage,
	})

	app := server.New(cfg, server.Deps{Users: users, Moods: moods, Advice: service, Log: log})
	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Mood journal API listening", "addr", httpServer.Addr, "env", cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err.Error())
	}
}
