package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"friday-chat/internal/config"
	"friday-chat/internal/database"
	"friday-chat/internal/handlers"
	"friday-chat/internal/logging"
	"friday-chat/internal/metrics"
	"friday-chat/internal/middleware"
	"friday-chat/internal/router"
	"friday-chat/internal/server"
	"friday-chat/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		logging.NewOrNop(logging.Config{}).Error("invalid configuration", zap.Error(err))
		return 1
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDev || !cfg.IsProduction()})
	if err != nil {
		log = logging.NewOrNop(logging.Config{})
		log.Error("invalid LOG_LEVEL, using info", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Metrics ────
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)
	}

	// ──── Step 3: Initialize Gemini Client ────
	persona, err := services.LoadPersona(cfg.PersonaFile)
	if err != nil {
		log.Error("persona load failed", zap.Error(err))
		return 1
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.GeminiTemperature,
		Timeout:     cfg.GeminiTimeout,
		Persona:     persona,
	}, m, log)
	if err != nil {
		log.Error("Gemini client initialization failed", zap.Error(err))
		return 1
	}
	defer gemini.Close()
	log.Info("Gemini client initialized",
		zap.String("model", cfg.GeminiModel),
		zap.Bool("api_key_present", cfg.GeminiAPIKey != ""),
	)

	// ──── Step 4: Rate limit store ────
	var store middleware.Store
	switch cfg.RateLimitStore {
	case config.StoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("Redis connection failed", zap.Error(err))
			return 1
		}
		defer client.Close()
		store = middleware.NewRedisStore(client, cfg.RateLimitWindow)
		log.Info("Redis rate limit store connected")
	default:
		mem := middleware.NewMemoryStore(cfg.RateLimitWindow)
		go mem.Run(ctx)
		store = mem
	}
	limiter := middleware.NewRateLimiter(store, cfg.RateLimitMax, log, m)

	// ──── Step 5: Handlers & router ────
	chatHandler := handlers.NewChatHandler(gemini, cfg.MaxHistory, log)
	healthHandler := handlers.NewHealthHandler(cfg.GeminiAPIKey)

	r := router.New(log, m, limiter, cfg.Origins(), cfg.TrustProxy, chatHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GeminiTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("FRIDAY proxy ready",
		zap.String("addr", cfg.Addr()),
		zap.Strings("allowed_origins", cfg.Origins()),
		zap.Duration("rate_limit_window", cfg.RateLimitWindow),
		zap.Int("rate_limit_max", cfg.RateLimitMax),
		zap.String("rate_limit_store", cfg.RateLimitStore),
	)

	// ──── Step 6: Serve until signalled ────
	if err := server.Run(ctx, srv, cfg.ShutdownGrace, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}
