// Package main provides the Canvas query agent server entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/canvasbot/canvas-agent-go/internal/agent"
	"github.com/canvasbot/canvas-agent-go/internal/buildinfo"
	"github.com/canvasbot/canvas-agent-go/internal/canvas"
	"github.com/canvasbot/canvas-agent-go/internal/config"
	"github.com/canvasbot/canvas-agent-go/internal/genai"
	"github.com/canvasbot/canvas-agent-go/internal/logger"
	"github.com/canvasbot/canvas-agent-go/internal/metrics"
	"github.com/canvasbot/canvas-agent-go/internal/ratelimit"
	"github.com/canvasbot/canvas-agent-go/internal/sentry"
	"github.com/canvasbot/canvas-agent-go/internal/storage"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger and route package-level slog calls through it
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log.Logger)
	log.WithField("version", buildinfo.Version).Info("Starting Canvas Agent Server")

	// Initialize Sentry error tracking (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
		Debug:       cfg.LogLevel == "debug",
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	} else if sentry.IsEnabled() {
		defer sentry.Flush(2 * time.Second)
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry initialized")
	}

	// Connect to database with configured conversation retention
	db, err := storage.New(cfg.SQLitePath(), cfg.ConversationRetention)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).
		WithField("retention", cfg.ConversationRetention).
		Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create Canvas API client
	canvasClient := canvas.NewClient(
		cfg.CanvasBaseURL,
		cfg.CanvasTimeout,
		cfg.CanvasPageSize,
		cfg.CanvasFanoutLimit,
	)
	canvasClient.SetMetrics(m)
	log.WithField("base_url", cfg.CanvasBaseURL).Info("Canvas client created")

	// Create LLM classifier and renderer (optional, requires Groq API key)
	classifier := genai.NewClassifier(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.IntentModel)
	classifier.SetMetrics(m)
	renderer := genai.NewRenderer(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.RenderModel)
	renderer.SetMetrics(m)
	if cfg.HasLLM() {
		log.WithField("intent_model", cfg.IntentModel).
			WithField("render_model", cfg.RenderModel).
			Info("LLM backend enabled")
	} else {
		log.Info("Groq API key not configured, running with heuristics and raw formatting only")
	}

	// Create the conversational agent
	ag := agent.New(agent.Options{
		Data:            canvasClient,
		Classifier:      classifier,
		Renderer:        renderer,
		Store:           db,
		Metrics:         m,
		Log:             log,
		ClassifyTimeout: cfg.ClassifyTimeout,
		RenderTimeout:   cfg.RenderTimeout,
	})
	log.Info("Agent created")

	// Create per-user rate limiter for the chat endpoint
	limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.UserRateLimitBurst,
		RefillRate:    cfg.UserRateLimitRefillPerSec,
		CleanupPeriod: config.RateLimiterCleanupInterval,
	})
	limiter.OnDrop(func() { m.RecordRateLimiterDrop("user") })
	defer limiter.Stop()

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, ag, db, limiter, registry, m, cfg, log)

	// Create HTTP server with timeouts sized for chat turn processing
	// See internal/config/timeouts.go for detailed explanations
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ChatHTTPRead,
		WriteTimeout: config.ChatHTTPWrite,
		IdleTimeout:  config.ChatHTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Conversation cleanup goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in conversation cleanup goroutine")
			}
		}()
		cleanupExpiredConversations(ctx, db, log)
	}()

	// Storage size metrics updater goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in storage metrics goroutine")
			}
		}()
		updateStorageMetrics(ctx, db, m, log)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop background goroutines
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
