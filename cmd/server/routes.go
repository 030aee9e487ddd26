// Package main provides the Canvas query agent server entry point.
package main

import (
	"context"
	"net/http"

	"github.com/canvasbot/canvas-agent-go/internal/agent"
	"github.com/canvasbot/canvas-agent-go/internal/buildinfo"
	"github.com/canvasbot/canvas-agent-go/internal/config"
	"github.com/canvasbot/canvas-agent-go/internal/logger"
	"github.com/canvasbot/canvas-agent-go/internal/metrics"
	"github.com/canvasbot/canvas-agent-go/internal/ratelimit"
	"github.com/canvasbot/canvas-agent-go/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	UserID   string           `json:"user_id"`
	Messages []agent.ChatTurn `json:"messages" binding:"required"`
}

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, ag *agent.Agent, db *storage.DB, limiter *ratelimit.PerKeyLimiter, registry *prometheus.Registry, m *metrics.Metrics, cfg *config.Config, log *logger.Logger) {
	// Root endpoint - service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "canvas-agent",
			"version": buildinfo.Version,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		tokenCount, _ := db.CountTokens(c.Request.Context())
		conversationCount, _ := db.CountConversations(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"storage": gin.H{
				"tokens":        tokenCount,
				"conversations": conversationCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat endpoint
	router.POST("/api/chat", chatHandler(ag, limiter, m, log))

	// Prometheus metrics endpoint (Basic Auth when a password is configured)
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}

// chatHandler processes a conversational turn against the user's Canvas data.
func chatHandler(ag *agent.Agent, limiter *ratelimit.PerKeyLimiter, m *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordHTTPError("bad_request", "/api/chat")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if len(req.Messages) == 0 {
			m.RecordHTTPError("bad_request", "/api/chat")
			c.JSON(http.StatusBadRequest, gin.H{"error": "messages must not be empty"})
			return
		}

		if !limiter.Allow(req.UserID) {
			log.WithField("user_id", req.UserID).Warn("Chat request rate limited")
			m.RecordHTTPError("rate_limited", "/api/chat")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.TurnProcessing)
		defer cancel()

		resp := ag.ProcessTurn(ctx, req.UserID, req.Messages)
		c.JSON(http.StatusOK, resp)
	}
}
