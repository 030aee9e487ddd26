// Package main provides the Canvas query agent server entry point.
package main

import (
	"context"
	"time"

	"github.com/canvasbot/canvas-agent-go/internal/config"
	"github.com/canvasbot/canvas-agent-go/internal/logger"
	"github.com/canvasbot/canvas-agent-go/internal/metrics"
	"github.com/canvasbot/canvas-agent-go/internal/storage"
)

// cleanupExpiredConversations periodically deletes conversation rows older
// than the configured retention.
func cleanupExpiredConversations(ctx context.Context, db *storage.DB, log *logger.Logger) {
	// Run initial cleanup after configured delay to let server stabilize
	select {
	case <-ctx.Done():
		return
	case <-time.After(config.ConversationCleanupInitialDelay):
		performConversationCleanup(ctx, db, log)
	}

	// Then run cleanup at configured interval
	ticker := time.NewTicker(config.ConversationCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performConversationCleanup(ctx, db, log)
		}
	}
}

// performConversationCleanup executes a single cleanup pass.
func performConversationCleanup(ctx context.Context, db *storage.DB, log *logger.Logger) {
	startTime := time.Now()
	log.Info("Starting conversation cleanup...")

	deleted, err := db.DeleteExpiredConversations(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to cleanup expired conversations")
		return
	}

	remaining, _ := db.CountConversations(ctx)

	// Reclaim space after large deletions
	if deleted > 0 {
		if _, err := db.Conn().ExecContext(ctx, "VACUUM"); err != nil {
			log.WithError(err).Warn("Failed to vacuum database")
		}
	}

	log.WithFields(map[string]any{
		"deleted":     deleted,
		"remaining":   remaining,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Conversation cleanup complete")
}

// updateStorageMetrics periodically updates storage size gauge metrics.
func updateStorageMetrics(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(config.MetricsUpdateInterval)
	defer ticker.Stop()

	// Run initial update immediately
	performStorageMetricsUpdate(ctx, db, m, log)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performStorageMetricsUpdate(ctx, db, m, log)
		}
	}
}

// performStorageMetricsUpdate refreshes the stored row count gauges.
func performStorageMetricsUpdate(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	if tokenCount, err := db.CountTokens(ctx); err == nil {
		m.SetStoredTokens(tokenCount)
	} else {
		log.WithError(err).Debug("Failed to count tokens for metrics")
	}
	if conversationCount, err := db.CountConversations(ctx); err == nil {
		m.SetStoredConversations(conversationCount)
	} else {
		log.WithError(err).Debug("Failed to count conversations for metrics")
	}
}
