// Package config provides centralized timeout constants for the application.
//
// These values are tuned around two external dependencies:
//   - The Canvas REST API, which should fail fast rather than hang a chat turn
//   - The Groq chat-completion API, where rendering quality depends on
//     letting the completion finish
package config

import "time"

// Chat turn timeouts
const (
	// TurnProcessing is the timeout for processing a single chat turn.
	// Covers classification, Canvas fan-out, and conversational rendering.
	TurnProcessing = 60 * time.Second

	// ChatHTTPRead is the HTTP server read timeout for chat requests.
	ChatHTTPRead = 10 * time.Second

	// ChatHTTPWrite is the HTTP server write timeout.
	// Should accommodate TurnProcessing + response serialization.
	ChatHTTPWrite = 65 * time.Second

	// ChatHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ChatHTTPIdle = 120 * time.Second
)

// Canvas API timeouts
const (
	// CanvasRequest is the timeout for a single HTTP request to the Canvas API.
	// Canvas instances are generally fast; a slow instance should not stall
	// a whole fan-out.
	CanvasRequest = 15 * time.Second
)

// LLM timeouts
const (
	// ClassifyTimeout bounds the intent-classification completion.
	// Classification runs at temperature 0 with a small output budget, so
	// it either answers quickly or is not worth waiting for.
	ClassifyTimeout = 10 * time.Second

	// RenderTimeout bounds the conversational rendering completion.
	// More generous than classification since the reply body is the product.
	RenderTimeout = 30 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// ConversationCleanupInterval is how often old conversation rows are deleted.
	ConversationCleanupInterval = 12 * time.Hour

	// ConversationCleanupInitialDelay is the delay before first cleanup.
	// Allows the server to stabilize before running cleanup.
	ConversationCleanupInitialDelay = 5 * time.Minute

	// MetricsUpdateInterval is how often storage size metrics are updated.
	MetricsUpdateInterval = 5 * time.Minute

	// RateLimiterCleanupInterval is how often inactive user rate limiters are cleaned.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
