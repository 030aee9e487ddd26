package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/canvasbot/canvas-agent-go/internal/canvas"
	domerrors "github.com/canvasbot/canvas-agent-go/internal/errors"
)

// SaveCredential upserts the Canvas credential for a user. Last write wins.
func (db *DB) SaveCredential(ctx context.Context, userID string, cred canvas.Credential) error {
	if userID == "" {
		return domerrors.NewValidationError("user_id", "must not be empty")
	}
	if cred.Token == "" {
		return domerrors.ErrMissingCredential
	}

	query := `
	INSERT INTO canvas_tokens (user_id, access_token, canvas_url, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		access_token = excluded.access_token,
		canvas_url = CASE WHEN excluded.canvas_url != '' THEN excluded.canvas_url ELSE canvas_tokens.canvas_url END,
		updated_at = excluded.updated_at
	`

	if _, err := db.conn.ExecContext(ctx, query, userID, cred.Token, cred.BaseURL, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Credential loads the stored Canvas credential for a user.
func (db *DB) Credential(ctx context.Context, userID string) (canvas.Credential, error) {
	query := `SELECT access_token, canvas_url FROM canvas_tokens WHERE user_id = ?`

	var cred canvas.Credential
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(&cred.Token, &cred.BaseURL)
	if errors.Is(err, sql.ErrNoRows) {
		return canvas.Credential{}, fmt.Errorf("credential for %q: %w", userID, domerrors.ErrNotFound)
	}
	if err != nil {
		return canvas.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}

	return cred, nil
}

// CountTokens returns the number of stored credentials.
func (db *DB) CountTokens(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM canvas_tokens`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return count, nil
}
