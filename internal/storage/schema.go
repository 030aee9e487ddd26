package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
func InitSchema(db *sql.DB) error {
	if err := createCanvasTokensTable(db); err != nil {
		return err
	}
	return createConversationsTable(db)
}

func createCanvasTokensTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS canvas_tokens (
		user_id TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		canvas_url TEXT,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create canvas_tokens table: %w", err)
	}

	return nil
}

func createConversationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id);
	CREATE INDEX IF NOT EXISTS idx_conversations_created_at ON conversations(created_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}

	return nil
}
