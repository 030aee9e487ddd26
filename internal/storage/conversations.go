package storage

import (
	"context"
	"fmt"
	"time"
)

// SaveConversation appends one answered turn to the conversation log.
func (db *DB) SaveConversation(ctx context.Context, userID, message, response string) error {
	query := `
	INSERT INTO conversations (user_id, message, response, created_at)
	VALUES (?, ?, ?, ?)
	`

	if _, err := db.conn.ExecContext(ctx, query, userID, message, response, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

// DeleteExpiredConversations removes conversation rows older than the
// configured retention and reports how many were deleted.
func (db *DB) DeleteExpiredConversations(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-db.retention).Unix()

	result, err := db.conn.ExecContext(ctx, `DELETE FROM conversations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired conversations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted conversations: %w", err)
	}

	return deleted, nil
}

// CountConversations returns the number of stored conversation rows.
func (db *DB) CountConversations(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}
