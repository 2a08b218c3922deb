package repository

import (
	"context"
	"database/sql"

	"github.com/worldmic/seat-service/internal/model"
)

// ChatRepo persists viewer chat messages.  Chat writes only reach this
// repository after passing the admission limiter; the repository itself
// enforces nothing beyond the schema.
//
// Expected schema:
//
//	CREATE TABLE chat_messages (
//	    id         BIGINT PRIMARY KEY AUTO_INCREMENT,
//	    username   VARCHAR(40) NOT NULL,
//	    text       VARCHAR(200) NOT NULL,
//	    created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
//	);
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo returns a ChatRepo bound to the given database.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// Insert appends a chat message.
func (r *ChatRepo) Insert(ctx context.Context, username, text string) error {
	const q = `INSERT INTO chat_messages (username, text) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, username, text)
	return err
}

// ListRecent returns up to limit of the newest messages in chronological
// order (oldest first), which is the order the feed renders them in.
func (r *ChatRepo) ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	const q = `SELECT id, username, text, created_at FROM chat_messages ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// reverse newest-first into chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
