package postgres

import (
	"context"
	"database/sql"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"

	"github.com/google/uuid"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

/*
	CREATE TABLE messages (
		id           UUID PRIMARY KEY,
		sender_id    UUID NOT NULL REFERENCES users(id),
		recipient_id UUID NOT NULL REFERENCES users(id),
		text         TEXT NOT NULL DEFAULT '',
		image_url    TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
*/

func (r *MessageRepo) Save(ctx context.Context, m *domain.Message) error {
	if m.SenderID == uuid.Nil || m.RecipientID == uuid.Nil {
		return domain.ErrInvalidUserID
	}
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, text, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.SenderID, m.RecipientID, m.Text, m.ImageURL, m.CreatedAt)
	return err
}

func (r *MessageRepo) ListBetween(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, sender_id, recipient_id, text, image_url, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC
	`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.ImageURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
