package postgres

import (
	"context"
	"fmt"

	"linktrack/internal/domain"
	"linktrack/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// messageRepository is the PostgreSQL implementation of the chat log.
type messageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new PostgreSQL message repository.
func NewMessageRepository(db *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a new chat message. The serial id assigned here is the
// cursor polling clients carry; it increases strictly with insertion
// order for one link.
func (r *messageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			link_id, sender, body, ip, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		msg.LinkID,
		msg.Sender,
		msg.Body,
		msg.IP,
		msg.CreatedAt,
	).Scan(&msg.ID)

	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// ListAfter returns messages with id strictly greater than afterID,
// ascending. afterID 0 returns the whole log for the link.
func (r *messageRepository) ListAfter(ctx context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, link_id, sender, body, ip, created_at
		FROM chat_messages
		WHERE link_id = $1 AND id > $2
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, linkID, afterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		msg := &domain.ChatMessage{}
		err := rows.Scan(
			&msg.ID,
			&msg.LinkID,
			&msg.Sender,
			&msg.Body,
			&msg.IP,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}
