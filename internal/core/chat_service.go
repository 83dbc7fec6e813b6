package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatService stores the shared team chat log. Assistant exchanges are
// persisted into the same log so the whole team sees them.
type ChatService interface {
	AppendMessage(ctx context.Context, sender, role, content string) (*ChatMessage, error)
	// ListMessages returns the log oldest first, capped at limit (0 = all).
	ListMessages(ctx context.Context, limit int) ([]ChatMessage, error)
}

type chatService struct {
	pool *pgxpool.Pool
}

func NewChatService(pool *pgxpool.Pool) ChatService {
	return &chatService{pool: pool}
}

func (s *chatService) AppendMessage(ctx context.Context, sender, role, content string) (*ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content is required: %w", ErrMissingField)
	}
	switch role {
	case RoleUser, RoleAssistant:
	default:
		return nil, fmt.Errorf("unknown chat role %q: %w", role, ErrMissingField)
	}

	msg := &ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, sender, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.Sender, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}
	return msg, nil
}

func (s *chatService) ListMessages(ctx context.Context, limit int) ([]ChatMessage, error) {
	query := `
		SELECT id, sender, role, content, timestamp
		FROM chat_messages
		ORDER BY timestamp, id
	`
	args := []any{}
	if limit > 0 {
		// Keep the newest N but return them oldest first.
		query = `
			SELECT id, sender, role, content, timestamp FROM (
				SELECT id, sender, role, content, timestamp
				FROM chat_messages
				ORDER BY timestamp DESC, id DESC
				LIMIT $1
			) recent
			ORDER BY timestamp, id
		`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
