package store

import (
	"context"
	"database/sql"
	"fmt"

	"kantong/internal/chat"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateMessage(ctx context.Context, msg *chat.Message) error {
	query := `
		INSERT INTO chat_messages (role, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, msg.Role, msg.Content).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("creating chat message: %w", err)
	}

	return nil
}

func (s *Store) ListMessages(ctx context.Context) ([]*chat.Message, error) {
	query := `SELECT id, role, content, created_at FROM chat_messages ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []*chat.Message

	for rows.Next() {
		var (
			msg     chat.Message
			roleStr string
		)

		if err := rows.Scan(&msg.ID, &roleStr, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}

		msg.Role = chat.Role(roleStr)
		msgs = append(msgs, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat message rows: %w", err)
	}

	return msgs, nil
}

func (s *Store) DeleteAllMessages(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("clearing chat messages: %w", err)
	}

	return nil
}
