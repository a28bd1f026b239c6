package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eliteagenda/internal/model"
)

type ChatStore struct {
	db *sql.DB
}

func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

const chatCols = `id, user_id, role, content, created_at`

func (s *ChatStore) Append(userID int64, role, content string) (*model.ChatMessage, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO chat_messages (id, user_id, role, content) VALUES (?, ?, ?, ?)`,
		id, userID, role, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+chatCols+` FROM chat_messages WHERE id = ?`, id)
	var m model.ChatMessage
	if err := row.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("get chat message: %w", err)
	}
	return &m, nil
}

// ListByUser returns the user's conversation, oldest first.
func (s *ChatStore) ListByUser(userID int64) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT `+chatCols+` FROM chat_messages WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *ChatStore) ClearByUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM chat_messages WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clear chat messages: %w", err)
	}
	return nil
}
