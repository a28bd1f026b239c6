package store

import (
	"testing"

	"eliteagenda/internal/database"
	"eliteagenda/internal/model"
)

func setupChatTestDB(t *testing.T) (*ChatStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := NewUserStore(db).Create("alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewChatStore(db), user.ID
}

func TestChatAppendAndList(t *testing.T) {
	s, userID := setupChatTestDB(t)

	if _, err := s.Append(userID, model.RoleUser, "Schedule dentist tomorrow at 3pm"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(userID, model.RoleAssistant, "Done! I've added it to your agenda."); err != nil {
		t.Fatalf("append: %v", err)
	}

	messages, err := s.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != model.RoleUser {
		t.Errorf("first role = %q, want %q", messages[0].Role, model.RoleUser)
	}
	if messages[1].Role != model.RoleAssistant {
		t.Errorf("second role = %q, want %q", messages[1].Role, model.RoleAssistant)
	}
	if messages[0].ID == messages[1].ID {
		t.Error("messages should have distinct ids")
	}
}

func TestChatListScopedToUser(t *testing.T) {
	s, userID := setupChatTestDB(t)

	other, err := NewUserStore(s.db).Create("bob", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := s.Append(userID, model.RoleUser, "mine"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(other.ID, model.RoleUser, "theirs"); err != nil {
		t.Fatalf("append: %v", err)
	}

	messages, err := s.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "mine" {
		t.Errorf("unexpected messages: %v", messages)
	}
}

func TestChatClearByUser(t *testing.T) {
	s, userID := setupChatTestDB(t)

	if _, err := s.Append(userID, model.RoleUser, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.ClearByUser(userID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	messages, err := s.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected empty conversation, got %d messages", len(messages))
	}
}

func TestChatInvalidRole(t *testing.T) {
	s, userID := setupChatTestDB(t)

	if _, err := s.Append(userID, "system", "not allowed"); err == nil {
		t.Error("expected error for invalid role")
	}
}
