package assistant

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"eliteagenda/internal/database"
	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
)

type fakeLLM struct {
	mu         sync.Mutex
	reply      string
	chatErr    error
	extraction *Extraction
	extractErr error
	entered    chan struct{} // if set, receives when Chat is reached
	block      chan struct{} // if set, Chat waits until closed
	history    []Turn
}

func (f *fakeLLM) Chat(ctx context.Context, prompt string, agenda []model.Event, history []Turn) (string, error) {
	f.mu.Lock()
	f.history = history
	entered := f.entered
	block := f.block
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.reply, f.chatErr
}

func (f *fakeLLM) ExtractEvent(ctx context.Context, text string) (*Extraction, error) {
	return f.extraction, f.extractErr
}

func setupService(t *testing.T, llm LLM) (*Service, *store.ChatStore, *store.EventStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userID := insertUser(t, db)
	chatStore := store.NewChatStore(db)
	eventStore := store.NewEventStore(db)
	svc := NewService(llm, chatStore, eventStore, nil, slog.New(slog.DiscardHandler))
	return svc, chatStore, eventStore, userID
}

func insertUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	result, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES ('arthur', 'x')`)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

func TestSendRecordsBothMessages(t *testing.T) {
	llm := &fakeLLM{reply: "Here is your day."}
	svc, chatStore, _, userID := setupService(t, llm)

	result, err := svc.Send(context.Background(), userID, "summarize my day")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.UserMessage.Content != "summarize my day" {
		t.Errorf("user message = %q", result.UserMessage.Content)
	}
	if result.AssistantMessage.Content != "Here is your day." {
		t.Errorf("assistant message = %q", result.AssistantMessage.Content)
	}

	messages, err := chatStore.ListByUser(userID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d persisted messages, want 2", len(messages))
	}
	if messages[0].Role != model.RoleUser || messages[1].Role != model.RoleAssistant {
		t.Errorf("roles = [%s, %s], want [user, assistant]", messages[0].Role, messages[1].Role)
	}
}

func TestSendCreatesExtractedEvent(t *testing.T) {
	llm := &fakeLLM{
		reply: "Scheduled!",
		extraction: &Extraction{
			IsEvent:    true,
			Title:      "Tomar remédio",
			Start:      "2026-03-10T14:00:00Z",
			End:        "2026-03-10T14:15:00Z",
			Priority:   "high",
			Category:   "health",
			Recurrence: "daily",
		},
	}
	svc, _, eventStore, userID := setupService(t, llm)

	result, err := svc.Send(context.Background(), userID, "tomar remédio todos os dias às 14h")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.CreatedEvent == nil {
		t.Fatal("expected an event to be created")
	}
	if result.CreatedEvent.Category != model.CategoryHealth {
		t.Errorf("category = %s, want health", result.CreatedEvent.Category)
	}
	if result.CreatedEvent.Recurrence != model.RecurrenceDaily {
		t.Errorf("recurrence = %s, want daily", result.CreatedEvent.Recurrence)
	}

	events, err := eventStore.List()
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d persisted events, want 1", len(events))
	}
}

func TestSendExtractionFailureContinuesChat(t *testing.T) {
	llm := &fakeLLM{
		reply:      "How can I help?",
		extractErr: errors.New("boom"),
	}
	svc, chatStore, eventStore, userID := setupService(t, llm)

	result, err := svc.Send(context.Background(), userID, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.CreatedEvent != nil {
		t.Error("no event should be created on extraction failure")
	}
	if result.AssistantMessage.Content != "How can I help?" {
		t.Errorf("reply = %q", result.AssistantMessage.Content)
	}

	messages, _ := chatStore.ListByUser(userID)
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2 (chat flow uninterrupted)", len(messages))
	}
	events, _ := eventStore.List()
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestSendChatFailureUsesFallback(t *testing.T) {
	llm := &fakeLLM{chatErr: errors.New("network down")}
	svc, chatStore, _, userID := setupService(t, llm)

	result, err := svc.Send(context.Background(), userID, "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.AssistantMessage.Content != FallbackReply {
		t.Errorf("reply = %q, want fallback", result.AssistantMessage.Content)
	}

	// The user's message is still recorded.
	messages, _ := chatStore.ListByUser(userID)
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2", len(messages))
	}
}

func TestSendRejectsOverlappingRequests(t *testing.T) {
	entered := make(chan struct{})
	block := make(chan struct{})
	llm := &fakeLLM{reply: "done", entered: entered, block: block}
	svc, _, _, userID := setupService(t, llm)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), userID, "first")
		firstDone <- err
	}()

	// Wait for the first request to occupy the slot.
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first send never reached the model")
	}

	if _, err := svc.Send(context.Background(), userID, "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second send error = %v, want ErrBusy", err)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first send: %v", err)
	}
}

func TestSendEmptyMessage(t *testing.T) {
	svc, _, _, userID := setupService(t, &fakeLLM{})
	if _, err := svc.Send(context.Background(), userID, "   "); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestHistoryExcludesCurrentMessage(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	svc, _, _, userID := setupService(t, llm)

	if _, err := svc.Send(context.Background(), userID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(llm.history) != 0 {
		t.Errorf("first send history length = %d, want 0", len(llm.history))
	}

	if _, err := svc.Send(context.Background(), userID, "second"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(llm.history) != 2 {
		t.Fatalf("second send history length = %d, want 2", len(llm.history))
	}
	if llm.history[0].Role != "user" || llm.history[1].Role != "model" {
		t.Errorf("history roles = [%s, %s], want [user, model]", llm.history[0].Role, llm.history[1].Role)
	}
}
