package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
)

// ErrBusy is returned when a send arrives while another request is still
// in flight. At most one assistant request runs at a time.
var ErrBusy = errors.New("assistant request already in flight")

// FallbackReply is shown when the model call fails for any reason.
const FallbackReply = "I encountered an error while trying to help. Please check your connection."

const requestTimeout = 30 * time.Second

// LLM is the generative model boundary. The production implementation is
// *Client; tests substitute fakes.
type LLM interface {
	Chat(ctx context.Context, prompt string, agenda []model.Event, history []Turn) (string, error)
	ExtractEvent(ctx context.Context, text string) (*Extraction, error)
}

// Result is the outcome of one assistant exchange.
type Result struct {
	UserMessage      *model.ChatMessage `json:"user_message"`
	AssistantMessage *model.ChatMessage `json:"assistant_message"`
	CreatedEvent     *model.Event       `json:"created_event,omitempty"`
}

// Service orchestrates the chat flow: persist the user's message, attempt
// event extraction, generate a reply, persist it. A single-slot gate
// rejects overlapping sends by construction, and every remote call runs
// under a bounded timeout so a hung request cannot wedge the flow.
type Service struct {
	llm            LLM
	chat           *store.ChatStore
	events         *store.EventStore
	slot           chan struct{}
	onEventCreated func(model.Event)
	logger         *slog.Logger
}

// NewService creates the assistant service. onEventCreated may be nil.
func NewService(llm LLM, chat *store.ChatStore, events *store.EventStore, onEventCreated func(model.Event), logger *slog.Logger) *Service {
	return &Service{
		llm:            llm,
		chat:           chat,
		events:         events,
		slot:           make(chan struct{}, 1),
		onEventCreated: onEventCreated,
		logger:         logger,
	}
}

// Send runs one exchange for the user. It returns ErrBusy if another
// exchange is still in flight. Model failures never fail the exchange:
// extraction errors skip event creation, chat errors produce the fallback
// reply, and the user's message is recorded either way.
func (s *Service) Send(ctx context.Context, userID int64, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty message")
	}

	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	default:
		return nil, ErrBusy
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	// History excludes the message being sent.
	history, err := s.chat.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.chat.Append(userID, model.RoleUser, text)
	if err != nil {
		return nil, err
	}

	result := &Result{UserMessage: userMsg}

	if created := s.tryExtractEvent(ctx, text); created != nil {
		result.CreatedEvent = created
	}

	agenda, err := s.events.List()
	if err != nil {
		s.logger.Error("assistant: list agenda", "error", err)
		agenda = nil
	}

	reply, err := s.llm.Chat(ctx, text, agenda, toTurns(history))
	if err != nil {
		s.logger.Error("assistant: chat", "error", err)
		reply = FallbackReply
	}

	assistantMsg, err := s.chat.Append(userID, model.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	result.AssistantMessage = assistantMsg

	return result, nil
}

// tryExtractEvent attempts schema-constrained extraction and creates the
// event on success. Any failure is logged and skipped; the chat flow
// continues uninterrupted.
func (s *Service) tryExtractEvent(ctx context.Context, text string) *model.Event {
	ext, err := s.llm.ExtractEvent(ctx, text)
	if err != nil {
		s.logger.Error("assistant: event extraction", "error", err)
		return nil
	}
	if ext == nil || !ext.IsEvent {
		return nil
	}

	now := time.Now()
	start := now
	if t, err := time.Parse(time.RFC3339, ext.Start); err == nil {
		start = t
	}
	end := start.Add(time.Hour)
	if t, err := time.Parse(time.RFC3339, ext.End); err == nil && t.After(start) {
		end = t
	}

	priority, err := model.ParsePriority(ext.Priority)
	if err != nil {
		priority = model.PriorityMedium
	}
	category, err := model.ParseCategory(ext.Category)
	if err != nil {
		category = model.CategoryOther
	}
	recurrence, err := model.ParseRecurrence(ext.Recurrence)
	if err != nil {
		recurrence = model.RecurrenceNone
	}

	title := strings.TrimSpace(ext.Title)
	if title == "" {
		return nil
	}

	event, err := s.events.Create(&model.Event{
		Title:       title,
		Description: ext.Description,
		StartTime:   start,
		EndTime:     end,
		Priority:    priority,
		Category:    category,
		Recurrence:  recurrence,
	})
	if err != nil {
		s.logger.Error("assistant: create extracted event", "error", err)
		return nil
	}

	s.logger.Info("assistant created event", "event_id", event.ID, "title", event.Title)
	if s.onEventCreated != nil {
		s.onEventCreated(*event)
	}
	return event
}

func toTurns(messages []model.ChatMessage) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == model.RoleAssistant {
			role = "model"
		}
		turns = append(turns, Turn{Role: role, Text: m.Content})
	}
	return turns
}
