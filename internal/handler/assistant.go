package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eliteagenda/internal/assistant"
	"eliteagenda/internal/auth"
	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
)

type AssistantHandler struct {
	service   *assistant.Service
	chatStore *store.ChatStore
	logger    *slog.Logger
}

func NewAssistantHandler(svc *assistant.Service, cs *store.ChatStore, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{service: svc, chatStore: cs, logger: logger}
}

type sendRequest struct {
	Message string `json:"message"`
}

// Send runs one assistant exchange. A second request while one is in
// flight gets a 409.
func (h *AssistantHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := h.service.Send(r.Context(), auth.UserID(r.Context()), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrBusy) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "assistant is busy with another request"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AssistantHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatStore.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list chat messages", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list messages"})
		return
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *AssistantHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.chatStore.ClearByUser(auth.UserID(r.Context())); err != nil {
		h.logger.Error("clear chat messages", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear messages"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
