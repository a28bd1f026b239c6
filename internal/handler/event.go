package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eliteagenda/internal/ics"
	"eliteagenda/internal/model"
	"eliteagenda/internal/recurrence"
	"eliteagenda/internal/store"
	"eliteagenda/internal/websocket"
)

type EventHandler struct {
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewEventHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, hub: hub, logger: logger}
}

func (h *EventHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type eventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Location        string `json:"location"`
	Priority        string `json:"priority"`
	Category        string `json:"category"`
	ReminderMinutes *int   `json:"reminder_minutes"`
	Recurrence      string `json:"recurrence"`
}

// parseAndValidate decodes an event request body and validates all fields.
// On failure it writes the error response and returns ok=false.
func (h *EventHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return nil, false
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_time must be RFC3339 format"})
		return nil, false
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_time must be RFC3339 format"})
		return nil, false
	}

	if !startTime.Before(endTime) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_time must be before end_time"})
		return nil, false
	}

	if req.Priority == "" {
		req.Priority = string(model.PriorityMedium)
	}
	priority, err := model.ParsePriority(req.Priority)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "priority must be low, medium, or high"})
		return nil, false
	}

	if req.Category == "" {
		req.Category = string(model.CategoryOther)
	}
	category, err := model.ParseCategory(req.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be work, personal, health, finance, or other"})
		return nil, false
	}

	rec, err := model.ParseRecurrence(req.Recurrence)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recurrence must be none or daily"})
		return nil, false
	}

	if req.ReminderMinutes != nil && *req.ReminderMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reminder_minutes must not be negative"})
		return nil, false
	}

	return &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       startTime,
		EndTime:         endTime,
		Location:        req.Location,
		Priority:        priority,
		Category:        category,
		ReminderMinutes: req.ReminderMinutes,
		Recurrence:      rec,
	}, true
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	event, err := h.eventStore.Create(e)
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create event"})
		return
	}

	h.broadcast(websocket.NewMessage("event", "created", event.ID, nil))

	writeJSON(w, http.StatusCreated, event)
}

// List returns all events, or — when start and end query parameters are
// given — the expanded occurrences within that range, daily recurrences
// included.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" && endStr == "" {
		events, err := h.eventStore.List()
		if err != nil {
			h.logger.Error("list events", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
			return
		}
		if events == nil {
			events = []model.Event{}
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	if startStr == "" || endStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end query parameters are both required"})
		return
	}

	start, err := parseFlexibleTime(startStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be RFC3339 or YYYY-MM-DD format"})
		return
	}
	end, err := parseFlexibleTime(endStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end must be RFC3339 or YYYY-MM-DD format"})
		return
	}
	if !start.Before(end) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be before end"})
		return
	}

	events, err := h.eventStore.ListByDateRange(start, end)
	if err != nil {
		h.logger.Error("list events by range", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}

	occurrences, err := recurrence.Expand(events, start, end)
	if err != nil {
		h.logger.Error("expand recurrences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to expand recurrences"})
		return
	}
	if occurrences == nil {
		occurrences = []model.Occurrence{}
	}
	writeJSON(w, http.StatusOK, occurrences)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	event, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get event"})
		return
	}
	if event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get event"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	e, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	event, err := h.eventStore.Update(id, e)
	if err != nil {
		h.logger.Error("update event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update event"})
		return
	}

	h.broadcast(websocket.NewMessage("event", "updated", id, nil))

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get event"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	if err := h.eventStore.Delete(id); err != nil {
		h.logger.Error("delete event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete event"})
		return
	}

	h.broadcast(websocket.NewMessage("event", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// ExportICS streams the whole agenda as an iCalendar file.
func (h *EventHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventStore.List()
	if err != nil {
		h.logger.Error("list events for export", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export events"})
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	w.Write([]byte(ics.Export(events, time.Now())))
}
