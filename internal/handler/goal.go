package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
	"eliteagenda/internal/websocket"
)

type GoalHandler struct {
	goalStore *store.GoalStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewGoalHandler(gs *store.GoalStore, hub *websocket.Hub, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{goalStore: gs, hub: hub, logger: logger}
}

func (h *GoalHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type goalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	Category    string `json:"category"`
}

func (h *GoalHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (title, description, category string, targetDate time.Time, ok bool) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	targetDate, err := parseFlexibleTime(req.TargetDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_date must be RFC3339 or YYYY-MM-DD format"})
		return
	}

	return req.Title, req.Description, req.Category, targetDate, true
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	title, description, category, targetDate, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	goal, err := h.goalStore.Create(title, description, targetDate, category)
	if err != nil {
		h.logger.Error("create goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}

	h.broadcast(websocket.NewMessage("goal", "created", goal.ID, nil))

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalStore.List()
	if err != nil {
		h.logger.Error("list goals", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list goals"})
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.goalStore.GetByID(id)
	if err != nil {
		h.logger.Error("get goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	title, description, category, targetDate, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	goal, err := h.goalStore.Update(id, title, description, targetDate, category)
	if err != nil {
		h.logger.Error("update goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update goal"})
		return
	}

	h.broadcast(websocket.NewMessage("goal", "updated", id, nil))

	writeJSON(w, http.StatusOK, goal)
}

// Toggle flips the goal's completed flag. Completing a goal snaps its
// progress to 100.
func (h *GoalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	goal, err := h.goalStore.ToggleCompleted(id)
	if err != nil {
		h.logger.Error("toggle goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle goal"})
		return
	}
	if goal == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	h.broadcast(websocket.NewMessage("goal", "updated", id, nil))

	writeJSON(w, http.StatusOK, goal)
}

type progressRequest struct {
	Progress int `json:"progress"`
}

// SetProgress updates the goal's progress percentage. Reaching 100 marks
// the goal completed; anything below clears the flag.
func (h *GoalHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Progress < 0 || req.Progress > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "progress must be between 0 and 100"})
		return
	}

	goal, err := h.goalStore.SetProgress(id, req.Progress)
	if err != nil {
		h.logger.Error("set goal progress", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update progress"})
		return
	}
	if goal == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	h.broadcast(websocket.NewMessage("goal", "updated", id, nil))

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.goalStore.GetByID(id)
	if err != nil {
		h.logger.Error("get goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	if err := h.goalStore.Delete(id); err != nil {
		h.logger.Error("delete goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete goal"})
		return
	}

	h.broadcast(websocket.NewMessage("goal", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
