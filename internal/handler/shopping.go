package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"eliteagenda/internal/model"
	"eliteagenda/internal/store"
	"eliteagenda/internal/websocket"
)

type ShoppingHandler struct {
	shoppingStore *store.ShoppingStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewShoppingHandler(ss *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shoppingStore: ss, hub: hub, logger: logger}
}

func (h *ShoppingHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type shoppingItemRequest struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Quantity int     `json:"quantity"`
}

func (r *shoppingItemRequest) validate(w http.ResponseWriter) bool {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return false
	}
	if r.Value < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must not be negative"})
		return false
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be at least 1"})
		return false
	}
	return true
}

// shoppingListResponse carries the items plus running totals so clients
// never have to recompute them.
type shoppingListResponse struct {
	Items          []model.ShoppingItem `json:"items"`
	Total          float64              `json:"total"`
	CompletedTotal float64              `json:"completed_total"`
}

func buildListResponse(items []model.ShoppingItem) shoppingListResponse {
	resp := shoppingListResponse{Items: items}
	if resp.Items == nil {
		resp.Items = []model.ShoppingItem{}
	}
	for _, item := range items {
		resp.Total += item.Subtotal()
		if item.Completed {
			resp.CompletedTotal += item.Subtotal()
		}
	}
	return resp
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if !req.validate(w) {
		return
	}

	item, err := h.shoppingStore.Create(req.Name, req.Value, req.Quantity)
	if err != nil {
		h.logger.Error("create shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "created", item.ID, nil))

	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.shoppingStore.List()
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}
	writeJSON(w, http.StatusOK, buildListResponse(items))
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.shoppingStore.GetByID(id)
	if err != nil {
		h.logger.Error("get shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var req shoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if !req.validate(w) {
		return
	}

	item, err := h.shoppingStore.Update(id, req.Name, req.Value, req.Quantity)
	if err != nil {
		h.logger.Error("update shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "updated", id, nil))

	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.shoppingStore.ToggleCompleted(id)
	if err != nil {
		h.logger.Error("toggle shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "updated", id, nil))

	writeJSON(w, http.StatusOK, item)
}

// ClearCompleted removes every purchased item from the list.
func (h *ShoppingHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.shoppingStore.ClearCompleted()
	if err != nil {
		h.logger.Error("clear completed shopping items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear items"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "cleared", 0, map[string]any{"removed": n}))

	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.shoppingStore.GetByID(id)
	if err != nil {
		h.logger.Error("get shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.shoppingStore.Delete(id); err != nil {
		h.logger.Error("delete shopping item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
