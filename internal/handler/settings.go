package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"eliteagenda/internal/store"
	"eliteagenda/internal/websocket"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, hub: hub, logger: logger}
}

func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetAll()
	if err != nil {
		h.logger.Error("list settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update applies all key/value pairs in the request body. Unknown keys
// are rejected before anything is written.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no settings provided"})
		return
	}

	for key := range req {
		if !store.ValidSettingKey(key) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown setting: " + key})
			return
		}
	}

	for key, value := range req {
		if err := h.settingsStore.Set(key, value); err != nil {
			h.logger.Error("set setting", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("settings", "updated", 0, nil))
	}

	settings, err := h.settingsStore.GetAll()
	if err != nil {
		h.logger.Error("list settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
