package handler

import (
	"net/http"

	"eliteagenda/internal/model"
	"eliteagenda/internal/reminder"
)

type NotificationHandler struct {
	sink *reminder.Sink
}

func NewNotificationHandler(sink *reminder.Sink) *NotificationHandler {
	return &NotificationHandler{sink: sink}
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	AlarmState    reminder.AlarmState  `json:"alarm_state"`
}

// List returns the active notifications, newest first, along with the
// current alarm state.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	active := h.sink.Active()
	if active == nil {
		active = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: active,
		AlarmState:    h.sink.Alarm().State(),
	})
}

// Dismiss removes one notification and silences the alarm.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if !h.sink.Dismiss(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StopAlarm silences the alarm without dismissing any notification.
func (h *NotificationHandler) StopAlarm(w http.ResponseWriter, r *http.Request) {
	state := h.sink.StopAlarm()
	writeJSON(w, http.StatusOK, map[string]reminder.AlarmState{"alarm_state": state})
}
