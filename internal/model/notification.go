package model

import "time"

// Notification is an active in-app reminder notification. Notifications
// live in memory until dismissed; they are not persisted.
type Notification struct {
	ID        string    `json:"id"`
	EventID   int64     `json:"event_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Health    bool      `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}
