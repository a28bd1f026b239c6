package model

import (
	"fmt"
	"time"
)

// Priority is the closed set of event priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// Category is the closed set of event categories.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryFinance  Category = "finance"
	CategoryOther    Category = "other"
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryFinance, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Recurrence is the closed set of recurrence modes.
type Recurrence string

const (
	RecurrenceNone  Recurrence = "none"
	RecurrenceDaily Recurrence = "daily"
)

// ParseRecurrence validates a recurrence string. Empty means none.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(s) {
	case RecurrenceNone, RecurrenceDaily:
		return Recurrence(s), nil
	case "":
		return RecurrenceNone, nil
	}
	return "", fmt.Errorf("invalid recurrence %q", s)
}

type Event struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Location        string     `json:"location"`
	Priority        Priority   `json:"priority"`
	Category        Category   `json:"category"`
	ReminderMinutes *int       `json:"reminder_minutes"`
	Recurrence      Recurrence `json:"recurrence"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Occurrence is one concrete instance of an event within a queried date
// range. Non-recurring events produce a single occurrence; daily events
// produce one per matching day.
type Occurrence struct {
	Event
	OccurrenceStart time.Time `json:"occurrence_start"`
	OccurrenceEnd   time.Time `json:"occurrence_end"`
}
