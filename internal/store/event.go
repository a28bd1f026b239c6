package store

import (
	"database/sql"
	"fmt"
	"time"

	"eliteagenda/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventCols = `id, title, description, start_time, end_time, location, priority, category, reminder_minutes, recurrence, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var reminder sql.NullInt64
	err := scanner.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Location, &e.Priority, &e.Category, &reminder, &e.Recurrence,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reminder.Valid {
		m := int(reminder.Int64)
		e.ReminderMinutes = &m
	}
	return &e, nil
}

func (s *EventStore) Create(e *model.Event) (*model.Event, error) {
	var reminder sql.NullInt64
	if e.ReminderMinutes != nil {
		reminder = sql.NullInt64{Int64: int64(*e.ReminderMinutes), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO events (title, description, start_time, end_time, location, priority, category, reminder_minutes, recurrence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Location,
		e.Priority, e.Category, reminder, e.Recurrence,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns every event, ordered by start time. The reminder scheduler
// consumes this as its per-tick snapshot.
func (s *EventStore) List() ([]model.Event, error) {
	rows, err := s.db.Query(`SELECT ` + eventCols + ` FROM events ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByDateRange returns non-recurring events overlapping [start, end),
// plus every daily-recurring event regardless of its anchor date. Daily
// events are expanded into dated occurrences by the recurrence package.
func (s *EventStore) ListByDateRange(start, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE recurrence = 'daily' OR (start_time < ? AND end_time > ?)
		 ORDER BY start_time ASC`,
		end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list events by range: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *EventStore) Update(id int64, e *model.Event) (*model.Event, error) {
	var reminder sql.NullInt64
	if e.ReminderMinutes != nil {
		reminder = sql.NullInt64{Int64: int64(*e.ReminderMinutes), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE events
		 SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?,
		     priority = ?, category = ?, reminder_minutes = ?, recurrence = ?, updated_at = ?
		 WHERE id = ?`,
		e.Title, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Location,
		e.Priority, e.Category, reminder, e.Recurrence, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
