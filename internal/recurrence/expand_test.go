package recurrence

import (
	"testing"
	"time"

	"eliteagenda/internal/model"
)

func TestExpandNonRecurring(t *testing.T) {
	e := model.Event{
		ID:        1,
		Title:     "Dentist",
		StartTime: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}

	rangeStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	occ, err := Expand([]model.Event{e}, rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occ))
	}
	if !occ[0].OccurrenceStart.Equal(e.StartTime) {
		t.Errorf("occurrence start = %v, want %v", occ[0].OccurrenceStart, e.StartTime)
	}
}

func TestExpandNonRecurringOutsideRange(t *testing.T) {
	e := model.Event{
		ID:        1,
		StartTime: time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC),
	}

	occ, err := Expand([]model.Event{e},
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 0 {
		t.Errorf("got %d occurrences, want 0", len(occ))
	}
}

func TestExpandDaily(t *testing.T) {
	e := model.Event{
		ID:         2,
		Title:      "Morning run",
		StartTime:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Recurrence: model.RecurrenceDaily,
	}

	rangeStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	occ, err := Expand([]model.Event{e}, rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occ))
	}
	for i, o := range occ {
		want := time.Date(2026, 3, 9+i, 8, 0, 0, 0, time.UTC)
		if !o.OccurrenceStart.Equal(want) {
			t.Errorf("occurrence %d start = %v, want %v", i, o.OccurrenceStart, want)
		}
		if got := o.OccurrenceEnd.Sub(o.OccurrenceStart); got != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, got)
		}
	}
}

func TestExpandDailyNotBeforeAnchor(t *testing.T) {
	// A daily event does not occur before its anchor date.
	e := model.Event{
		ID:         3,
		StartTime:  time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC),
		Recurrence: model.RecurrenceDaily,
	}

	occ, err := Expand([]model.Event{e},
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2 (Mar 10 and 11)", len(occ))
	}
	if occ[0].OccurrenceStart.Day() != 10 {
		t.Errorf("first occurrence day = %d, want 10", occ[0].OccurrenceStart.Day())
	}
}

func TestExpandSortsAcrossEvents(t *testing.T) {
	daily := model.Event{
		ID:         1,
		StartTime:  time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC),
		Recurrence: model.RecurrenceDaily,
	}
	single := model.Event{
		ID:        2,
		StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	occ, err := Expand([]model.Event{daily, single},
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occ))
	}
	if occ[0].ID != 2 || occ[1].ID != 1 {
		t.Errorf("order = [%d, %d], want [2, 1] (09:00 before 18:00)", occ[0].ID, occ[1].ID)
	}
}

func TestExpandInvalidRange(t *testing.T) {
	_, err := Expand(nil,
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Error("expected error for inverted range")
	}
}
