package reminder

import (
	"testing"
	"time"

	"eliteagenda/internal/model"
)

func makeNotification(id string, health bool) model.Notification {
	return model.Notification{
		ID:        id,
		EventID:   1,
		Title:     "Event Reminder",
		Message:   "test starts soon!",
		Health:    health,
		Timestamp: time.Now(),
	}
}

func TestSinkNewestFirst(t *testing.T) {
	s := NewSink(NewAlarm(nil), nil)

	s.Add(makeNotification("a", false))
	s.Add(makeNotification("b", false))

	active := s.Active()
	if len(active) != 2 {
		t.Fatalf("got %d notifications, want 2", len(active))
	}
	if active[0].ID != "b" || active[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [b, a]", active[0].ID, active[1].ID)
	}
}

func TestSinkHealthStartsAlarm(t *testing.T) {
	s := NewSink(NewAlarm(nil), nil)

	s.Add(makeNotification("a", false))
	if s.Alarm().State() != AlarmIdle {
		t.Error("non-health notification must not start the alarm")
	}

	s.Add(makeNotification("b", true))
	if s.Alarm().State() != AlarmSounding {
		t.Error("health notification must start the alarm")
	}
	s.Alarm().Stop()
}

func TestDismissStopsAlarmUnconditionally(t *testing.T) {
	s := NewSink(NewAlarm(nil), nil)

	// Two health notifications, one alarm session.
	s.Add(makeNotification("a", true))
	s.Add(makeNotification("b", true))
	if s.Alarm().State() != AlarmSounding {
		t.Fatal("alarm should be sounding")
	}

	// Dismissing either one silences the alarm even though the other
	// health notification is still pending.
	if !s.Dismiss("a") {
		t.Fatal("dismiss should find notification a")
	}
	if s.Alarm().State() != AlarmIdle {
		t.Error("dismiss must stop the alarm")
	}

	active := s.Active()
	if len(active) != 1 || active[0].ID != "b" {
		t.Errorf("remaining = %v, want [b]", active)
	}
}

func TestDismissUnknownIDStillStopsAlarm(t *testing.T) {
	s := NewSink(NewAlarm(nil), nil)

	s.Add(makeNotification("a", true))
	if s.Dismiss("nope") {
		t.Error("dismiss of unknown id should return false")
	}
	if s.Alarm().State() != AlarmIdle {
		t.Error("dismiss stops the alarm regardless of the id")
	}
}

func TestStopAlarmEmitsChange(t *testing.T) {
	var changes []Change
	s := NewSink(NewAlarm(nil), func(c Change) {
		changes = append(changes, c)
	})

	s.Add(makeNotification("a", true))
	if got := s.StopAlarm(); got != AlarmIdle {
		t.Errorf("StopAlarm returned %v, want idle", got)
	}

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[1].Action != "alarm_stopped" || changes[1].AlarmState != AlarmIdle {
		t.Errorf("change = %+v, want alarm_stopped/idle", changes[1])
	}

	// The notification stays active; only the alarm is affected.
	if got := len(s.Active()); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}

	// Stopping an already-idle alarm stays silent.
	s.StopAlarm()
	if len(changes) != 2 {
		t.Errorf("idle stop emitted a change: %d changes, want 2", len(changes))
	}
}

func TestSinkChangeCallback(t *testing.T) {
	var changes []Change
	s := NewSink(NewAlarm(nil), func(c Change) {
		changes = append(changes, c)
	})

	s.Add(makeNotification("a", true))
	s.Dismiss("a")

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].Action != "created" || changes[0].AlarmState != AlarmSounding {
		t.Errorf("first change = %+v, want created/sounding", changes[0])
	}
	if changes[1].Action != "dismissed" || changes[1].AlarmState != AlarmIdle {
		t.Errorf("second change = %+v, want dismissed/idle", changes[1])
	}
}
