package reminder

import (
	"sync"

	"eliteagenda/internal/model"
)

// Change describes a notification lifecycle transition, delivered to the
// sink's change callback (the server forwards these to the websocket hub).
// Notification is zero for "alarm_stopped".
type Change struct {
	Action       string // "created", "dismissed" or "alarm_stopped"
	Notification model.Notification
	AlarmState   AlarmState
}

// Sink owns the active notification list and the alarm. All access is
// serialized through its mutex; the scheduler adds, handlers dismiss.
type Sink struct {
	mu       sync.Mutex
	active   []model.Notification // newest first
	alarm    *Alarm
	onChange func(Change)
}

// NewSink creates a sink around the given alarm. onChange may be nil.
func NewSink(alarm *Alarm, onChange func(Change)) *Sink {
	return &Sink{alarm: alarm, onChange: onChange}
}

// Add prepends a notification to the active list and starts the alarm for
// health notifications. Starting an already-sounding alarm is a no-op.
func (s *Sink) Add(n model.Notification) {
	s.mu.Lock()
	s.active = append([]model.Notification{n}, s.active...)
	if n.Health {
		s.alarm.Start()
	}
	state := s.alarm.State()
	s.mu.Unlock()

	s.notify(Change{Action: "created", Notification: n, AlarmState: state})
}

// Dismiss removes the notification and unconditionally stops the alarm,
// even if other health notifications are still pending. It returns false if
// no notification with that id was active (the alarm still stops).
func (s *Sink) Dismiss(id string) bool {
	s.mu.Lock()
	var dismissed model.Notification
	found := false
	for i, n := range s.active {
		if n.ID == id {
			dismissed = n
			s.active = append(s.active[:i], s.active[i+1:]...)
			found = true
			break
		}
	}
	s.alarm.Stop()
	s.mu.Unlock()

	if found {
		s.notify(Change{Action: "dismissed", Notification: dismissed, AlarmState: AlarmIdle})
	}
	return found
}

// StopAlarm silences the alarm without dismissing anything, leaving the
// active list untouched. The change callback fires so connected clients see
// the alarm go idle; stopping an idle alarm emits no change.
func (s *Sink) StopAlarm() AlarmState {
	s.mu.Lock()
	wasSounding := s.alarm.State() == AlarmSounding
	s.alarm.Stop()
	s.mu.Unlock()

	if wasSounding {
		s.notify(Change{Action: "alarm_stopped", AlarmState: AlarmIdle})
	}
	return AlarmIdle
}

// Active returns a copy of the active notifications, newest first.
func (s *Sink) Active() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.active))
	copy(out, s.active)
	return out
}

// Alarm returns the sink's alarm.
func (s *Sink) Alarm() *Alarm {
	return s.alarm
}

func (s *Sink) notify(c Change) {
	if s.onChange != nil {
		s.onChange(c)
	}
}
