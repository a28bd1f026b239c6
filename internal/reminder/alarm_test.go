package reminder

import (
	"sync"
	"testing"
	"time"
)

type countingBeeper struct {
	mu    sync.Mutex
	beeps int
}

func (b *countingBeeper) Beep() {
	b.mu.Lock()
	b.beeps++
	b.mu.Unlock()
}

func (b *countingBeeper) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

func TestAlarmStartStop(t *testing.T) {
	a := NewAlarm(nil)

	if a.State() != AlarmIdle {
		t.Fatalf("initial state = %v, want idle", a.State())
	}

	a.Start()
	if a.State() != AlarmSounding {
		t.Errorf("state after start = %v, want sounding", a.State())
	}

	a.Stop()
	if a.State() != AlarmIdle {
		t.Errorf("state after stop = %v, want idle", a.State())
	}
}

func TestAlarmStartIdempotent(t *testing.T) {
	a := NewAlarm(nil)

	a.Start()
	a.Start() // no-op while sounding
	if a.State() != AlarmSounding {
		t.Errorf("state = %v, want sounding", a.State())
	}
	a.Stop()
}

func TestAlarmStopIdempotent(t *testing.T) {
	a := NewAlarm(nil)

	a.Stop() // no-op while idle
	if a.State() != AlarmIdle {
		t.Errorf("state = %v, want idle", a.State())
	}

	a.Start()
	a.Stop()
	a.Stop() // second stop must not panic (closed channel)
	if a.State() != AlarmIdle {
		t.Errorf("state = %v, want idle", a.State())
	}
}

func TestAlarmBeepsImmediately(t *testing.T) {
	b := &countingBeeper{}
	a := NewAlarm(b)

	a.Start()
	// The first pulse fires as soon as the loop starts.
	deadline := time.Now().Add(2 * time.Second)
	for b.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	a.Stop()

	if b.count() == 0 {
		t.Error("expected at least one beep after start")
	}
}

func TestAlarmRestartAfterStop(t *testing.T) {
	a := NewAlarm(nil)

	a.Start()
	a.Stop()
	a.Start()
	if a.State() != AlarmSounding {
		t.Errorf("state after restart = %v, want sounding", a.State())
	}
	a.Stop()
}
