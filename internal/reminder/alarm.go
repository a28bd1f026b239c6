package reminder

import (
	"sync"
	"time"
)

// AlarmState is the audible alarm's state machine.
type AlarmState string

const (
	AlarmIdle     AlarmState = "idle"
	AlarmSounding AlarmState = "sounding"
)

const pulseInterval = time.Second

// Beeper emits one audible pulse. The server's implementation broadcasts a
// tone descriptor over the websocket hub; clients synthesize the sound.
type Beeper interface {
	Beep()
}

// Alarm is the single process-wide alarm session. At most one session is
// active regardless of how many health notifications are pending. Start is
// idempotent while sounding; Stop is idempotent while idle.
type Alarm struct {
	mu     sync.Mutex
	state  AlarmState
	beeper Beeper
	stop   chan struct{}
	done   chan struct{}
}

func NewAlarm(beeper Beeper) *Alarm {
	return &Alarm{state: AlarmIdle, beeper: beeper}
}

// Start transitions Idle -> Sounding and begins the pulse loop. Calling
// Start while already sounding is a no-op.
func (a *Alarm) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == AlarmSounding {
		return
	}
	a.state = AlarmSounding
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.pulse(a.stop, a.done)
}

// Stop transitions Sounding -> Idle immediately. Calling Stop while idle is
// a no-op.
func (a *Alarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == AlarmIdle {
		return
	}
	a.state = AlarmIdle
	close(a.stop)
}

// State returns the current alarm state.
func (a *Alarm) State() AlarmState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// pulse emits one beep per second until stopped. The first beep fires
// immediately so the alarm is audible the moment it starts.
func (a *Alarm) pulse(stop, done chan struct{}) {
	defer close(done)

	if a.beeper != nil {
		a.beeper.Beep()
	}

	ticker := time.NewTicker(pulseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if a.beeper != nil {
				a.beeper.Beep()
			}
		}
	}
}
