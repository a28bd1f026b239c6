package websocket

// Tone describes one audible alarm pulse for connected clients to play.
// The pulse is a two-note chirp: a high note followed by a low note.
type Tone struct {
	HighHz     int `json:"high_hz"`
	LowHz      int `json:"low_hz"`
	DurationMs int `json:"duration_ms"`
}

// AlarmBeeper broadcasts an alarm pulse to all connected clients once per
// second while the alarm is sounding. It satisfies the reminder engine's
// beeper contract.
type AlarmBeeper struct {
	hub *Hub
}

func NewAlarmBeeper(hub *Hub) *AlarmBeeper {
	return &AlarmBeeper{hub: hub}
}

// Beep sends one alarm pulse message.
func (b *AlarmBeeper) Beep() {
	b.hub.BroadcastAlarmPulse(Tone{HighHz: 880, LowHz: 440, DurationMs: 300})
}
