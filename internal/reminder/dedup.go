package reminder

import (
	"fmt"
	"time"

	"eliteagenda/internal/model"
)

// Only "today" and "yesterday" keys can ever affect future comparisons, so
// two days of retention is safe for both key shapes.
const dedupRetention = 48 * time.Hour

// dedupSet remembers which trigger occurrences have already fired. Keys are
// time-indexed and pruned on each scheduler tick to bound growth.
type dedupSet struct {
	fired map[string]time.Time
}

func newDedupSet() *dedupSet {
	return &dedupSet{fired: make(map[string]time.Time)}
}

// key builds the dedup key for an event's trigger occurrence. Daily events
// key on the calendar date so they fire at most once per day; one-time
// events fire at most once ever.
func (d *dedupSet) key(e model.Event, lead int, day time.Time) string {
	if e.Recurrence == model.RecurrenceDaily {
		return fmt.Sprintf("%d:%d:%s", e.ID, lead, day.Format("2006-01-02"))
	}
	return fmt.Sprintf("%d:%d", e.ID, lead)
}

func (d *dedupSet) contains(key string) bool {
	_, ok := d.fired[key]
	return ok
}

func (d *dedupSet) add(key string, at time.Time) {
	d.fired[key] = at
}

func (d *dedupSet) prune(now time.Time) {
	for key, at := range d.fired {
		if now.Sub(at) > dedupRetention {
			delete(d.fired, key)
		}
	}
}

func (d *dedupSet) len() int {
	return len(d.fired)
}
