package recurrence

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"eliteagenda/internal/model"
)

// Safety cap so a daily event queried over a huge range cannot blow up the
// response.
const maxOccurrencesPerEvent = 1000

// Expand turns a list of events into concrete occurrences within
// [rangeStart, rangeEnd). Non-recurring events yield one occurrence when
// they overlap the range; daily events yield one per day at the event's
// time of day, starting from the event's anchor date.
func Expand(events []model.Event, rangeStart, rangeEnd time.Time) ([]model.Occurrence, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, errors.New("expand: range end is before range start")
	}

	var out []model.Occurrence
	for _, e := range events {
		switch e.Recurrence {
		case model.RecurrenceDaily:
			occ, err := expandDaily(e, rangeStart, rangeEnd)
			if err != nil {
				return nil, err
			}
			out = append(out, occ...)
		default:
			if overlaps(e.StartTime, e.EndTime, rangeStart, rangeEnd) {
				out = append(out, model.Occurrence{
					Event:           e,
					OccurrenceStart: e.StartTime,
					OccurrenceEnd:   e.EndTime,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurrenceStart.Before(out[j].OccurrenceStart)
	})
	return out, nil
}

func expandDaily(e model.Event, rangeStart, rangeEnd time.Time) ([]model.Occurrence, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: e.StartTime,
	})
	if err != nil {
		return nil, err
	}

	duration := e.EndTime.Sub(e.StartTime)
	if duration < 0 {
		duration = 0
	}

	times := r.Between(rangeStart, rangeEnd, true)
	if len(times) > maxOccurrencesPerEvent {
		times = times[:maxOccurrencesPerEvent]
	}

	occ := make([]model.Occurrence, 0, len(times))
	for _, start := range times {
		// Between is inclusive on both ends; keep the range half-open.
		if !start.Before(rangeEnd) {
			continue
		}
		occ = append(occ, model.Occurrence{
			Event:           e,
			OccurrenceStart: start,
			OccurrenceEnd:   start.Add(duration),
		})
	}
	return occ, nil
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
