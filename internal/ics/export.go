package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"eliteagenda/internal/model"
)

// Export serializes the agenda as an iCalendar document. Daily-recurring
// events carry an RRULE so external calendars expand them themselves.
func Export(events []model.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//eliteagenda//agenda//EN")

	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("event-%d@eliteagenda", e.ID))
		ev.SetDtStampTime(now.UTC())
		ev.SetCreatedTime(e.CreatedAt.UTC())
		ev.SetStartAt(e.StartTime.UTC())
		ev.SetEndAt(e.EndTime.UTC())
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.Recurrence == model.RecurrenceDaily {
			ev.AddRrule("FREQ=DAILY")
		}
	}

	return cal.Serialize()
}
