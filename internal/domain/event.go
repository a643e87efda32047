package domain

import (
	"strings"
	"time"
)

// Event is a schedulable calendar item. Date carries only the civil
// date; Start and End are times of day on that date and are required
// unless the event is all-day.
type Event struct {
	ID          string
	OwnerID     string
	Title       string
	Date        time.Time
	Start       *Clock
	End         *Clock
	Location    string
	Description string
	AllDay      bool
	HasReminder bool
	CreatedAt   time.Time
}

// Validate checks the event invariants before any write.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return invalid("title", "cannot be empty")
	}
	if e.OwnerID == "" {
		return invalid("owner", "cannot be empty")
	}
	if e.Date.IsZero() {
		return invalid("date", "cannot be empty")
	}
	if e.AllDay {
		return nil
	}
	if e.Start == nil || e.End == nil {
		return invalid("time", "start and end are required unless all-day")
	}
	if !e.Start.Before(*e.End) {
		return invalid("time", "start must be before end")
	}
	return nil
}

// StartOn returns the event's start instant on its date in loc. For
// all-day events the day begins at midnight; the reminder anchor for
// those is resolved by the scheduler, not here.
func (e *Event) StartOn(loc *time.Location) time.Time {
	if e.AllDay || e.Start == nil {
		y, m, d := e.Date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return e.Start.On(e.Date, loc)
}

// EndOn returns the event's end instant on its date in loc. All-day
// events end at 23:59.
func (e *Event) EndOn(loc *time.Location) time.Time {
	if e.AllDay || e.End == nil {
		y, m, d := e.Date.Date()
		return time.Date(y, m, d, 23, 59, 0, 0, loc)
	}
	return e.End.On(e.Date, loc)
}
