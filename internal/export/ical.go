// Package export serializes the local schedule to iCalendar, so events
// and tasks can be viewed in any standard calendar application.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/zamanak-app/zamanak/internal/domain"
)

const (
	compToDo    = "VTODO"
	compAlarm   = "VALARM"
	propDue     = "DUE"
	propAction  = "ACTION"
	propTrigger = "TRIGGER"
)

// Exporter builds iCalendar documents from the domain model.
type Exporter struct {
	timezone *time.Location
}

func NewExporter(tz *time.Location) *Exporter {
	return &Exporter{timezone: tz}
}

// WriteICS encodes events and tasks as a single VCALENDAR stream.
// reminders maps a source id to its pending reminder, attached as a
// VALARM with a relative trigger.
func (x *Exporter) WriteICS(w io.Writer, events []*domain.Event, tasks []*domain.Task, reminders map[string]*domain.Reminder) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//zamanak//calendar//FA")

	now := time.Now().UTC()

	for _, e := range events {
		cal.Children = append(cal.Children, x.eventComponent(e, reminders[e.ID], now))
	}
	for _, t := range tasks {
		cal.Children = append(cal.Children, x.taskComponent(t, reminders[t.ID], now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func (x *Exporter) eventComponent(e *domain.Event, r *domain.Reminder, now time.Time) *ical.Component {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, e.ID)
	vevent.Props.SetText(ical.PropSummary, e.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)

	if e.Description != "" {
		vevent.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		vevent.Props.SetText(ical.PropLocation, e.Location)
	}

	if e.AllDay {
		vevent.Props.SetDate(ical.PropDateTimeStart, e.Date)
		if r != nil && r.Pending() {
			// All-day reminders anchor at 09:00, same as scheduling.
			anchor := domain.Clock{Hour: 9}.On(e.Date, x.timezone)
			vevent.Children = append(vevent.Children, alarmComponent(anchor, r))
		}
	} else {
		start := e.StartOn(x.timezone)
		vevent.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, e.EndOn(x.timezone).UTC())
		if r != nil && r.Pending() {
			vevent.Children = append(vevent.Children, alarmComponent(start, r))
		}
	}

	return vevent.Component
}

func (x *Exporter) taskComponent(t *domain.Task, r *domain.Reminder, now time.Time) *ical.Component {
	vtodo := &ical.Component{Name: compToDo, Props: make(ical.Props)}
	vtodo.Props.SetText(ical.PropUID, t.ID)
	vtodo.Props.SetText(ical.PropSummary, t.Title)
	vtodo.Props.SetDateTime(ical.PropDateTimeStamp, now)
	vtodo.Props.SetDate(propDue, t.DueDate)

	if t.Description != "" {
		vtodo.Props.SetText(ical.PropDescription, t.Description)
	}
	if t.Completed {
		vtodo.Props.SetText(ical.PropStatus, "COMPLETED")
	} else {
		vtodo.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
		if r != nil && r.Pending() {
			// Task reminders anchor at 09:00 on the due date.
			anchor := domain.Clock{Hour: 9}.On(t.DueDate, x.timezone)
			vtodo.Children = append(vtodo.Children, alarmComponent(anchor, r))
		}
	}

	return vtodo
}

// alarmComponent renders a reminder as a display alarm with a relative
// trigger, recovered from the stored fire time and the source anchor.
func alarmComponent(anchor time.Time, r *domain.Reminder) *ical.Component {
	alarm := &ical.Component{Name: compAlarm, Props: make(ical.Props)}
	alarm.Props.SetText(propAction, "DISPLAY")
	alarm.Props.SetText(propTrigger, triggerValue(anchor.Sub(r.FireTime)))
	alarm.Props.SetText(ical.PropDescription, "یادآوری")
	return alarm
}

// triggerValue formats a "fires d before the anchor" duration as an
// iCalendar negative duration (e.g. -PT15M, -P1D).
func triggerValue(before time.Duration) string {
	if before < 0 {
		before = 0
	}
	minutes := int(before / time.Minute)
	days := minutes / (24 * 60)
	minutes -= days * 24 * 60
	hours := minutes / 60
	minutes -= hours * 60

	s := "-P"
	if days > 0 {
		s += fmt.Sprintf("%dD", days)
	}
	if hours > 0 || minutes > 0 || days == 0 {
		s += "T"
		if hours > 0 {
			s += fmt.Sprintf("%dH", hours)
		}
		if minutes > 0 || (hours == 0 && days == 0) {
			s += fmt.Sprintf("%dM", minutes)
		}
	}
	return s
}
