package domain

import "time"

// SourceType identifies the kind of item a reminder is bound to.
type SourceType string

const (
	SourceEvent SourceType = "event"
	SourceTask  SourceType = "task"
)

// Valid reports whether st is one of the two known source types.
func (st SourceType) Valid() bool {
	return st == SourceEvent || st == SourceTask
}

// ReminderStatus is the reminder state machine: a reminder starts
// pending and becomes notified once dispatched. Notified is terminal
// for the row; an edit creates a fresh row instead of resurrecting it.
type ReminderStatus string

const (
	StatusPending  ReminderStatus = "pending"
	StatusNotified ReminderStatus = "notified"
)

// Reminder is a scheduled notification bound to exactly one source
// item. The engine keeps at most one active reminder per source: saving
// a source's reminder replaces any prior rows for that
// (SourceType, SourceID) pair.
type Reminder struct {
	ID         string
	OwnerID    string
	SourceType SourceType
	SourceID   string
	FireTime   time.Time
	Status     ReminderStatus
	CreatedAt  time.Time
}

// Pending reports whether the reminder has not been dispatched yet.
func (r *Reminder) Pending() bool {
	return r.Status == StatusPending
}

// Due reports whether the reminder should fire at or before now.
func (r *Reminder) Due(now time.Time) bool {
	return r.Pending() && !r.FireTime.After(now)
}
