package domain

import (
	"strings"
	"time"
)

// Priority is the closed priority set for tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a string to a Priority, rejecting anything outside
// the closed set.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", invalid("priority", "must be one of low, medium, high")
	}
}

// Valid reports whether p is in the closed set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a schedulable to-do item with a due date.
type Task struct {
	ID             string
	OwnerID        string
	Title          string
	DueDate        time.Time
	Priority       Priority
	Description    string
	Completed      bool
	CompletionDate *time.Time
	HasReminder    bool
	CreatedAt      time.Time
}

// Validate checks the task invariants before any write.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "cannot be empty")
	}
	if t.OwnerID == "" {
		return invalid("owner", "cannot be empty")
	}
	if t.DueDate.IsZero() {
		return invalid("due date", "cannot be empty")
	}
	if !t.Priority.Valid() {
		return invalid("priority", "must be one of low, medium, high")
	}
	if !t.Completed && t.CompletionDate != nil {
		return invalid("completion date", "must be empty while pending")
	}
	if t.Completed && t.CompletionDate == nil {
		return invalid("completion date", "required once completed")
	}
	return nil
}
