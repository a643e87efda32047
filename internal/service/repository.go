package service

import (
	"time"

	"github.com/zamanak-app/zamanak/internal/domain"
)

// Repository is the narrow persistence port the services need. The
// SQLite implementation lives in internal/storage; tests substitute an
// in-memory fake. Get methods return (nil, nil) for missing rows.
type Repository interface {
	CreateEvent(e *domain.Event) error
	GetEvent(ownerID, id string) (*domain.Event, error)
	UpdateEvent(e *domain.Event) error
	DeleteEvent(ownerID, id string) error
	ListEvents(ownerID string, limit int) ([]*domain.Event, error)
	EventsForDate(ownerID string, date time.Time) ([]*domain.Event, error)
	UpcomingEvents(ownerID string, from time.Time, limit int) ([]*domain.Event, error)

	CreateTask(t *domain.Task) error
	GetTask(ownerID, id string) (*domain.Task, error)
	UpdateTask(t *domain.Task) error
	DeleteTask(ownerID, id string) error
	ListTasks(ownerID string, includeCompleted bool) ([]*domain.Task, error)

	GetReminder(id string) (*domain.Reminder, error)
	RemindersForSource(ownerID string, st domain.SourceType, sourceID string) ([]*domain.Reminder, error)
	ReplaceReminderForSource(r *domain.Reminder) error
	DeleteRemindersForSource(ownerID string, st domain.SourceType, sourceID string) error
	MarkReminderNotified(id string) error
	DueReminders(now time.Time) ([]*domain.Reminder, error)
	UpcomingReminders(ownerID string, now time.Time, limit int) ([]*domain.Reminder, error)
}
