package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/domain"
)

// EventService owns the event lifecycle and keeps reminders in step
// with event edits: saving an event with a reminder replaces the old
// one, toggling the reminder off or deleting the event cascades the
// delete.
type EventService struct {
	repo  Repository
	sched *Scheduler
	log   *zap.Logger
}

func NewEventService(repo Repository, sched *Scheduler, log *zap.Logger) *EventService {
	return &EventService{repo: repo, sched: sched, log: log}
}

// Create validates and stores an event. When the event requests a
// reminder, offset says how far before the start it fires; a nil
// offset with HasReminder set uses the 15-minute default. The returned
// error may be domain.ErrUnknownOffsetUnit, in which case the event
// and its fallback reminder were still written.
func (s *EventService) Create(e *domain.Event, offset *domain.Offset) (*domain.Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.ID = uuid.NewString()
	if err := s.repo.CreateEvent(e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if e.HasReminder {
		if _, err := s.sched.ScheduleForEvent(e.OwnerID, e.ID, offsetOrDefault(offset)); err != nil {
			if !errors.Is(err, domain.ErrUnknownOffsetUnit) {
				return nil, fmt.Errorf("schedule reminder: %w", err)
			}
			return e, err
		}
	}

	return e, nil
}

// Update rewrites an event in place and recomputes its reminder:
// replaced when HasReminder is set, cascade-deleted when it was
// toggled off.
func (s *EventService) Update(e *domain.Event, offset *domain.Offset) error {
	if err := e.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetEvent(e.OwnerID, e.ID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.UpdateEvent(e); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	if e.HasReminder {
		_, err = s.sched.ScheduleForEvent(e.OwnerID, e.ID, offsetOrDefault(offset))
		if err != nil && !errors.Is(err, domain.ErrUnknownOffsetUnit) {
			return fmt.Errorf("schedule reminder: %w", err)
		}
		return err
	}
	return s.sched.CancelForSource(e.OwnerID, domain.SourceEvent, e.ID)
}

// Delete removes an event and cascade-deletes any reminder bound to
// it.
func (s *EventService) Delete(ownerID, id string) error {
	existing, err := s.repo.GetEvent(ownerID, id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.sched.CancelForSource(ownerID, domain.SourceEvent, id); err != nil {
		return fmt.Errorf("cancel reminders: %w", err)
	}
	return s.repo.DeleteEvent(ownerID, id)
}

func (s *EventService) Get(ownerID, id string) (*domain.Event, error) {
	e, err := s.repo.GetEvent(ownerID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *EventService) List(ownerID string, limit int) ([]*domain.Event, error) {
	return s.repo.ListEvents(ownerID, limit)
}

func (s *EventService) ForDate(ownerID string, date time.Time) ([]*domain.Event, error) {
	return s.repo.EventsForDate(ownerID, date)
}

func (s *EventService) Upcoming(ownerID string, from time.Time, limit int) ([]*domain.Event, error) {
	return s.repo.UpcomingEvents(ownerID, from, limit)
}

func offsetOrDefault(o *domain.Offset) domain.Offset {
	if o == nil {
		return domain.DefaultOffset
	}
	return *o
}
