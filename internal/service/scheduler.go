package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/domain"
)

// DefaultAnchor is the time of day reminders for all-day events and
// tasks are measured from.
var DefaultAnchor = domain.Clock{Hour: 9}

// Scheduler computes reminder fire times and owns the reminder
// lifecycle: create, replace-on-edit, cascade-delete, mark-notified.
// One Scheduler per process, constructed with its collaborators; there
// is no hidden global state.
type Scheduler struct {
	repo     Repository
	log      *zap.Logger
	timezone *time.Location
	anchor   domain.Clock

	mu      sync.Mutex
	sources map[string]*sync.Mutex
}

func NewScheduler(repo Repository, log *zap.Logger, tz *time.Location) *Scheduler {
	return &Scheduler{
		repo:     repo,
		log:      log,
		timezone: tz,
		anchor:   DefaultAnchor,
		sources:  make(map[string]*sync.Mutex),
	}
}

// SetAnchor overrides the default 09:00 anchor used for all-day events
// and tasks.
func (s *Scheduler) SetAnchor(c domain.Clock) {
	s.anchor = c
}

// sourceLock serializes the delete-then-insert replace sequence per
// (source type, source id), so two concurrent edits of the same source
// cannot interleave into duplicate or zero reminders.
func (s *Scheduler) sourceLock(st domain.SourceType, id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(st) + ":" + id
	m, ok := s.sources[key]
	if !ok {
		m = &sync.Mutex{}
		s.sources[key] = m
	}
	return m
}

// ScheduleForEvent computes and stores the reminder for an event. The
// anchor is the event's start time, or 09:00 on the event date for
// all-day events; the reminder fires offset before the anchor. Any
// prior reminder for the event is replaced. An unknown offset unit
// falls back to 15 minutes: the reminder is still written and the call
// returns it together with domain.ErrUnknownOffsetUnit so callers see
// the degradation.
func (s *Scheduler) ScheduleForEvent(ownerID, eventID string, offset domain.Offset) (*domain.Reminder, error) {
	if err := offset.Validate(); err != nil {
		return nil, err
	}

	ev, err := s.repo.GetEvent(ownerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, domain.ErrNotFound
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	var anchor time.Time
	if ev.AllDay {
		anchor = s.anchor.On(ev.Date, s.timezone)
	} else {
		anchor = ev.Start.On(ev.Date, s.timezone)
	}

	return s.schedule(ownerID, domain.SourceEvent, eventID, anchor, offset)
}

// ScheduleForTask computes and stores the reminder for a task. Tasks
// carry no time of day, so the anchor is 09:00 on the due date. Offset
// and replace semantics match ScheduleForEvent.
func (s *Scheduler) ScheduleForTask(ownerID, taskID string, offset domain.Offset) (*domain.Reminder, error) {
	if err := offset.Validate(); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTask(ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}

	anchor := s.anchor.On(task.DueDate, s.timezone)
	return s.schedule(ownerID, domain.SourceTask, taskID, anchor, offset)
}

func (s *Scheduler) schedule(ownerID string, st domain.SourceType, sourceID string, anchor time.Time, offset domain.Offset) (*domain.Reminder, error) {
	dur, known := offset.Duration()
	if !known {
		s.log.Warn("unknown reminder offset unit, falling back to 15 minutes",
			zap.String("source_type", string(st)),
			zap.String("source_id", sourceID),
			zap.String("unit", string(offset.Unit)))
	}

	r := &domain.Reminder{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		SourceType: st,
		SourceID:   sourceID,
		FireTime:   anchor.Add(-dur),
		Status:     domain.StatusPending,
	}

	lock := s.sourceLock(st, sourceID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.ReplaceReminderForSource(r); err != nil {
		return nil, err
	}

	if !known {
		return r, domain.ErrUnknownOffsetUnit
	}
	return r, nil
}

// CancelForSource deletes every reminder bound to a source. It is
// idempotent: cancelling a source with no reminders succeeds.
func (s *Scheduler) CancelForSource(ownerID string, st domain.SourceType, sourceID string) error {
	lock := s.sourceLock(st, sourceID)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.DeleteRemindersForSource(ownerID, st, sourceID)
}

// MarkNotified transitions a reminder from pending to notified. A
// second call on the same reminder is a no-op; an unknown id is
// domain.ErrNotFound.
func (s *Scheduler) MarkNotified(reminderID string) error {
	r, err := s.repo.GetReminder(reminderID)
	if err != nil {
		return fmt.Errorf("get reminder: %w", err)
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if r.Status == domain.StatusNotified {
		return nil
	}
	return s.repo.MarkReminderNotified(reminderID)
}

// RemindersForSource lists the reminders bound to a source, soonest
// first.
func (s *Scheduler) RemindersForSource(ownerID string, st domain.SourceType, sourceID string) ([]*domain.Reminder, error) {
	return s.repo.RemindersForSource(ownerID, st, sourceID)
}
