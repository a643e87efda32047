package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/domain"
)

// TaskService owns the task lifecycle: create/update/delete with
// reminder wiring, plus the complete/restore transitions.
type TaskService struct {
	repo  Repository
	sched *Scheduler
	log   *zap.Logger
	now   func() time.Time
}

func NewTaskService(repo Repository, sched *Scheduler, log *zap.Logger) *TaskService {
	return &TaskService{repo: repo, sched: sched, log: log, now: time.Now}
}

// Create validates and stores a task, scheduling its reminder when
// requested. Same warning contract as EventService.Create.
func (s *TaskService) Create(t *domain.Task, offset *domain.Offset) (*domain.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.ID = uuid.NewString()
	if err := s.repo.CreateTask(t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if t.HasReminder {
		if _, err := s.sched.ScheduleForTask(t.OwnerID, t.ID, offsetOrDefault(offset)); err != nil {
			if !errors.Is(err, domain.ErrUnknownOffsetUnit) {
				return nil, fmt.Errorf("schedule reminder: %w", err)
			}
			return t, err
		}
	}

	return t, nil
}

// Update rewrites a task in place and recomputes its reminder, with
// the same replace/cascade semantics as events.
func (s *TaskService) Update(t *domain.Task, offset *domain.Offset) error {
	if err := t.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetTask(t.OwnerID, t.ID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.UpdateTask(t); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if t.HasReminder && !t.Completed {
		_, err = s.sched.ScheduleForTask(t.OwnerID, t.ID, offsetOrDefault(offset))
		if err != nil && !errors.Is(err, domain.ErrUnknownOffsetUnit) {
			return fmt.Errorf("schedule reminder: %w", err)
		}
		return err
	}
	return s.sched.CancelForSource(t.OwnerID, domain.SourceTask, t.ID)
}

// Delete removes a task and cascade-deletes any reminder bound to it.
func (s *TaskService) Delete(ownerID, id string) error {
	existing, err := s.repo.GetTask(ownerID, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.sched.CancelForSource(ownerID, domain.SourceTask, id); err != nil {
		return fmt.Errorf("cancel reminders: %w", err)
	}
	return s.repo.DeleteTask(ownerID, id)
}

// Complete marks a task done, stamps the completion date and deletes
// its reminders: a finished task has nothing left to fire for.
func (s *TaskService) Complete(ownerID, id string) (*domain.Task, error) {
	t, err := s.repo.GetTask(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	done := s.now()
	t.Completed = true
	t.CompletionDate = &done
	if err := s.repo.UpdateTask(t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := s.sched.CancelForSource(ownerID, domain.SourceTask, id); err != nil {
		return nil, fmt.Errorf("cancel reminders: %w", err)
	}
	return t, nil
}

// Restore moves a completed task back to pending. If the task had a
// reminder, a fresh one is created with the default 15-minute offset.
// The original offset is not recalled: reminders store only the
// computed fire time, so after a replace the offset is gone.
func (s *TaskService) Restore(ownerID, id string) (*domain.Task, error) {
	t, err := s.repo.GetTask(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	t.Completed = false
	t.CompletionDate = nil
	if err := s.repo.UpdateTask(t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if t.HasReminder {
		if _, err := s.sched.ScheduleForTask(ownerID, id, domain.DefaultOffset); err != nil {
			return nil, fmt.Errorf("reschedule reminder: %w", err)
		}
	}
	return t, nil
}

func (s *TaskService) Get(ownerID, id string) (*domain.Task, error) {
	t, err := s.repo.GetTask(ownerID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *TaskService) List(ownerID string, includeCompleted bool) ([]*domain.Task, error) {
	return s.repo.ListTasks(ownerID, includeCompleted)
}
