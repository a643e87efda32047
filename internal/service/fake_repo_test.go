package service

import (
	"sort"
	"time"

	"github.com/zamanak-app/zamanak/internal/domain"
)

// fakeRepo is an in-memory Repository for service tests. It mirrors the
// SQLite contract: Get methods return (nil, nil) for missing rows and
// ReplaceReminderForSource is atomic per source.
type fakeRepo struct {
	events    map[string]*domain.Event
	tasks     map[string]*domain.Task
	reminders map[string]*domain.Reminder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:    make(map[string]*domain.Event),
		tasks:     make(map[string]*domain.Task),
		reminders: make(map[string]*domain.Reminder),
	}
}

func (f *fakeRepo) CreateEvent(e *domain.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeRepo) GetEvent(ownerID, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) UpdateEvent(e *domain.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteEvent(ownerID, id string) error {
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) ListEvents(ownerID string, limit int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) EventsForDate(ownerID string, date time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	y, m, d := date.Date()
	for _, e := range f.events {
		ey, em, ed := e.Date.Date()
		if e.OwnerID == ownerID && ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpcomingEvents(ownerID string, from time.Time, limit int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID && !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) CreateTask(t *domain.Task) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetTask(ownerID, id string) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) UpdateTask(t *domain.Task) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteTask(ownerID, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeRepo) ListTasks(ownerID string, includeCompleted bool) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.OwnerID == ownerID && (includeCompleted || !t.Completed) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetReminder(id string) (*domain.Reminder, error) {
	r, ok := f.reminders[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) RemindersForSource(ownerID string, st domain.SourceType, sourceID string) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, r := range f.reminders {
		if r.OwnerID == ownerID && r.SourceType == st && r.SourceID == sourceID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireTime.Before(out[j].FireTime) })
	return out, nil
}

func (f *fakeRepo) ReplaceReminderForSource(r *domain.Reminder) error {
	for id, old := range f.reminders {
		if old.OwnerID == r.OwnerID && old.SourceType == r.SourceType && old.SourceID == r.SourceID {
			delete(f.reminders, id)
		}
	}
	cp := *r
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteRemindersForSource(ownerID string, st domain.SourceType, sourceID string) error {
	for id, r := range f.reminders {
		if r.OwnerID == ownerID && r.SourceType == st && r.SourceID == sourceID {
			delete(f.reminders, id)
		}
	}
	return nil
}

func (f *fakeRepo) MarkReminderNotified(id string) error {
	if r, ok := f.reminders[id]; ok {
		r.Status = domain.StatusNotified
	}
	return nil
}

func (f *fakeRepo) DueReminders(now time.Time) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, r := range f.reminders {
		if r.Due(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireTime.Before(out[j].FireTime) })
	return out, nil
}

func (f *fakeRepo) UpcomingReminders(ownerID string, now time.Time, limit int) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, r := range f.reminders {
		if r.OwnerID == ownerID && r.Pending() && r.FireTime.After(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireTime.Before(out[j].FireTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
