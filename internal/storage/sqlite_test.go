package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanak-app/zamanak/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage_EventCRUD(t *testing.T) {
	s := newTestStorage(t)

	e := &domain.Event{
		ID:          "ev-1",
		OwnerID:     "owner-1",
		Title:       "جلسه کاری",
		Date:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Start:       &domain.Clock{Hour: 10},
		End:         &domain.Clock{Hour: 11, Minute: 30},
		Location:    "دفتر",
		HasReminder: true,
	}
	require.NoError(t, s.CreateEvent(e))

	got, err := s.GetEvent("owner-1", "ev-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Title, got.Title)
	assert.Equal(t, e.Location, got.Location)
	assert.True(t, got.HasReminder)
	require.NotNil(t, got.Start)
	assert.Equal(t, domain.Clock{Hour: 10}, *got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, domain.Clock{Hour: 11, Minute: 30}, *got.End)
	assert.WithinDuration(t, e.Date, got.Date, time.Second)

	got.Title = "جلسه تیم"
	got.HasReminder = false
	require.NoError(t, s.UpdateEvent(got))

	got, err = s.GetEvent("owner-1", "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "جلسه تیم", got.Title)
	assert.False(t, got.HasReminder)

	require.NoError(t, s.DeleteEvent("owner-1", "ev-1"))
	got, err = s.GetEvent("owner-1", "ev-1")
	require.NoError(t, err)
	assert.Nil(t, got, "missing rows come back as nil, nil")
}

func TestStorage_GetEvent_WrongOwner(t *testing.T) {
	s := newTestStorage(t)

	e := &domain.Event{
		ID:      "ev-1",
		OwnerID: "owner-1",
		Title:   "private",
		Date:    time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}
	require.NoError(t, s.CreateEvent(e))

	got, err := s.GetEvent("owner-2", "ev-1")
	require.NoError(t, err)
	assert.Nil(t, got, "events are owner-scoped")
}

func TestStorage_AllDayEvent_NilClocks(t *testing.T) {
	s := newTestStorage(t)

	e := &domain.Event{
		ID:      "ev-1",
		OwnerID: "owner-1",
		Title:   "تعطیلات",
		Date:    time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}
	require.NoError(t, s.CreateEvent(e))

	got, err := s.GetEvent("owner-1", "ev-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.AllDay)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.End)
}

func TestStorage_EventsForDate(t *testing.T) {
	s := newTestStorage(t)
	day := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	mk := func(id string, date time.Time, allDay bool, start *domain.Clock) {
		end := (*domain.Clock)(nil)
		if start != nil {
			e := *start
			e.Hour++
			end = &e
		}
		require.NoError(t, s.CreateEvent(&domain.Event{
			ID: id, OwnerID: "owner-1", Title: id, Date: date,
			AllDay: allDay, Start: start, End: end,
		}))
	}

	mk("timed-late", day, false, &domain.Clock{Hour: 14})
	mk("timed-early", day, false, &domain.Clock{Hour: 9})
	mk("all-day", day, true, nil)
	mk("other-day", day.AddDate(0, 0, 1), true, nil)

	got, err := s.EventsForDate("owner-1", day)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "all-day", got[0].ID, "all-day events sort first")
	assert.Equal(t, "timed-early", got[1].ID)
	assert.Equal(t, "timed-late", got[2].ID)
}

func TestStorage_UpcomingEvents(t *testing.T) {
	s := newTestStorage(t)
	day := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"past", "today", "next-week"} {
		require.NoError(t, s.CreateEvent(&domain.Event{
			ID: id, OwnerID: "owner-1", Title: id,
			Date:   day.AddDate(0, 0, (i-1)*7),
			AllDay: true,
		}))
	}

	got, err := s.UpcomingEvents("owner-1", day, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].ID)
	assert.Equal(t, "next-week", got[1].ID)

	// Limit 0 means unlimited, same as ListEvents.
	got, err = s.UpcomingEvents("owner-1", day, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.UpcomingEvents("owner-1", day, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "today", got[0].ID)
}

func TestStorage_TaskCRUD(t *testing.T) {
	s := newTestStorage(t)

	task := &domain.Task{
		ID:       "task-1",
		OwnerID:  "owner-1",
		Title:    "پرداخت اجاره",
		DueDate:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Priority: domain.PriorityHigh,
	}
	require.NoError(t, s.CreateTask(task))

	got, err := s.GetTask("owner-1", "task-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletionDate)

	done := time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)
	got.Completed = true
	got.CompletionDate = &done
	require.NoError(t, s.UpdateTask(got))

	got, err = s.GetTask("owner-1", "task-1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletionDate)
	assert.WithinDuration(t, done, *got.CompletionDate, time.Second)

	require.NoError(t, s.DeleteTask("owner-1", "task-1"))
	got, err = s.GetTask("owner-1", "task-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_ListTasks_PriorityOrder(t *testing.T) {
	s := newTestStorage(t)
	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	mk := func(id string, p domain.Priority, completed bool) {
		require.NoError(t, s.CreateTask(&domain.Task{
			ID: id, OwnerID: "owner-1", Title: id,
			DueDate: due, Priority: p, Completed: completed,
		}))
	}
	mk("low", domain.PriorityLow, false)
	mk("high", domain.PriorityHigh, false)
	mk("medium", domain.PriorityMedium, false)
	mk("done", domain.PriorityHigh, true)

	open, err := s.ListTasks("owner-1", false)
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "high", open[0].ID)
	assert.Equal(t, "medium", open[1].ID)
	assert.Equal(t, "low", open[2].ID)

	all, err := s.ListTasks("owner-1", true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestStorage_ReplaceReminderForSource(t *testing.T) {
	s := newTestStorage(t)
	fire := time.Date(2024, 3, 20, 8, 45, 0, 0, time.UTC)

	first := &domain.Reminder{
		ID: "rem-1", OwnerID: "owner-1",
		SourceType: domain.SourceEvent, SourceID: "ev-1",
		FireTime: fire, Status: domain.StatusPending,
	}
	require.NoError(t, s.ReplaceReminderForSource(first))

	// A second replace for the same source must leave exactly one row.
	second := &domain.Reminder{
		ID: "rem-2", OwnerID: "owner-1",
		SourceType: domain.SourceEvent, SourceID: "ev-1",
		FireTime: fire.Add(-time.Hour), Status: domain.StatusPending,
	}
	require.NoError(t, s.ReplaceReminderForSource(second))

	got, err := s.RemindersForSource("owner-1", domain.SourceEvent, "ev-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rem-2", got[0].ID)
	assert.WithinDuration(t, fire.Add(-time.Hour), got[0].FireTime, time.Second)
}

func TestStorage_ReplaceReminder_SameSourceIDDifferentType(t *testing.T) {
	s := newTestStorage(t)
	fire := time.Date(2024, 3, 20, 8, 45, 0, 0, time.UTC)

	// An event and a task can share an id value; their reminders must
	// not clobber each other.
	require.NoError(t, s.ReplaceReminderForSource(&domain.Reminder{
		ID: "rem-ev", OwnerID: "owner-1",
		SourceType: domain.SourceEvent, SourceID: "shared",
		FireTime: fire, Status: domain.StatusPending,
	}))
	require.NoError(t, s.ReplaceReminderForSource(&domain.Reminder{
		ID: "rem-task", OwnerID: "owner-1",
		SourceType: domain.SourceTask, SourceID: "shared",
		FireTime: fire, Status: domain.StatusPending,
	}))

	ev, err := s.RemindersForSource("owner-1", domain.SourceEvent, "shared")
	require.NoError(t, err)
	assert.Len(t, ev, 1)

	task, err := s.RemindersForSource("owner-1", domain.SourceTask, "shared")
	require.NoError(t, err)
	assert.Len(t, task, 1)
}

func TestStorage_DueReminders(t *testing.T) {
	s := newTestStorage(t)
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	mk := func(id string, fire time.Time, status domain.ReminderStatus) {
		require.NoError(t, s.InsertReminder(&domain.Reminder{
			ID: id, OwnerID: "owner-1",
			SourceType: domain.SourceTask, SourceID: id,
			FireTime: fire, Status: status,
		}))
	}
	mk("overdue", now.Add(-time.Hour), domain.StatusPending)
	mk("exactly-now", now, domain.StatusPending)
	mk("future", now.Add(time.Hour), domain.StatusPending)
	mk("already-sent", now.Add(-time.Hour), domain.StatusNotified)

	due, err := s.DueReminders(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "overdue", due[0].ID)
	assert.Equal(t, "exactly-now", due[1].ID)
}

func TestStorage_MarkReminderNotified(t *testing.T) {
	s := newTestStorage(t)
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertReminder(&domain.Reminder{
		ID: "rem-1", OwnerID: "owner-1",
		SourceType: domain.SourceTask, SourceID: "task-1",
		FireTime: now.Add(-time.Minute), Status: domain.StatusPending,
	}))

	require.NoError(t, s.MarkReminderNotified("rem-1"))

	got, err := s.GetReminder("rem-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusNotified, got.Status)

	due, err := s.DueReminders(now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestStorage_DeleteRemindersForSource_Idempotent(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.DeleteRemindersForSource("owner-1", domain.SourceEvent, "nope"))

	require.NoError(t, s.InsertReminder(&domain.Reminder{
		ID: "rem-1", OwnerID: "owner-1",
		SourceType: domain.SourceEvent, SourceID: "ev-1",
		FireTime: time.Now(), Status: domain.StatusPending,
	}))
	require.NoError(t, s.DeleteRemindersForSource("owner-1", domain.SourceEvent, "ev-1"))

	got, err := s.RemindersForSource("owner-1", domain.SourceEvent, "ev-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_UpcomingReminders(t *testing.T) {
	s := newTestStorage(t)
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	mk := func(id string, fire time.Time) {
		require.NoError(t, s.InsertReminder(&domain.Reminder{
			ID: id, OwnerID: "owner-1",
			SourceType: domain.SourceTask, SourceID: id,
			FireTime: fire, Status: domain.StatusPending,
		}))
	}
	mk("soon", now.Add(time.Hour))
	mk("later", now.Add(2*time.Hour))
	mk("past", now.Add(-time.Hour))

	got, err := s.UpcomingReminders("owner-1", now, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].ID)
	assert.Equal(t, "later", got[1].ID)
}
