package storage

import (
	"database/sql"
	"time"

	"github.com/zamanak-app/zamanak/internal/domain"
)

const reminderColumns = `id, owner_id, source_type, source_id, fire_time, status, created_at`

func (s *Storage) InsertReminder(r *domain.Reminder) error {
	_, err := s.db.Exec(
		`INSERT INTO reminders (id, owner_id, source_type, source_id, fire_time, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.SourceType, r.SourceID, r.FireTime, r.Status,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "insert reminder", Err: err}
	}
	r.CreatedAt = time.Now()
	return nil
}

// ReplaceReminderForSource deletes any prior reminder rows for the new
// reminder's source and inserts the new row in a single transaction, so
// a concurrent reader never observes the source with zero reminders
// mid-replace. Failures roll back and surface as retryable.
func (s *Storage) ReplaceReminderForSource(r *domain.Reminder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &domain.RepositoryError{Op: "replace reminder: begin", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM reminders WHERE owner_id = ? AND source_type = ? AND source_id = ?`,
		r.OwnerID, r.SourceType, r.SourceID,
	); err != nil {
		return &domain.RepositoryError{Op: "replace reminder: delete", Err: err}
	}

	if _, err := tx.Exec(
		`INSERT INTO reminders (id, owner_id, source_type, source_id, fire_time, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.SourceType, r.SourceID, r.FireTime, r.Status,
	); err != nil {
		return &domain.RepositoryError{Op: "replace reminder: insert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.RepositoryError{Op: "replace reminder: commit", Err: err}
	}
	r.CreatedAt = time.Now()
	return nil
}

// DeleteRemindersForSource removes all reminder rows for a source.
// Deleting a source with no reminders is not an error.
func (s *Storage) DeleteRemindersForSource(ownerID string, st domain.SourceType, sourceID string) error {
	_, err := s.db.Exec(
		`DELETE FROM reminders WHERE owner_id = ? AND source_type = ? AND source_id = ?`,
		ownerID, st, sourceID,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "delete reminders", Err: err}
	}
	return nil
}

func (s *Storage) GetReminder(id string) (*domain.Reminder, error) {
	r := &domain.Reminder{}
	err := s.db.QueryRow(
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.OwnerID, &r.SourceType, &r.SourceID, &r.FireTime, &r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *Storage) RemindersForSource(ownerID string, st domain.SourceType, sourceID string) ([]*domain.Reminder, error) {
	return s.queryReminders(
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE owner_id = ? AND source_type = ? AND source_id = ?
		 ORDER BY fire_time`,
		ownerID, st, sourceID,
	)
}

// DueReminders returns all pending reminders with a fire time at or
// before now, across owners; the dispatch loop consumes this.
func (s *Storage) DueReminders(now time.Time) ([]*domain.Reminder, error) {
	return s.queryReminders(
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status = ? AND fire_time <= ?
		 ORDER BY fire_time`,
		domain.StatusPending, now,
	)
}

// UpcomingReminders returns pending reminders after now, soonest first.
func (s *Storage) UpcomingReminders(ownerID string, now time.Time, limit int) ([]*domain.Reminder, error) {
	return s.queryReminders(
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE owner_id = ? AND status = ? AND fire_time > ?
		 ORDER BY fire_time LIMIT ?`,
		ownerID, domain.StatusPending, now, limit,
	)
}

func (s *Storage) MarkReminderNotified(id string) error {
	_, err := s.db.Exec(
		`UPDATE reminders SET status = ? WHERE id = ?`,
		domain.StatusNotified, id,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "mark reminder notified", Err: err}
	}
	return nil
}

func (s *Storage) queryReminders(query string, args ...any) ([]*domain.Reminder, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &domain.RepositoryError{Op: "query reminders", Err: err}
	}
	defer rows.Close()

	var reminders []*domain.Reminder
	for rows.Next() {
		r := &domain.Reminder{}
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.SourceType, &r.SourceID,
			&r.FireTime, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
