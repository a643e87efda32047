package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zamanak-app/zamanak/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// Storage is the SQLite-backed schedule repository. Missing rows are
// reported as (nil, nil) from the Get methods; services translate that
// to domain.ErrNotFound.
type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			date DATETIME NOT NULL,
			start_time TEXT,
			end_time TEXT,
			location TEXT DEFAULT '',
			description TEXT DEFAULT '',
			all_day INTEGER DEFAULT 0,
			has_reminder INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			due_date DATETIME NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			description TEXT DEFAULT '',
			completed INTEGER DEFAULT 0,
			completion_date DATETIME,
			has_reminder INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			source_type TEXT NOT NULL,
			source_id TEXT NOT NULL,
			fire_time DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_owner_date ON events(owner_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_due ON tasks(owner_id, due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_source ON reminders(source_type, source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(status, fire_time)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// === Events ===

func (s *Storage) CreateEvent(e *domain.Event) error {
	_, err := s.db.Exec(
		`INSERT INTO events (id, owner_id, title, date, start_time, end_time, location, description, all_day, has_reminder)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Title, e.Date, clockString(e.Start), clockString(e.End),
		e.Location, e.Description, e.AllDay, e.HasReminder,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "create event", Err: err}
	}
	e.CreatedAt = time.Now()
	return nil
}

const eventColumns = `id, owner_id, title, date, start_time, end_time, location, description, all_day, has_reminder, created_at`

func (s *Storage) GetEvent(ownerID, id string) (*domain.Event, error) {
	row := s.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *Storage) UpdateEvent(e *domain.Event) error {
	_, err := s.db.Exec(
		`UPDATE events SET title = ?, date = ?, start_time = ?, end_time = ?,
			location = ?, description = ?, all_day = ?, has_reminder = ?
		 WHERE id = ? AND owner_id = ?`,
		e.Title, e.Date, clockString(e.Start), clockString(e.End),
		e.Location, e.Description, e.AllDay, e.HasReminder,
		e.ID, e.OwnerID,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "update event", Err: err}
	}
	return nil
}

func (s *Storage) DeleteEvent(ownerID, id string) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return &domain.RepositoryError{Op: "delete event", Err: err}
	}
	return nil
}

func (s *Storage) ListEvents(ownerID string, limit int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = ? ORDER BY date DESC, start_time, id`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryEvents(query, args...)
}

func (s *Storage) EventsForDate(ownerID string, date time.Time) ([]*domain.Event, error) {
	dayStart := midnight(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.queryEvents(
		`SELECT `+eventColumns+` FROM events
		 WHERE owner_id = ? AND date >= ? AND date < ?
		 ORDER BY all_day DESC, start_time, id`,
		ownerID, dayStart, dayEnd,
	)
}

func (s *Storage) UpcomingEvents(ownerID string, from time.Time, limit int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		 WHERE owner_id = ? AND date >= ?
		 ORDER BY date, start_time, id`
	args := []any{ownerID, midnight(from)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryEvents(query, args...)
}

func (s *Storage) queryEvents(query string, args ...any) ([]*domain.Event, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &domain.RepositoryError{Op: "query events", Err: err}
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var start, end sql.NullString
	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Date, &start, &end,
		&e.Location, &e.Description, &e.AllDay, &e.HasReminder, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if e.Start, err = parseClock(start); err != nil {
		return nil, err
	}
	if e.End, err = parseClock(end); err != nil {
		return nil, err
	}
	return e, nil
}

func clockString(c *domain.Clock) any {
	if c == nil {
		return nil
	}
	return c.String()
}

func parseClock(v sql.NullString) (*domain.Clock, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	c, err := domain.ParseClock(v.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// === Tasks ===

const taskColumns = `id, owner_id, title, due_date, priority, description, completed, completion_date, has_reminder, created_at`

func (s *Storage) CreateTask(t *domain.Task) error {
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, owner_id, title, due_date, priority, description, completed, completion_date, has_reminder)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.DueDate, t.Priority, t.Description,
		t.Completed, t.CompletionDate, t.HasReminder,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "create task", Err: err}
	}
	t.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetTask(ownerID, id string) (*domain.Task, error) {
	t := &domain.Task{}
	err := s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.DueDate, &t.Priority, &t.Description,
		&t.Completed, &t.CompletionDate, &t.HasReminder, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (s *Storage) UpdateTask(t *domain.Task) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, due_date = ?, priority = ?, description = ?,
			completed = ?, completion_date = ?, has_reminder = ?
		 WHERE id = ? AND owner_id = ?`,
		t.Title, t.DueDate, t.Priority, t.Description,
		t.Completed, t.CompletionDate, t.HasReminder,
		t.ID, t.OwnerID,
	)
	if err != nil {
		return &domain.RepositoryError{Op: "update task", Err: err}
	}
	return nil
}

func (s *Storage) DeleteTask(ownerID, id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return &domain.RepositoryError{Op: "delete task", Err: err}
	}
	return nil
}

func (s *Storage) ListTasks(ownerID string, includeCompleted bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	if !includeCompleted {
		query += ` AND completed = 0`
	}
	query += ` ORDER BY
		CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
		due_date, id`

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, &domain.RepositoryError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t := &domain.Task{}
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.DueDate, &t.Priority, &t.Description,
			&t.Completed, &t.CompletionDate, &t.HasReminder, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
