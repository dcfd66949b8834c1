package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kidandcat/vatrack/internal/model"

	_ "modernc.org/sqlite"
)

// SQLite is the primary persistence path.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vatrack.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo','doing','review','done')),
			priority TEXT NOT NULL DEFAULT 'normal' CHECK(priority IN ('low','normal','high','urgent')),
			assignee_id TEXT NOT NULL DEFAULT '',
			due_at DATETIME,
			est_hours REAL,
			notes TEXT NOT NULL DEFAULT '',
			customer_name TEXT NOT NULL DEFAULT '',
			customer_phone TEXT NOT NULL DEFAULT '',
			customer_email TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS time_logs (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			duration_minutes INTEGER NOT NULL DEFAULT 0 CHECK(duration_minutes >= 0),
			location_lat REAL,
			location_lng REAL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

const taskCols = `id, title, status, priority, assignee_id, due_at, est_hours,
	notes, customer_name, customer_phone, customer_email, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	var due sql.NullTime
	var est sql.NullFloat64
	err := row.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.AssigneeID,
		&due, &est, &t.Notes, &t.CustomerName, &t.CustomerPhone,
		&t.CustomerEmail, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Task{}, err
	}
	if due.Valid {
		t.DueAt = &due.Time
	}
	if est.Valid {
		t.EstHours = &est.Float64
	}
	return t, nil
}

func (s *SQLite) ListTasks(f Filter) ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if f.match(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks, rows.Err()
}

func (s *SQLite) getTask(id string) (model.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

func (s *SQLite) CreateTask(t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Normalize()

	_, err := s.db.Exec(`INSERT INTO tasks (`+taskCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Status, t.Priority, t.AssigneeID, nullTime(t.DueAt),
		nullFloat(t.EstHours), t.Notes, t.CustomerName, t.CustomerPhone,
		t.CustomerEmail, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *SQLite) UpdateTask(id string, patch model.TaskPatch) (model.Task, error) {
	t, err := s.getTask(id)
	if err != nil {
		return model.Task{}, err
	}
	patch.Apply(&t, time.Now())

	_, err = s.db.Exec(`UPDATE tasks SET title = ?, status = ?, priority = ?,
		assignee_id = ?, due_at = ?, est_hours = ?, notes = ?,
		customer_name = ?, customer_phone = ?, customer_email = ?,
		updated_at = ? WHERE id = ?`,
		t.Title, t.Status, t.Priority, t.AssigneeID, nullTime(t.DueAt),
		nullFloat(t.EstHours), t.Notes, t.CustomerName, t.CustomerPhone,
		t.CustomerEmail, t.UpdatedAt, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *SQLite) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const logCols = `id, task_id, user_id, started_at, ended_at, duration_minutes,
	location_lat, location_lng, created_at`

func scanTimeLog(row interface{ Scan(...any) error }) (model.TimeLog, error) {
	var l model.TimeLog
	var ended sql.NullTime
	var lat, lng sql.NullFloat64
	err := row.Scan(&l.ID, &l.TaskID, &l.UserID, &l.StartedAt, &ended,
		&l.DurationMinutes, &lat, &lng, &l.CreatedAt)
	if err != nil {
		return model.TimeLog{}, err
	}
	if ended.Valid {
		l.EndedAt = &ended.Time
	}
	if lat.Valid {
		l.LocationLat = &lat.Float64
	}
	if lng.Valid {
		l.LocationLng = &lng.Float64
	}
	return l, nil
}

func (s *SQLite) ListTimeLogs(taskID string) ([]model.TimeLog, error) {
	query := `SELECT ` + logCols + ` FROM time_logs ORDER BY started_at DESC`
	args := []any{}
	if taskID != "" {
		query = `SELECT ` + logCols + ` FROM time_logs WHERE task_id = ? ORDER BY started_at DESC`
		args = append(args, taskID)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time logs: %w", err)
	}
	defer rows.Close()

	var logs []model.TimeLog
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLite) CreateTimeLog(l model.TimeLog) (model.TimeLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	if l.DurationMinutes < 0 {
		l.DurationMinutes = 0
	}

	_, err := s.db.Exec(`INSERT INTO time_logs (`+logCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.TaskID, l.UserID, l.StartedAt, nullTime(l.EndedAt),
		l.DurationMinutes, nullFloat(l.LocationLat), nullFloat(l.LocationLng),
		l.CreatedAt)
	if err != nil {
		return model.TimeLog{}, fmt.Errorf("insert time log: %w", err)
	}
	return l, nil
}

func (s *SQLite) UpdateTimeLog(id string, patch model.TimeLogPatch) (model.TimeLog, error) {
	l, err := scanTimeLog(s.db.QueryRow(`SELECT `+logCols+` FROM time_logs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.TimeLog{}, ErrNotFound
	}
	if err != nil {
		return model.TimeLog{}, fmt.Errorf("query time log: %w", err)
	}
	patch.Apply(&l)

	_, err = s.db.Exec(`UPDATE time_logs SET ended_at = ?, duration_minutes = ?,
		location_lat = ?, location_lng = ? WHERE id = ?`,
		nullTime(l.EndedAt), l.DurationMinutes, nullFloat(l.LocationLat),
		nullFloat(l.LocationLng), id)
	if err != nil {
		return model.TimeLog{}, fmt.Errorf("update time log: %w", err)
	}
	return l, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
