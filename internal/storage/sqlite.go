//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskplan/internal/model"
	logx "taskplan/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) WatchPath() string { return "" }

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Snapshot(ctx context.Context) (Snapshot, error) {
	if s == nil || s.db == nil {
		return Snapshot{}, ErrDisabled
	}

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	events, err := s.loadEvents(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Tasks: tasks, Events: events, TakenAt: time.Now()}, nil
}

func (s *sqliteStore) loadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, duration_min, priority, category, due_date, status,
		        scheduled_start, scheduled_end, scheduled_date, auto_scheduled
		 FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		var t model.Task
		var start, end sql.NullString
		var auto int
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Duration, &t.PriorityRaw,
			&t.Category, &t.DueDate, &t.Status, &start, &end, &t.ScheduledDate, &auto); err != nil {
			return nil, err
		}
		t.Priority = model.ParsePriority(t.PriorityRaw)
		t.AutoScheduled = auto != 0
		if ts, ok := parseNullTime(start); ok {
			t.ScheduledStart = &ts
		}
		if ts, ok := parseNullTime(end); ok {
			t.ScheduledEnd = &ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *sqliteStore) loadEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time, category, priority, task_id, ai_suggested
		 FROM events ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var start, end string
		var ai int
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &e.Category, &e.Priority, &e.TaskID, &ai); err != nil {
			return nil, err
		}
		e.AISuggested = ai != 0
		if e.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("event %s: bad start_time: %w", e.ID, err)
		}
		if e.End, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("event %s: bad end_time: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) PutTask(ctx context.Context, t model.Task) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	if t.PriorityRaw == "" {
		t.PriorityRaw = t.Priority.String()
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks(id, title, description, duration_min, priority, category, due_date, status,
		                   scheduled_start, scheduled_end, scheduled_date, auto_scheduled)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, duration_min=excluded.duration_min,
		   priority=excluded.priority, category=excluded.category, due_date=excluded.due_date,
		   status=excluded.status, scheduled_start=excluded.scheduled_start,
		   scheduled_end=excluded.scheduled_end, scheduled_date=excluded.scheduled_date,
		   auto_scheduled=excluded.auto_scheduled`,
		t.ID, t.Title, t.Description, t.DurationMinutes(), t.PriorityRaw, t.Category, t.DueDate, string(t.Status),
		fmtNullTime(t.ScheduledStart), fmtNullTime(t.ScheduledEnd), t.ScheduledDate, boolInt(t.AutoScheduled),
	)
	return err
}

func (s *sqliteStore) AppendEvents(ctx context.Context, events []model.Event) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, e := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events(id, title, start_time, end_time, category, priority, task_id, ai_suggested)
			 VALUES(?,?,?,?,?,?,?,?)`,
			e.ID, e.Title, e.Start.Format(time.RFC3339Nano), e.End.Format(time.RFC3339Nano),
			e.Category, e.Priority, e.TaskID, boolInt(e.AISuggested),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) ApplyTaskUpdate(ctx context.Context, u model.TaskUpdate) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET scheduled_start=?, scheduled_end=?, scheduled_date=?, auto_scheduled=?
		 WHERE id=?`,
		u.ScheduledStart.Format(time.RFC3339Nano), u.ScheduledEnd.Format(time.RFC3339Nano),
		u.ScheduledDate, boolInt(u.AutoScheduled), u.TaskID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, u.TaskID)
	}
	return nil
}

func parseNullTime(v sql.NullString) (time.Time, bool) {
	if !v.Valid || v.String == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
