package storage

import (
	"context"
	"errors"
	"strings"

	"taskplan/internal/model"
	logx "taskplan/pkg/logx"
)

// Store is the persistence API used by the planner service.
type Store interface {
	// Snapshot returns an independent copy of all tasks and events.
	Snapshot(ctx context.Context) (Snapshot, error)

	// PutTask inserts or replaces a task by ID.
	PutTask(ctx context.Context, t model.Task) error

	// AppendEvents persists newly emitted calendar events.
	AppendEvents(ctx context.Context, events []model.Event) error

	// ApplyTaskUpdate attaches scheduling results to an existing task.
	ApplyTaskUpdate(ctx context.Context, u model.TaskUpdate) error

	// WatchPath names a file whose modification should trigger a replan,
	// or "" when the driver has no watchable surface.
	WatchPath() string

	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
