package storage

import (
	"errors"
	"time"

	"taskplan/internal/model"
)

var (
	ErrDisabled     = errors.New("storage disabled")
	ErrTaskNotFound = errors.New("task not found")
)

// Config configures storage.
//
// Driver values:
//   - "file": JSON documents under Path (a directory)
//   - "sqlite": SQLite database file at Path (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Snapshot is an immutable copy of the persisted world, taken at one point
// in time. The planner schedules against snapshots and never holds storage
// locks while thinking.
type Snapshot struct {
	Tasks   []model.Task
	Events  []model.Event
	TakenAt time.Time
}
