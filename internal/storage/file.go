package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"taskplan/internal/model"
	logx "taskplan/pkg/logx"
)

// fileStore keeps the world in two JSON documents under a directory:
//
//   - tasks.json:  array of tasks (the backlog; may be hand-edited)
//   - events.json: array of calendar events
//
// Writes go through a temp file + rename so a crash never leaves a
// half-written document. tasks.json is the watchable surface: editing it
// from outside is how tasks enter the system without an API.
type fileStore struct {
	log logx.Logger

	mu         sync.Mutex
	tasksPath  string
	eventsPath string
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	dir := strings.TrimSpace(cfg.Path)
	if dir == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &fileStore{
		log:        log,
		tasksPath:  filepath.Join(dir, "tasks.json"),
		eventsPath: filepath.Join(dir, "events.json"),
	}

	// Seed empty documents so the watch target exists from the start.
	for _, p := range []string{s.tasksPath, s.eventsPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			if err := writeDocAtomic(p, []byte("[]\n")); err != nil {
				return nil, err
			}
		}
	}
	log.Debug("file store opened", logx.String("dir", dir))
	return s, nil
}

func (s *fileStore) WatchPath() string { return s.tasksPath }

func (s *fileStore) Close() error { return nil }

func (s *fileStore) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readTasksLocked()
	if err != nil {
		return Snapshot{}, err
	}
	events, err := s.readEventsLocked()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Tasks: tasks, Events: events, TakenAt: time.Now()}, nil
}

func (s *fileStore) PutTask(ctx context.Context, t model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readTasksLocked()
	if err != nil {
		return err
	}
	replaced := false
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, t)
	}
	return s.writeTasksLocked(tasks)
}

func (s *fileStore) AppendEvents(ctx context.Context, events []model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readEventsLocked()
	if err != nil {
		return err
	}
	existing = append(existing, events...)
	return s.writeDocLocked(s.eventsPath, existing)
}

func (s *fileStore) ApplyTaskUpdate(ctx context.Context, u model.TaskUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.readTasksLocked()
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == u.TaskID {
			start, end := u.ScheduledStart, u.ScheduledEnd
			tasks[i].ScheduledStart = &start
			tasks[i].ScheduledEnd = &end
			tasks[i].ScheduledDate = u.ScheduledDate
			tasks[i].AutoScheduled = u.AutoScheduled
			return s.writeTasksLocked(tasks)
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, u.TaskID)
}

func (s *fileStore) readTasksLocked() ([]model.Task, error) {
	var tasks []model.Task
	if err := readDoc(s.tasksPath, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Priority = model.ParsePriority(tasks[i].PriorityRaw)
		if tasks[i].Status == "" {
			tasks[i].Status = model.StatusTodo
		}
	}
	return tasks, nil
}

func (s *fileStore) readEventsLocked() ([]model.Event, error) {
	var events []model.Event
	if err := readDoc(s.eventsPath, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *fileStore) writeTasksLocked(tasks []model.Task) error {
	for i := range tasks {
		if tasks[i].PriorityRaw == "" {
			tasks[i].PriorityRaw = tasks[i].Priority.String()
		}
	}
	return s.writeDocLocked(s.tasksPath, tasks)
}

func (s *fileStore) writeDocLocked(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeDocAtomic(path, append(b, '\n'))
}

func readDoc(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

func writeDocAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
