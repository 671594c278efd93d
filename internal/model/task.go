package model

import "time"

// Priority orders tasks from least to most pressing.
// The numeric order matters: scoring and sorting rely on it.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "medium"
	}
}

// ParsePriority maps a config/storage string to a Priority.
// Unknown values fall back to medium.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "urgent":
		return PriorityUrgent
	default:
		return PriorityMedium
	}
}

// Status is the task lifecycle state.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusWontDo     Status = "wont_do"
)

// Task is a unit of work the planner may place on the calendar.
//
// Scheduling fields (ScheduledStart/ScheduledEnd/ScheduledDate/AutoScheduled)
// are written only via a TaskUpdate produced by the decision engine; nothing
// else mutates a Task.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Duration    int      `json:"duration_minutes,omitempty"` // minutes; 0 means default (60)
	Priority    Priority `json:"-"`
	PriorityRaw string   `json:"priority,omitempty"`
	Category    string   `json:"category,omitempty"` // free-form: work/learning/health/...
	DueDate     string   `json:"due_date,omitempty"` // YYYY-MM-DD, optional
	Status      Status   `json:"status,omitempty"`

	ScheduledStart *time.Time `json:"scheduled_start_time,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end_time,omitempty"`
	ScheduledDate  string     `json:"scheduled_date,omitempty"`
	AutoScheduled  bool       `json:"auto_scheduled,omitempty"`
}

// DurationMinutes returns the effective duration, defaulting to one hour.
func (t Task) DurationMinutes() int {
	if t.Duration <= 0 {
		return 60
	}
	return t.Duration
}

// Due parses the task's due date in the given location.
// Returns (zero, false) when absent or malformed.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Unscheduled reports whether the task is still waiting for a slot.
func (t Task) Unscheduled() bool {
	return t.Status == StatusTodo && t.ScheduledStart == nil
}

// TaskUpdate is the mutation payload the engine emits on success.
type TaskUpdate struct {
	TaskID         string    `json:"task_id"`
	ScheduledStart time.Time `json:"scheduled_start_time"`
	ScheduledEnd   time.Time `json:"scheduled_end_time"`
	ScheduledDate  string    `json:"scheduled_date"` // YYYY-MM-DD
	AutoScheduled  bool      `json:"auto_scheduled"`
}
