package model

import "time"

// Event is a committed calendar entry.
//
// Existing events are read-only inputs to the planner; new events are its
// output and belong to the caller once emitted.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	Category    string    `json:"category,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	TaskID      string    `json:"task_id,omitempty"` // back-reference for planner-placed events
	AISuggested bool      `json:"ai_suggested,omitempty"`
}

// OnDay reports whether the event overlaps the calendar day containing t.
// Interval overlap rather than an endpoint check, so an event spanning the
// whole day still counts.
func (e Event) OnDay(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	next := day.AddDate(0, 0, 1)
	return e.Start.Before(next) && e.End.After(day)
}
