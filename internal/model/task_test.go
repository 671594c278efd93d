package model

import (
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want Priority
	}{
		{"low", PriorityLow},
		{"medium", PriorityMedium},
		{"high", PriorityHigh},
		{"urgent", PriorityUrgent},
		{"", PriorityMedium},
		{"HIGH", PriorityMedium}, // case-sensitive on purpose
		{"critical", PriorityMedium},
	}
	for _, tc := range cases {
		if got := ParsePriority(tc.in); got != tc.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPriorityOrdering(t *testing.T) {
	t.Parallel()
	if !(PriorityLow < PriorityMedium && PriorityMedium < PriorityHigh && PriorityHigh < PriorityUrgent) {
		t.Fatal("priority constants out of order")
	}
}

func TestDurationMinutes(t *testing.T) {
	t.Parallel()
	if got := (Task{}).DurationMinutes(); got != 60 {
		t.Fatalf("zero duration = %d, want 60", got)
	}
	if got := (Task{Duration: -5}).DurationMinutes(); got != 60 {
		t.Fatalf("negative duration = %d, want 60", got)
	}
	if got := (Task{Duration: 25}).DurationMinutes(); got != 25 {
		t.Fatalf("duration = %d, want 25", got)
	}
}

func TestDue(t *testing.T) {
	t.Parallel()
	if _, ok := (Task{}).Due(time.UTC); ok {
		t.Fatal("empty due date parsed")
	}
	if _, ok := (Task{DueDate: "03/15/2026"}).Due(time.UTC); ok {
		t.Fatal("malformed due date parsed")
	}
	d, ok := (Task{DueDate: "2026-03-15"}).Due(time.UTC)
	if !ok || !d.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("due = %v ok=%v", d, ok)
	}
}

func TestUnscheduled(t *testing.T) {
	t.Parallel()
	now := time.Now()
	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"todo unplaced", Task{Status: StatusTodo}, true},
		{"todo placed", Task{Status: StatusTodo, ScheduledStart: &now}, false},
		{"done", Task{Status: StatusDone}, false},
		{"in progress", Task{Status: StatusInProgress}, false},
		{"wont do", Task{Status: StatusWontDo}, false},
	}
	for _, tc := range cases {
		if got := tc.task.Unscheduled(); got != tc.want {
			t.Errorf("%s: Unscheduled() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEventOnDay(t *testing.T) {
	t.Parallel()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	cases := []struct {
		name string
		ev   Event
		want bool
	}{
		{"inside", Event{Start: at(10, 0), End: at(11, 0)}, true},
		{"starts on day", Event{Start: at(23, 30), End: at(24, 30)}, true},
		{"ends on day", Event{Start: at(-1, 0), End: at(1, 0)}, true},
		{"spans whole day", Event{Start: at(-2, 0), End: at(26, 0)}, true},
		{"day before", Event{Start: at(-3, 0), End: at(-2, 0)}, false},
		{"day after", Event{Start: at(26, 0), End: at(27, 0)}, false},
	}
	for _, tc := range cases {
		if got := tc.ev.OnDay(day); got != tc.want {
			t.Errorf("%s: OnDay = %v, want %v", tc.name, got, tc.want)
		}
	}
}
