package plan

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"taskplan/internal/model"
)

func TestScheduleAroundMeetingAndLunch(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "write report", Duration: 60, Priority: model.PriorityHigh, Category: "work"}
	prefs := model.Preferences{
		WorkStart:  "09:00",
		WorkEnd:    "17:00",
		LunchStart: "12:00",
	}
	existing := []model.Event{
		{ID: "m1", Title: "standup", Category: "meeting", Start: at(testDay, 10, 0), End: at(testDay, 11, 0)},
	}

	res := Schedule(task, prefs, existing, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if len(res.Events) == 0 || res.Update == nil {
		t.Fatalf("incomplete result: %+v", res)
	}

	ev := res.Events[0]
	if got := ev.End.Sub(ev.Start); got != 60*time.Minute {
		t.Fatalf("duration = %v, want exactly 60m", got)
	}
	if ev.TaskID != "t1" || !ev.AISuggested {
		t.Fatalf("event linkage wrong: %+v", ev)
	}

	// No overlap with the buffered meeting interval or lunch.
	resolved := Resolve(prefs)
	blocked := buildBlocked(testDay, existing, resolved)
	for _, b := range blocked {
		if b.overlaps(ev.Start, ev.End) {
			t.Fatalf("scheduled %v-%v overlaps blocked %v-%v (%s)", ev.Start, ev.End, b.Start, b.End, b.Kind)
		}
	}

	if res.Update.ScheduledDate != testDay.Format("2006-01-02") {
		t.Fatalf("scheduled date = %s, want today", res.Update.ScheduledDate)
	}
	if !res.Update.AutoScheduled {
		t.Fatal("task update must set auto_scheduled")
	}
}

func TestScheduleDeterministic(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "deep work", Duration: 90, Priority: model.PriorityMedium, Category: "learning"}
	events := []model.Event{
		{ID: "m1", Title: "standup", Category: "meeting", Start: at(testDay, 10, 0), End: at(testDay, 11, 0)},
		{ID: "m2", Title: "1:1", Category: "meeting", Start: at(testDay, 15, 0), End: at(testDay, 15, 30)},
	}

	first := Schedule(task, model.Preferences{}, events, now)
	second := Schedule(task, model.Preferences{}, events, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs gave different results:\n%+v\n%+v", first, second)
	}
}

func TestScheduleHorizonExhausted(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	// 10 hours never fits an 8-hour working window, on any day.
	task := model.Task{ID: "t1", Title: "impossible", Duration: 600}

	res := Schedule(task, model.Preferences{}, nil, now)
	if res.OK {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(res.Reason, "7 days") {
		t.Fatalf("reason should name the horizon: %q", res.Reason)
	}
	if len(res.Events) != 0 || res.Update != nil {
		t.Fatalf("failure result must carry no events: %+v", res)
	}

	// A longer horizon is honored but still bounded.
	res = ScheduleWith(task, model.Preferences{}, nil, now, Options{HorizonDays: 14})
	if res.OK || !strings.Contains(res.Reason, "14 days") {
		t.Fatalf("extended horizon failure wrong: %+v", res)
	}
}

func TestScheduleSkipsWeekend(t *testing.T) {
	t.Parallel()
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	now := at(saturday, 8, 0)
	task := model.Task{ID: "t1", Title: "chores", Duration: 60, Category: "home"}

	res := Schedule(task, model.Preferences{}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if wd := res.Update.ScheduledStart.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Fatalf("scheduled on a weekend: %v", res.Update.ScheduledStart)
	}
	if res.Update.ScheduledDate != "2026-03-09" {
		t.Fatalf("scheduled date = %s, want Monday 2026-03-09", res.Update.ScheduledDate)
	}

	allowed := Schedule(task, model.Preferences{WeekendWork: true}, nil, now)
	if !allowed.OK {
		t.Fatalf("weekend-enabled schedule failed: %q", allowed.Reason)
	}
	if allowed.Update.ScheduledDate != "2026-03-07" {
		t.Fatalf("weekend-enabled date = %s, want Saturday", allowed.Update.ScheduledDate)
	}
}

func TestScheduleClampsTodayToNow(t *testing.T) {
	t.Parallel()
	// 10:10 rounds up to 10:30; nothing today may start earlier, but the
	// rest of the morning gap stays usable.
	now := at(testDay, 10, 10)
	task := model.Task{ID: "t1", Title: "call", Duration: 30, Category: "work"}

	res := Schedule(task, model.Preferences{}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if res.Update.ScheduledDate != testDay.Format("2006-01-02") {
		t.Fatalf("scheduled date = %s, want today", res.Update.ScheduledDate)
	}
	if !res.Update.ScheduledStart.Equal(at(testDay, 10, 30)) {
		t.Fatalf("scheduled at %v, want 10:30", res.Update.ScheduledStart)
	}
}

func TestScheduleLateAfternoonStaysToday(t *testing.T) {
	t.Parallel()
	// A free afternoon must never defer to tomorrow just because the day's
	// only gap opened hours before now.
	off := false
	now := at(testDay, 14, 0)
	task := model.Task{ID: "t1", Title: "call", Duration: 30, Category: "work"}

	res := Schedule(task, model.Preferences{LunchEnabled: &off}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if res.Update.ScheduledDate != testDay.Format("2006-01-02") {
		t.Fatalf("scheduled date = %s, want today", res.Update.ScheduledDate)
	}
	if !res.Update.ScheduledStart.Equal(at(testDay, 14, 0)) {
		t.Fatalf("scheduled at %v, want 14:00", res.Update.ScheduledStart)
	}
	if res.DaysSearched != 1 {
		t.Fatalf("days searched = %d, want 1", res.DaysSearched)
	}
}

func TestScheduleAppendsBreak(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "study block", Duration: 120, Category: "learning"}

	res := Schedule(task, model.Preferences{}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if len(res.Events) != 2 {
		t.Fatalf("expected task event + break, got %d events", len(res.Events))
	}
	br := res.Events[1]
	if br.Title != "Break" {
		t.Fatalf("second event = %q, want Break", br.Title)
	}
	if !br.Start.Equal(res.Events[0].End) {
		t.Fatalf("break should trail the task: %v vs %v", br.Start, res.Events[0].End)
	}
	// 120 minutes hits the max-consecutive-work bound, so the long break.
	if got := br.End.Sub(br.Start); got != 30*time.Minute {
		t.Fatalf("break length = %v, want 30m", got)
	}
}

func TestScheduleShortTaskNoBreak(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "email pass", Duration: 30, Category: "work"}

	res := Schedule(task, model.Preferences{}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if len(res.Events) != 1 {
		t.Fatalf("short task should not get a break, got %d events", len(res.Events))
	}
}

func TestScheduleGridStrategy(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "review", Duration: 60, Category: "work"}
	events := []model.Event{
		{ID: "m1", Title: "standup", Category: "meeting", Start: at(testDay, 10, 0), End: at(testDay, 11, 0)},
	}

	res := ScheduleWith(task, model.Preferences{}, events, now, Options{Strategy: StrategyGrid})
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	ev := res.Events[0]
	if m := minuteOfDay(ev.Start) % gridStepMinutes; m != 0 {
		t.Fatalf("grid result off grid: %v", ev.Start)
	}
	blocked := buildBlocked(testDay, events, Resolve(model.Preferences{}))
	for _, b := range blocked {
		if b.overlaps(ev.Start, ev.End) {
			t.Fatalf("grid result overlaps blocked %v-%v", b.Start, b.End)
		}
	}
}

func TestScheduleDoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "x", Duration: 60, PriorityRaw: "high"}
	events := []model.Event{
		{ID: "m1", Title: "standup", Category: "meeting", Start: at(testDay, 10, 0), End: at(testDay, 11, 0)},
	}
	taskCopy := task
	eventsCopy := make([]model.Event, len(events))
	copy(eventsCopy, events)

	_ = Schedule(task, model.Preferences{}, events, now)

	if !reflect.DeepEqual(task, taskCopy) {
		t.Fatal("task input mutated")
	}
	if !reflect.DeepEqual(events, eventsCopy) {
		t.Fatal("events input mutated")
	}
}

func TestSchedulePriorityRawOverrides(t *testing.T) {
	t.Parallel()
	now := at(testDay, 8, 0)
	task := model.Task{ID: "t1", Title: "x", Duration: 60, PriorityRaw: "urgent"}

	res := Schedule(task, model.Preferences{}, nil, now)
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if res.Events[0].Priority != "urgent" {
		t.Fatalf("event priority = %q, want urgent", res.Events[0].Priority)
	}
}

func TestNextGridBoundary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{at(testDay, 10, 0), at(testDay, 10, 0)},
		{at(testDay, 10, 1), at(testDay, 10, 30)},
		{at(testDay, 10, 30), at(testDay, 10, 30)},
		{at(testDay, 10, 31), at(testDay, 11, 0)},
	}
	for _, tt := range tests {
		if got := nextGridBoundary(tt.in); !got.Equal(tt.want) {
			t.Fatalf("nextGridBoundary(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
