package plan

import (
	"fmt"
	"time"

	"taskplan/internal/model"
)

// Schedule finds the best slot for the task with default options.
func Schedule(task model.Task, raw model.Preferences, events []model.Event, now time.Time) Result {
	return ScheduleWith(task, raw, events, now, Options{})
}

// ScheduleWith runs the decision procedure: resolve preferences, then walk
// the day horizon building blocked intervals, generating candidates, scoring
// them, and committing to the first day that yields any valid candidate.
//
// The call never panics; unexpected internal faults surface as a failure
// Result. Inputs are not mutated.
func ScheduleWith(task model.Task, raw model.Preferences, events []model.Event, now time.Time, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{OK: false, Reason: fmt.Sprintf("internal scheduling error: %v", r)}
		}
	}()

	if task.PriorityRaw != "" {
		task.Priority = model.ParsePriority(task.PriorityRaw)
	}

	prefs := Resolve(raw)
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	horizon := opts.horizon()
	duration := task.DurationMinutes()

	ctx := &scoreContext{Task: task, Prefs: prefs, Now: now, Events: events}

	for d := 0; d < horizon; d++ {
		day := midnight(now).AddDate(0, 0, d)

		if wd := day.Weekday(); (wd == time.Saturday || wd == time.Sunday) && !prefs.WeekendWork {
			continue
		}

		// Today's candidates must not start in the past: clamp the walk to
		// the next grid boundary after now.
		var notBefore time.Time
		if d == 0 {
			notBefore = nextGridBoundary(now)
		}

		blocked := buildBlocked(day, events, prefs)
		slots := generateSlots(day, duration, blocked, prefs, opts.Strategy, notBefore)
		if len(slots) == 0 {
			continue
		}

		ranked := rankSlots(slots, ctx, rules)
		best := ranked[0]
		return commit(task, prefs, best, d+1)
	}

	return Result{
		OK:     false,
		Reason: fmt.Sprintf("no available time slots found in the next %d days", horizon),
	}
}

// commit turns the winning slot into the emitted events and task update.
func commit(task model.Task, prefs Prefs, best scoredSlot, daysSearched int) Result {
	duration := task.DurationMinutes()
	start := best.Slot.Start
	end := start.Add(time.Duration(duration) * time.Minute)
	if !end.After(start) {
		// Degenerate slot: clamp rather than fail.
		end = start.Add(minSlotMinutes * time.Minute)
	}

	category := task.Category
	if category == "" {
		category = "personal"
	}

	events := []model.Event{{
		Title:       task.Title,
		Start:       start,
		End:         end,
		Category:    category,
		Priority:    task.Priority.String(),
		TaskID:      task.ID,
		AISuggested: true,
	}}

	// Append a trailing break when the work stretch warrants one and the
	// slot has room for it.
	if bl := prefs.breakFor(duration); bl > 0 && best.Slot.Available >= duration+bl {
		events = append(events, model.Event{
			Title:       "Break",
			Start:       end,
			End:         end.Add(time.Duration(bl) * time.Minute),
			Category:    "personal",
			AISuggested: true,
		})
	}

	return Result{
		OK:     true,
		Events: events,
		Update: &model.TaskUpdate{
			TaskID:         task.ID,
			ScheduledStart: start,
			ScheduledEnd:   end,
			ScheduledDate:  start.Format("2006-01-02"),
			AutoScheduled:  true,
		},
		Score:        best.Score,
		DaysSearched: daysSearched,
	}
}

// nextGridBoundary rounds t up to the next 30-minute boundary, so "today"
// candidates never start in the past or on an odd minute.
func nextGridBoundary(t time.Time) time.Time {
	r := t.Truncate(gridStepMinutes * time.Minute)
	if r.Before(t) {
		r = r.Add(gridStepMinutes * time.Minute)
	}
	return r
}
