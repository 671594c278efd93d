package plan

import "time"

// generateSlots walks one day and returns the candidate slots able to hold
// durationMinutes of work. Both strategies guarantee that no candidate
// overlaps a blocked interval, none is shorter than the requested duration,
// and none starts before notBefore (zero means unconstrained).
func generateSlots(day time.Time, durationMinutes int, blocked []blockedInterval, prefs Prefs, strategy Strategy, notBefore time.Time) []Slot {
	if durationMinutes < minSlotMinutes {
		durationMinutes = minSlotMinutes
	}
	if strategy == StrategyGrid {
		return gridSlots(day, durationMinutes, blocked, prefs, notBefore)
	}
	return gapSlots(day, durationMinutes, blocked, prefs, notBefore)
}

// gapSlots yields at most one candidate per free gap between blocked
// intervals inside the working window. A gap must exceed the duration by a
// small guard; the candidate is sized to the gap but capped at duration plus
// the trailing break the engine may append.
//
// The walk starts at notBefore when that falls inside the window, so a gap
// already in progress still yields its remainder instead of being anchored
// in the past and discarded.
func gapSlots(day time.Time, durationMinutes int, blocked []blockedInterval, prefs Prefs, notBefore time.Time) []Slot {
	day = midnight(day)
	wStart, wEnd := prefs.windowFor()
	windowEnd := day.Add(time.Duration(wEnd) * time.Minute)
	cursor := day.Add(time.Duration(wStart) * time.Minute)
	if notBefore.After(cursor) {
		cursor = notBefore
	}

	maxAvail := durationMinutes + prefs.breakFor(durationMinutes)

	var out []Slot
	emit := func(gapStart, gapEnd time.Time) {
		gap := int(gapEnd.Sub(gapStart) / time.Minute)
		if gap < durationMinutes+gapGuardMinutes {
			return
		}
		avail := gap
		if avail > maxAvail {
			avail = maxAvail
		}
		out = append(out, Slot{
			Start:     gapStart,
			End:       gapStart.Add(time.Duration(avail) * time.Minute),
			Available: avail,
			Day:       day,
		})
	}

	for _, b := range blocked {
		if !b.End.After(cursor) {
			continue
		}
		if b.Start.After(cursor) {
			end := b.Start
			if end.After(windowEnd) {
				end = windowEnd
			}
			emit(cursor, end)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(windowEnd) {
			return out
		}
	}
	if cursor.Before(windowEnd) {
		emit(cursor, windowEnd)
	}
	return out
}

// gridSlots steps through the working window on a fixed 30-minute grid,
// proposing slots of exactly the requested duration and discarding any that
// overlap a blocked interval or spill past the window end. Available is
// still measured up to the next obstruction so the engine can decide on a
// trailing break.
func gridSlots(day time.Time, durationMinutes int, blocked []blockedInterval, prefs Prefs, notBefore time.Time) []Slot {
	day = midnight(day)
	wStart, wEnd := prefs.windowFor()
	windowEnd := day.Add(time.Duration(wEnd) * time.Minute)

	maxAvail := durationMinutes + prefs.breakFor(durationMinutes)

	var out []Slot
	for m := wStart; m+durationMinutes <= wEnd; m += gridStepMinutes {
		start := day.Add(time.Duration(m) * time.Minute)
		if start.Before(notBefore) {
			continue
		}
		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		if overlapsAny(start, end, blocked) {
			continue
		}
		avail := freeRun(start, windowEnd, blocked)
		if avail > maxAvail {
			avail = maxAvail
		}
		out = append(out, Slot{
			Start:     start,
			End:       start.Add(time.Duration(avail) * time.Minute),
			Available: avail,
			Day:       day,
		})
	}
	return out
}

func overlapsAny(start, end time.Time, blocked []blockedInterval) bool {
	for _, b := range blocked {
		if b.overlaps(start, end) {
			return true
		}
	}
	return false
}

// freeRun returns the minutes from start until the first blocked interval
// (or the window end), i.e. the uninterrupted room a slot really has.
func freeRun(start, windowEnd time.Time, blocked []blockedInterval) int {
	end := windowEnd
	for _, b := range blocked {
		if b.Start.After(start) && b.Start.Before(end) {
			end = b.Start
		}
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
