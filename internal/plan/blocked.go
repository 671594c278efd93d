package plan

import (
	"sort"
	"strings"
	"time"

	"taskplan/internal/model"
)

// buildBlocked produces the ordered non-bookable intervals for one day:
// existing events padded with a buffer, the lunch break, and the hours
// outside the active working window.
//
// Output is fully deterministic for identical inputs: the sort orders by
// start, then end, then kind, then source.
func buildBlocked(day time.Time, events []model.Event, prefs Prefs) []blockedInterval {
	day = midnight(day)
	next := day.AddDate(0, 0, 1)

	out := make([]blockedInterval, 0, len(events)+3)

	for _, ev := range events {
		if !ev.OnDay(day) {
			continue
		}
		buf := eventBufferMinutes
		if isMeeting(ev.Category) {
			buf = prefs.MeetingBuffer
		}
		out = append(out, blockedInterval{
			Start:  ev.Start.Add(-time.Duration(buf) * time.Minute),
			End:    ev.End.Add(time.Duration(buf) * time.Minute),
			Kind:   blockEvent,
			Source: ev.Title,
		})
	}

	if prefs.LunchEnabled {
		ls := day.Add(time.Duration(prefs.LunchStart) * time.Minute)
		out = append(out, blockedInterval{
			Start: ls,
			End:   ls.Add(time.Duration(prefs.LunchDuration) * time.Minute),
			Kind:  blockLunch,
		})
	}

	wStart, wEnd := prefs.windowFor()
	if wStart > 0 {
		out = append(out, blockedInterval{
			Start: day,
			End:   day.Add(time.Duration(wStart) * time.Minute),
			Kind:  blockOffHours,
		})
	}
	if wEnd < 24*60 {
		out = append(out, blockedInterval{
			Start: day.Add(time.Duration(wEnd) * time.Minute),
			End:   next,
			Kind:  blockOffHours,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Source < b.Source
	})
	return out
}

func isMeeting(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), "meeting")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
