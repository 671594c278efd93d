package plan

import (
	"fmt"
	"strconv"
	"strings"

	"taskplan/internal/model"
)

// Prefs is the canonical, fully populated scheduling configuration.
// Times of day are minutes from midnight, durations are minutes.
type Prefs struct {
	WorkStart int
	WorkEnd   int

	SchoolMode  bool
	SchoolStart int
	SchoolEnd   int

	LunchEnabled  bool
	LunchStart    int
	LunchDuration int

	ShortBreak         int
	LongBreak          int
	MaxConsecutiveWork int

	WeekendWork     bool
	PreferMorning   bool
	PreferAfternoon bool

	MeetingBuffer int

	PeakStart int
	PeakEnd   int
}

// Defaults for every resolvable field. Missing or malformed raw values fall
// back silently; resolution has no error paths.
const (
	defWorkStart     = 9 * 60
	defWorkEnd       = 17 * 60
	defSchoolStart   = 8 * 60
	defSchoolEnd     = 15 * 60
	defLunchStart    = 12 * 60
	defLunchDuration = 60
	defShortBreak    = 15
	defLongBreak     = 30
	defMaxConsec     = 120
	defMeetingBuffer = 10
	defPeakStart     = 9 * 60
	defPeakEnd       = 11 * 60
)

// Resolve normalizes raw preferences into a canonical Prefs. Pure transform:
// no side effects, no errors.
func Resolve(raw model.Preferences) Prefs {
	p := Prefs{
		WorkStart:   minuteOrDefault(raw.WorkStart, defWorkStart),
		WorkEnd:     minuteOrDefault(raw.WorkEnd, defWorkEnd),
		SchoolMode:  raw.SchoolMode,
		SchoolStart: minuteOrDefault(raw.SchoolStart, defSchoolStart),
		SchoolEnd:   minuteOrDefault(raw.SchoolEnd, defSchoolEnd),

		LunchEnabled:  raw.LunchEnabled == nil || *raw.LunchEnabled,
		LunchStart:    minuteOrDefault(raw.LunchStart, defLunchStart),
		LunchDuration: positiveOrDefault(raw.LunchDuration, defLunchDuration),

		ShortBreak:         positiveOrDefault(raw.ShortBreak, defShortBreak),
		LongBreak:          positiveOrDefault(raw.LongBreak, defLongBreak),
		MaxConsecutiveWork: positiveOrDefault(raw.MaxConsecutiveWork, defMaxConsec),

		WeekendWork:     raw.WeekendWork,
		PreferMorning:   raw.PreferMorning,
		PreferAfternoon: raw.PreferAfternoon,

		MeetingBuffer: positiveOrDefault(raw.MeetingBuffer, defMeetingBuffer),

		PeakStart: minuteOrDefault(raw.EnergyPeakStart, defPeakStart),
		PeakEnd:   minuteOrDefault(raw.EnergyPeakEnd, defPeakEnd),
	}

	// An inverted window would make every day unschedulable; restore the
	// default rather than propagate a degenerate config.
	if p.WorkEnd <= p.WorkStart {
		p.WorkStart, p.WorkEnd = defWorkStart, defWorkEnd
	}
	if p.SchoolEnd <= p.SchoolStart {
		p.SchoolStart, p.SchoolEnd = defSchoolStart, defSchoolEnd
	}
	if p.PeakEnd <= p.PeakStart {
		p.PeakStart, p.PeakEnd = defPeakStart, defPeakEnd
	}
	return p
}

// windowFor returns the active working window (minutes from midnight).
func (p Prefs) windowFor() (start, end int) {
	if p.SchoolMode {
		return p.SchoolStart, p.SchoolEnd
	}
	return p.WorkStart, p.WorkEnd
}

// breakFor picks the trailing break length for a work stretch of the given
// minutes; 0 means no break is due.
func (p Prefs) breakFor(workMinutes int) int {
	switch {
	case workMinutes >= p.MaxConsecutiveWork:
		return p.LongBreak
	case workMinutes >= 60:
		return p.ShortBreak
	default:
		return 0
	}
}

func minuteOrDefault(raw string, def int) int {
	h, m, err := parseHHMM(raw)
	if err != nil {
		return def
	}
	return h*60 + m
}

func positiveOrDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// parseHHMM parses "HH:MM" (24h).
func parseHHMM(s string) (h, m int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time of day out of range: %q", s)
	}
	return h, m, nil
}
