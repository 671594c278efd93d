package plan

import (
	"time"

	"taskplan/internal/model"
)

// Strategy selects how candidate slots are generated.
type Strategy string

const (
	// StrategyGap walks the free gaps between blocked intervals. Canonical:
	// it visits each gap once and behaves well on sparse calendars.
	StrategyGap Strategy = "gap"
	// StrategyGrid proposes fixed-duration slots on a 30-minute grid.
	StrategyGrid Strategy = "grid"
)

const (
	defaultHorizonDays = 7
	maxHorizonDays     = 14

	// minSlotMinutes is the floor applied to degenerate slots instead of
	// surfacing them as errors.
	minSlotMinutes = 15

	// gapGuardMinutes is the extra room a gap must have beyond the task
	// duration before it yields a candidate.
	gapGuardMinutes = 5

	// eventBufferMinutes pads non-meeting events on both sides.
	eventBufferMinutes = 5

	// gridStepMinutes is the step of the fixed-grid strategy and the
	// boundary "now" is clamped to when filtering today's slots.
	gridStepMinutes = 30
)

type blockKind string

const (
	blockEvent    blockKind = "existing_event"
	blockLunch    blockKind = "lunch_break"
	blockOffHours blockKind = "non_work_hours"
)

// blockedInterval is a time range that cannot host a new task. Transient:
// built per day, consumed by the slot generator, never persisted.
type blockedInterval struct {
	Start  time.Time
	End    time.Time
	Kind   blockKind
	Source string // originating event title, if any
}

func (b blockedInterval) overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// Slot is a candidate interval for placing a task. Transient: exists only
// during generation and scoring.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available int       // minutes usable from Start, may exceed the task duration
	Day       time.Time // midnight of the owning calendar date
}

// Options tunes the decision engine. The zero value is ready to use.
type Options struct {
	// HorizonDays bounds the day search. 0 means 7; values above 14 clamp.
	HorizonDays int
	// Strategy picks the slot generator; empty means StrategyGap.
	Strategy Strategy
	// Rules overrides the scoring rule list; nil means DefaultRules().
	Rules []Rule
}

func (o Options) horizon() int {
	h := o.HorizonDays
	if h <= 0 {
		h = defaultHorizonDays
	}
	if h > maxHorizonDays {
		h = maxHorizonDays
	}
	return h
}

// Result is the discriminated outcome of Schedule.
//
// On success Events holds the task event first, then an optional trailing
// break event; Update carries the task mutation. On failure only Reason is
// set. Callers own the emitted events (IDs are left blank for the caller to
// assign).
type Result struct {
	OK     bool
	Reason string

	Events []model.Event
	Update *model.TaskUpdate

	// Score of the winning slot and the number of days inspected, surfaced
	// for diagnostics/logging.
	Score        float64
	DaysSearched int
}
