package plan

import (
	"strings"
	"time"

	"taskplan/internal/model"
)

// scoreContext is the read-only environment a rule evaluates a slot against.
type scoreContext struct {
	Task   model.Task
	Prefs  Prefs
	Now    time.Time
	Events []model.Event // full snapshot; rules narrow to the slot's day
}

// Rule is one named scoring adjustment. Rules are pure: same slot and
// context, same delta. The engine applies them in list order and the order
// is part of the contract (reproducible scores).
type Rule struct {
	Name  string
	Delta func(s Slot, ctx *scoreContext) float64
}

// baseScore is the neutral starting score before any rule applies.
const baseScore = 100

// Priority deltas. Strictly monotonic: urgent > high > medium > low.
const (
	priorityUrgentDelta = 35
	priorityHighDelta   = 20
	priorityMediumDelta = 5
	priorityLowDelta    = -5
)

// categoryAffinity maps a category to its (morning, afternoon) bonuses.
// Unknown categories use the "personal" row.
var categoryAffinity = map[string][2]float64{
	"work":     {15, 10},
	"learning": {20, 5},
	"health":   {15, 12},
	"errands":  {0, 15},
	"personal": {5, 10},
	"finance":  {12, 8},
	"home":     {0, 12},
}

// DefaultRules returns the scoring rule list in its documented order.
// Callers may substitute a trimmed or reweighted list via Options.Rules;
// each rule is independently testable.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "priority", Delta: rulePriority},
		{Name: "energy_peak", Delta: ruleEnergyPeak},
		{Name: "low_energy", Delta: ruleLowEnergy},
		{Name: "half_day_preference", Delta: ruleHalfDayPreference},
		{Name: "category_affinity", Delta: ruleCategoryAffinity},
		{Name: "urgency_decay", Delta: ruleUrgencyDecay},
		{Name: "due_proximity", Delta: ruleDueProximity},
		{Name: "workload_balance", Delta: ruleWorkloadBalance},
		{Name: "clustering", Delta: ruleClustering},
		{Name: "duration_fit", Delta: ruleDurationFit},
		{Name: "weekend_policy", Delta: ruleWeekendPolicy},
	}
}

func rulePriority(_ Slot, ctx *scoreContext) float64 {
	switch ctx.Task.Priority {
	case model.PriorityUrgent:
		return priorityUrgentDelta
	case model.PriorityHigh:
		return priorityHighDelta
	case model.PriorityMedium:
		return priorityMediumDelta
	default:
		return priorityLowDelta
	}
}

func ruleEnergyPeak(s Slot, ctx *scoreContext) float64 {
	m := minuteOfDay(s.Start)
	if m >= ctx.Prefs.PeakStart && m < ctx.Prefs.PeakEnd {
		return 28
	}
	return 0
}

// ruleLowEnergy penalizes early-morning, late-evening and lunch-dip starts.
func ruleLowEnergy(s Slot, _ *scoreContext) float64 {
	m := minuteOfDay(s.Start)
	if m < 8*60 || m >= 19*60 {
		return -15
	}
	if m >= 12*60 && m < 14*60 {
		return -15
	}
	return 0
}

func ruleHalfDayPreference(s Slot, ctx *scoreContext) float64 {
	morning := minuteOfDay(s.Start) < 12*60
	switch {
	case ctx.Prefs.PreferMorning && morning:
		return 25
	case ctx.Prefs.PreferMorning && !morning:
		return -20
	case ctx.Prefs.PreferAfternoon && !morning:
		return 25
	case ctx.Prefs.PreferAfternoon && morning:
		return -20
	default:
		return 0
	}
}

func ruleCategoryAffinity(s Slot, ctx *scoreContext) float64 {
	row, ok := categoryAffinity[strings.ToLower(strings.TrimSpace(ctx.Task.Category))]
	if !ok {
		row = categoryAffinity["personal"]
	}
	if minuteOfDay(s.Start) < 12*60 {
		return row[0]
	}
	return row[1]
}

// ruleUrgencyDecay boosts urgent tasks the sooner the slot is: the bonus
// decays with distance from now and vanishes past eight hours.
func ruleUrgencyDecay(s Slot, ctx *scoreContext) float64 {
	if ctx.Task.Priority != model.PriorityUrgent {
		return 0
	}
	wait := s.Start.Sub(ctx.Now)
	switch {
	case wait < 4*time.Hour:
		return 30
	case wait < 8*time.Hour:
		return 15
	default:
		return 0
	}
}

// ruleDueProximity rewards non-urgent tasks with a due date as the slot's
// day closes in on it (tiers at under one, two and three days).
func ruleDueProximity(s Slot, ctx *scoreContext) float64 {
	if ctx.Task.Priority == model.PriorityUrgent {
		return 0
	}
	due, ok := ctx.Task.Due(s.Start.Location())
	if !ok {
		return 0
	}
	days := int(midnight(due).Sub(s.Day).Hours() / 24)
	switch {
	case days < 1:
		return 25
	case days < 2:
		return 15
	case days < 3:
		return 8
	default:
		return 0
	}
}

func ruleWorkloadBalance(s Slot, ctx *scoreContext) float64 {
	n := 0
	for _, ev := range ctx.Events {
		if ev.OnDay(s.Day) {
			n++
		}
	}
	switch {
	case n < 3:
		return 10
	case n > 6:
		return -15
	default:
		return 0
	}
}

// ruleClustering discourages stacking auto-placed work: more than two
// task-linked events within two hours of the candidate start costs points.
func ruleClustering(s Slot, ctx *scoreContext) float64 {
	n := 0
	for _, ev := range ctx.Events {
		if ev.TaskID == "" {
			continue
		}
		gap := ev.Start.Sub(s.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap <= 2*time.Hour {
			n++
		}
	}
	if n > 2 {
		return -12
	}
	return 0
}

// ruleDurationFit scores how snugly the slot fits the task: near-exact fits
// win, undersized slots are heavily penalized, oversized ones gain little.
func ruleDurationFit(s Slot, ctx *scoreContext) float64 {
	need := ctx.Task.DurationMinutes()
	if need <= 0 || s.Available <= 0 {
		return -40
	}
	ratio := float64(s.Available) / float64(need)
	switch {
	case ratio < 1:
		return -40
	case ratio <= 1.2:
		return 15
	case ratio <= 1.5:
		return 8
	default:
		return 0
	}
}

func ruleWeekendPolicy(s Slot, ctx *scoreContext) float64 {
	wd := s.Day.Weekday()
	if wd != time.Saturday && wd != time.Sunday {
		return 0
	}
	if !ctx.Prefs.WeekendWork {
		// Effectively disqualifying; the engine also skips these days
		// outright, this keeps direct scorer use consistent.
		return -1000
	}
	if strings.EqualFold(strings.TrimSpace(ctx.Task.Category), "work") {
		return -10
	}
	return 0
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
