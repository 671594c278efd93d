package plan

import "sort"

// scoreSlot applies the rule list in order to one slot. Deterministic and
// pure; the result is clamped to a non-negative floor.
func scoreSlot(s Slot, ctx *scoreContext, rules []Rule) float64 {
	score := float64(baseScore)
	for _, r := range rules {
		score += r.Delta(s, ctx)
	}
	if score < 0 {
		return 0
	}
	return score
}

type scoredSlot struct {
	Slot  Slot
	Score float64
}

// rankSlots scores every candidate and orders them best-first. Ties break
// toward the earliest start so equal scores stay reproducible.
func rankSlots(slots []Slot, ctx *scoreContext, rules []Rule) []scoredSlot {
	out := make([]scoredSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, scoredSlot{Slot: s, Score: scoreSlot(s, ctx, rules)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Slot.Start.Before(out[j].Slot.Start)
	})
	return out
}
