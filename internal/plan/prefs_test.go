package plan

import (
	"testing"

	"taskplan/internal/model"
)

func TestResolveDefaults(t *testing.T) {
	t.Parallel()
	p := Resolve(model.Preferences{})

	if p.WorkStart != 9*60 || p.WorkEnd != 17*60 {
		t.Fatalf("work window = %d-%d, want 540-1020", p.WorkStart, p.WorkEnd)
	}
	if !p.LunchEnabled || p.LunchStart != 12*60 || p.LunchDuration != 60 {
		t.Fatalf("lunch defaults wrong: %+v", p)
	}
	if p.ShortBreak != 15 || p.LongBreak != 30 {
		t.Fatalf("break defaults wrong: short=%d long=%d", p.ShortBreak, p.LongBreak)
	}
	if p.MeetingBuffer != 10 {
		t.Fatalf("meeting buffer = %d, want 10", p.MeetingBuffer)
	}
	if p.PeakStart != 9*60 || p.PeakEnd != 11*60 {
		t.Fatalf("energy peak = %d-%d, want 540-660", p.PeakStart, p.PeakEnd)
	}
	if p.MaxConsecutiveWork != 120 {
		t.Fatalf("max consecutive work = %d, want 120", p.MaxConsecutiveWork)
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Parallel()
	off := false
	p := Resolve(model.Preferences{
		WorkStart:     "07:30",
		WorkEnd:       "16:00",
		LunchEnabled:  &off,
		MeetingBuffer: 20,
		SchoolMode:    true,
	})

	if p.WorkStart != 7*60+30 || p.WorkEnd != 16*60 {
		t.Fatalf("work window = %d-%d", p.WorkStart, p.WorkEnd)
	}
	if p.LunchEnabled {
		t.Fatal("lunch should be disabled")
	}
	if p.MeetingBuffer != 20 {
		t.Fatalf("meeting buffer = %d, want 20", p.MeetingBuffer)
	}
	ws, we := p.windowFor()
	if ws != 8*60 || we != 15*60 {
		t.Fatalf("school window = %d-%d, want 480-900", ws, we)
	}
}

func TestResolveBadValuesFallBack(t *testing.T) {
	t.Parallel()
	p := Resolve(model.Preferences{
		WorkStart:       "25:99",
		WorkEnd:         "oops",
		EnergyPeakStart: "11:00",
		EnergyPeakEnd:   "09:00", // inverted
	})
	if p.WorkStart != 9*60 || p.WorkEnd != 17*60 {
		t.Fatalf("malformed times should fall back: %d-%d", p.WorkStart, p.WorkEnd)
	}
	if p.PeakStart != 9*60 || p.PeakEnd != 11*60 {
		t.Fatalf("inverted peak should fall back: %d-%d", p.PeakStart, p.PeakEnd)
	}
}

func TestBreakFor(t *testing.T) {
	t.Parallel()
	p := Resolve(model.Preferences{})
	tests := []struct {
		work int
		want int
	}{
		{30, 0},
		{59, 0},
		{60, 15},
		{119, 15},
		{120, 30},
		{180, 30},
	}
	for _, tt := range tests {
		if got := p.breakFor(tt.work); got != tt.want {
			t.Fatalf("breakFor(%d) = %d, want %d", tt.work, got, tt.want)
		}
	}
}

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	h, m, err := parseHHMM("23:15")
	if err != nil {
		t.Fatalf("parseHHMM error: %v", err)
	}
	if h != 23 || m != 15 {
		t.Fatalf("unexpected result: %d:%d", h, m)
	}

	for _, bad := range []string{"24:00", "12", "ab:cd", "12:60", ""} {
		if _, _, err := parseHHMM(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
