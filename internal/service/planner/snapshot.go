package planner

import "time"

// Diagnostics returns a point-in-time view of the service state.
func (s *Service) Diagnostics() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Enabled:  s.cfg.Enabled,
		Timezone: s.cfg.Timezone,
		Schedule: s.cfg.schedule(),
		Sweeps:   s.sweeps,
		Last:     s.lastSweep,
	}
	if snap.Timezone == "" && s.loc != nil {
		snap.Timezone = s.loc.String()
	}
	if s.c != nil && s.entryID != 0 {
		e := s.c.Entry(s.entryID)
		snap.Next = e.Next
		snap.Prev = e.Prev
	}
	if snap.Timezone == "" {
		snap.Timezone = time.Local.String()
	}
	return snap
}
