package model

// Preferences is the raw, possibly-partial scheduling preference record as
// stored/configured. Empty fields mean "use the default"; resolution into a
// fully populated form happens in the plan package.
//
// Times of day are "HH:MM" strings, durations are minutes.
type Preferences struct {
	WorkStart string `json:"work_start,omitempty"`
	WorkEnd   string `json:"work_end,omitempty"`

	// Alternate working window (school mode).
	SchoolMode  bool   `json:"school_mode,omitempty"`
	SchoolStart string `json:"school_start,omitempty"`
	SchoolEnd   string `json:"school_end,omitempty"`

	LunchEnabled  *bool  `json:"lunch_break_enabled,omitempty"`
	LunchStart    string `json:"lunch_break_start,omitempty"`
	LunchDuration int    `json:"lunch_break_duration,omitempty"`

	ShortBreak         int `json:"short_break_duration,omitempty"`
	LongBreak          int `json:"long_break_duration,omitempty"`
	MaxConsecutiveWork int `json:"max_consecutive_work,omitempty"`

	WeekendWork     bool `json:"weekend_work_allowed,omitempty"`
	PreferMorning   bool `json:"prefer_morning,omitempty"`
	PreferAfternoon bool `json:"prefer_afternoon,omitempty"`

	MeetingBuffer int `json:"meeting_buffer_minutes,omitempty"`

	EnergyPeakStart string `json:"energy_peak_start,omitempty"`
	EnergyPeakEnd   string `json:"energy_peak_end,omitempty"`
}
