package config

import (
	"fmt"
	"strings"

	"taskplan/internal/model"
)

// Config is the daemon's full configuration.
//
// JSON is canonical; YAML configs are accepted by coercion (see yaml.go).
// Unknown fields are rejected so typos fail loudly at load time.
type Config struct {
	Logging LoggingConfig `json:"logging"`

	// Storage is the tasks/events persistence layer the planner reads its
	// snapshots from and writes scheduling results to.
	Storage StorageConfig `json:"storage"`

	Planner PlannerConfig `json:"planner"`

	// Preferences is the raw scheduling preference record; missing fields
	// fall back to documented defaults at resolution time.
	Preferences model.Preferences `json:"preferences"`

	Debug DebugConfig `json:"debug,omitempty"`
}

type DebugConfig struct {
	Pprof PprofConfig `json:"pprof,omitempty"`
}

// PprofConfig controls the optional profiling HTTP server. Non-loopback
// binds require a token.
type PprofConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"`   // default "127.0.0.1:6060"
	Prefix  string `json:"prefix,omitempty"` // default "/debug/pprof/"
	Token   string `json:"token,omitempty"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console bool       `json:"console"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./taskplan_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// PlannerConfig controls the background planning service.
//
// Schedule accepts a cron spec (5 or 6 fields) or "@every <duration>"; it
// drives the periodic sweep that schedules every unscheduled todo task.
type PlannerConfig struct {
	Enabled  bool   `json:"enabled"`
	Timezone string `json:"timezone,omitempty"` // IANA TZ, e.g. "Europe/Berlin"
	Schedule string `json:"schedule,omitempty"` // default "@every 5m"

	// HorizonDays bounds the slot search; 0 means 7, values above 14 clamp.
	HorizonDays int `json:"horizon_days,omitempty"`

	// Strategy is "gap" (default) or "grid".
	Strategy string `json:"strategy,omitempty"`

	// ReplansPerMinute rate-limits file-change-triggered replans so editor
	// save storms don't turn into planning storms. 0 means 6.
	ReplansPerMinute int `json:"replans_per_minute,omitempty"`
}

// Validate rejects configurations the services would choke on later.
func (c *Config) Validate() error {
	switch s := strings.ToLower(strings.TrimSpace(c.Planner.Strategy)); s {
	case "", "gap", "grid":
	default:
		return fmt.Errorf("planner.strategy: unknown strategy %q", s)
	}
	if c.Planner.HorizonDays < 0 {
		return fmt.Errorf("planner.horizon_days: must be >= 0")
	}
	if c.Planner.ReplansPerMinute < 0 {
		return fmt.Errorf("planner.replans_per_minute: must be >= 0")
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	return nil
}
