package planner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"taskplan/internal/eventbus"
	"taskplan/internal/model"
	"taskplan/internal/plan"
	"taskplan/internal/storage"
	logx "taskplan/pkg/logx"
)

// Config controls the planner service.
type Config struct {
	Enabled  bool
	Timezone string // IANA TZ; empty means local
	Schedule string // cron spec or "@every <dur>"; default "@every 5m"

	HorizonDays      int
	Strategy         string // "gap" (default) or "grid"
	ReplansPerMinute int    // watch-triggered replan budget; default 6
}

const (
	defaultSchedule    = "@every 5m"
	defaultReplansPerM = 6
)

func (c Config) schedule() string {
	if strings.TrimSpace(c.Schedule) == "" {
		return defaultSchedule
	}
	return c.Schedule
}

func (c Config) planOptions() plan.Options {
	opts := plan.Options{HorizonDays: c.HorizonDays}
	if strings.EqualFold(strings.TrimSpace(c.Strategy), string(plan.StrategyGrid)) {
		opts.Strategy = plan.StrategyGrid
	}
	return opts
}

func (c Config) replanLimit() rate.Limit {
	n := c.ReplansPerMinute
	if n <= 0 {
		n = defaultReplansPerM
	}
	return rate.Limit(float64(n) / 60.0)
}

// Service drives planning sweeps. One background worker drains a trigger
// channel fed by the cron entry, the task-file watcher, and manual kicks.
type Service struct {
	mu sync.Mutex

	log   logx.Logger
	cfg   Config
	prefs model.Preferences
	loc   *time.Location

	store storage.Store
	bus   eventbus.Bus

	parser  cron.Parser
	c       *cron.Cron
	entryID cron.EntryID

	limiter *rate.Limiter

	trigger chan sweepCause
	stopCh  chan struct{}
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// injectable clock for tests
	now func() time.Time

	sweeps    uint64
	lastSweep SweepReport
}

// sweepCause records why a sweep was requested, for logging.
type sweepCause string

const (
	causeCron   sweepCause = "cron"
	causeWatch  sweepCause = "watch"
	causeManual sweepCause = "manual"
)

// SweepReport summarizes one pass over the backlog.
type SweepReport struct {
	At            time.Time
	Cause         string
	Considered    int
	Scheduled     int
	Unschedulable int
	Conflicts     int
	Errors        int
	Took          time.Duration
}

// ScheduledInfo is the bus payload for a placed task.
type ScheduledInfo struct {
	TaskID string
	Title  string
	Start  time.Time
	End    time.Time
	Score  float64
}

// UnschedulableInfo is the bus payload for an exhausted horizon.
type UnschedulableInfo struct {
	TaskID string
	Title  string
	Reason string
}

// Snapshot is a diagnostics view of the service.
type Snapshot struct {
	Enabled  bool
	Timezone string
	Schedule string
	Next     time.Time
	Prev     time.Time
	Sweeps   uint64
	Last     SweepReport
}
