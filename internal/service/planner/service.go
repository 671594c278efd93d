package planner

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"taskplan/internal/eventbus"
	"taskplan/internal/model"
	"taskplan/internal/storage"
	logx "taskplan/pkg/logx"
)

func New(cfg Config, store storage.Store, bus eventbus.Bus, log logx.Logger) *Service {
	return &Service{
		log:   log,
		cfg:   cfg,
		store: store,
		bus:   bus,
		// SecondOptional allows both 5-field and 6-field cron specs.
		parser:  cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		limiter: rate.NewLimiter(cfg.replanLimit(), 1),
		now:     time.Now,
	}
}

// SetPreferences swaps the raw scheduling preferences used by future sweeps.
func (s *Service) SetPreferences(p model.Preferences) {
	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
}

// Apply updates config at runtime. A timezone or schedule change restarts
// the cron entry; everything else takes effect on the next sweep.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restart := s.stopCh != nil &&
		(strings.TrimSpace(s.cfg.Timezone) != strings.TrimSpace(cfg.Timezone) ||
			s.cfg.schedule() != cfg.schedule())
	s.cfg = cfg
	s.limiter = rate.NewLimiter(cfg.replanLimit(), 1)

	if restart {
		s.stopCronLocked()
		s.loc = s.loadLocationLocked()
		s.startCronLocked()
	}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

// ValidateSchedule reports whether the given spec would be accepted.
func (s *Service) ValidateSchedule(spec string) error {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	_, err := s.parser.Parse(spec)
	return err
}

// Start launches the sweep worker, the cron entry, and (when the store
// exposes one) the task-file watcher. Idempotent while running.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.trigger = make(chan sweepCause, 1)

	s.loc = s.loadLocationLocked()
	s.startCronLocked()

	runCtx := s.runCtx
	stopCh := s.stopCh
	trigger := s.trigger

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("panic in planner worker", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
			}
		}()
		s.worker(runCtx, stopCh, trigger)
	}()

	if s.store != nil && s.store.WatchPath() != "" {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.watchTasks(runCtx, stopCh)
		}()
	}

	s.log.Info("planner started",
		logx.String("schedule", s.cfg.schedule()),
		logx.String("tz", s.loc.String()),
		logx.String("strategy", string(s.cfg.planOptions().Strategy)),
	)
}

// Stop halts cron, the watcher, and the worker, waiting up to ctx.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh := s.stopCh
	cancel := s.cancel
	s.stopCh = nil
	s.cancel = nil
	s.stopCronLocked()
	s.mu.Unlock()

	close(stopCh)
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("planner stopped")
	case <-ctx.Done():
		// shutdown continues in background
	}
}

// TriggerSweep requests an immediate pass (used by tooling and tests).
func (s *Service) TriggerSweep() {
	s.kick(causeManual)
}

func (s *Service) kick(cause sweepCause) {
	s.mu.Lock()
	trigger := s.trigger
	s.mu.Unlock()
	if trigger == nil {
		return
	}
	select {
	case trigger <- cause:
	default:
		// a sweep is already pending; it will see the latest state anyway
	}
}

func (s *Service) startCronLocked() {
	spec := s.cfg.schedule()
	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(s.loc))
	id, err := c.AddFunc(spec, func() { s.kick(causeCron) })
	if err != nil {
		s.log.Error("invalid planner schedule", logx.String("spec", spec), logx.Err(err))
		return
	}
	s.c = c
	s.entryID = id
	c.Start()
}

func (s *Service) stopCronLocked() {
	if s.c != nil {
		s.c.Stop()
		s.c = nil
		s.entryID = 0
	}
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone; using local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}

// allowWatchReplan consumes one token from the replan budget.
func (s *Service) allowWatchReplan() bool {
	s.mu.Lock()
	lim := s.limiter
	s.mu.Unlock()
	return lim.Allow()
}

func (s *Service) publish(topic eventbus.Topic, data any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Topic: topic, Data: data})
}
