// Package app assembles the daemon: config manager, logging service,
// storage, event bus, the planner, and the optional debug server, plus the
// hot-reload plumbing between them.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskplan/internal/config"
	"taskplan/internal/eventbus"
	"taskplan/internal/observability/pprof"
	"taskplan/internal/service/planner"
	"taskplan/internal/storage"
	logx "taskplan/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	store   storage.Store
	bus     eventbus.Bus
	planner *planner.Service
	pprof   *pprof.Service

	sup *supervisor
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	busyTimeout, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()

	plannerSvc := planner.New(plannerConfig(cfg), store, bus,
		log.With(logx.String("comp", "planner")))
	plannerSvc.SetPreferences(cfg.Preferences)

	pprofSvc := pprof.New(pprofConfig(cfg), log.With(logx.String("comp", "pprof")))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		logs:    logSvc,
		log:     log,
		store:   store,
		bus:     bus,
		planner: plannerSvc,
		pprof:   pprofSvc,
	}, nil
}

// Bus exposes the in-process event stream (scheduled / unschedulable /
// sweep-done notifications).
func (a *App) Bus() eventbus.Bus { return a.bus }

func (a *App) Planner() *planner.Service { return a.planner }

func (a *App) Start(ctx context.Context) error {
	a.sup = newSupervisor(ctx, a.log)

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	// transactional config reload: validate before commit/publish
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := a.planner.ValidateSchedule(cfg.Planner.Schedule); err != nil {
			return fmt.Errorf("planner.schedule: %w", err)
		}
		if tz := strings.TrimSpace(cfg.Planner.Timezone); tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("planner.timezone: invalid %q: %w", tz, err)
			}
		}
		return nil
	})

	if a.planner.Enabled() {
		a.planner.Start(a.sup.Context())
	}
	a.pprof.Start(a.sup.Context())

	// hot reload config fan-out
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.reloadLoop(c, sub)
	})
	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started", logx.String("config", a.cfgPath))
	return nil
}

func (a *App) reloadLoop(ctx context.Context, sub chan *config.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config in the channel.
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
					continue
				default:
				}
				break
			}
			a.applyConfig(ctx, newCfg)
		}
	}
}

func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	prevEnabled := a.planner.Enabled()
	a.planner.SetPreferences(cfg.Preferences)
	a.planner.Apply(plannerConfig(cfg))

	// enable/disable the planner on the fly
	if prevEnabled && !cfg.Planner.Enabled {
		a.log.Info("planner disabled via config")
		stopCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		a.planner.Stop(stopCtx)
		cancel()
	} else if !prevEnabled && cfg.Planner.Enabled {
		a.log.Info("planner enabled via config")
		a.planner.Start(ctx)
	} else if cfg.Planner.Enabled {
		// preference or option changes should take effect promptly
		a.planner.TriggerSweep()
	}

	a.pprof.Reconfigure(ctx, pprofConfig(cfg))

	// Storage is wired at boot; a driver/path change needs a restart.
	a.log.Info("config reloaded",
		logx.Bool("planner_enabled", cfg.Planner.Enabled),
		logx.String("schedule", cfg.Planner.Schedule),
	)
}

// Stop shuts components down in dependency order, each step bounded so one
// component can't stall the whole stop.
func (a *App) Stop(ctx context.Context) error {
	if a.sup != nil {
		a.sup.Cancel()
	}

	step := func(name string, max time.Duration, fn func(context.Context)) {
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()
		start := time.Now()
		fn(stepCtx)
		a.log.Debug("stop step done", logx.String("name", name), logx.Duration("took", time.Since(start)))
	}

	step("planner", 5*time.Second, func(c context.Context) { a.planner.Stop(c) })
	step("pprof", 3*time.Second, func(c context.Context) { a.pprof.Stop(c) })

	if a.sup != nil {
		if err := a.sup.Wait(ctx); err != nil && ctx.Err() != nil {
			a.log.Warn("stop timed out waiting for background loops")
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("storage close", logx.Err(err))
		}
	}
	a.log.Info("app stopped")
	return a.logs.Close()
}

func plannerConfig(cfg *config.Config) planner.Config {
	return planner.Config{
		Enabled:          cfg.Planner.Enabled,
		Timezone:         cfg.Planner.Timezone,
		Schedule:         cfg.Planner.Schedule,
		HorizonDays:      cfg.Planner.HorizonDays,
		Strategy:         cfg.Planner.Strategy,
		ReplansPerMinute: cfg.Planner.ReplansPerMinute,
	}
}

func pprofConfig(cfg *config.Config) pprof.Config {
	return pprof.Config{
		Enabled: cfg.Debug.Pprof.Enabled,
		Addr:    cfg.Debug.Pprof.Addr,
		Prefix:  cfg.Debug.Pprof.Prefix,
		Token:   cfg.Debug.Pprof.Token,
	}
}
