package planner

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"taskplan/internal/eventbus"
	"taskplan/internal/model"
	"taskplan/internal/plan"
	logx "taskplan/pkg/logx"
)

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, trigger <-chan sweepCause) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case cause := <-trigger:
			if !s.Enabled() {
				continue
			}
			report := s.sweep(ctx, cause)
			s.mu.Lock()
			s.sweeps++
			s.lastSweep = report
			s.mu.Unlock()
			s.publish(eventbus.TopicSweepDone, report)
		}
	}
}

// sweep schedules every unscheduled todo task against the current snapshot.
// Results are persisted one task at a time; each placement is re-validated
// against a fresh snapshot first, and placements made earlier in the same
// sweep are visible to later tasks.
func (s *Service) sweep(ctx context.Context, cause sweepCause) SweepReport {
	start := s.clock()
	report := SweepReport{At: start, Cause: string(cause)}

	if s.store == nil {
		return report
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		s.log.Error("snapshot failed", logx.Err(err))
		report.Errors++
		return report
	}

	s.mu.Lock()
	prefs := s.prefs
	opts := s.cfg.planOptions()
	loc := s.loc
	s.mu.Unlock()
	if loc == nil {
		loc = time.Local
	}

	events := snap.Events
	for _, task := range snap.Tasks {
		if !task.Unscheduled() {
			continue
		}
		report.Considered++

		now := s.clock().In(loc)
		res := plan.ScheduleWith(task, prefs, events, now, opts)
		if !res.OK {
			report.Unschedulable++
			s.log.Info("task unschedulable",
				logx.String("task", task.ID),
				logx.String("reason", res.Reason),
			)
			s.publish(eventbus.TopicTaskUnschedulable, UnschedulableInfo{
				TaskID: task.ID,
				Title:  task.Title,
				Reason: res.Reason,
			})
			continue
		}

		if err := s.persist(ctx, task, res); err != nil {
			if errors.Is(err, errSlotTaken) {
				report.Conflicts++
				s.log.Warn("slot taken before persist; task deferred to next sweep",
					logx.String("task", task.ID),
					logx.Time("slot", res.Update.ScheduledStart),
				)
			} else {
				report.Errors++
				s.log.Error("persist failed", logx.String("task", task.ID), logx.Err(err))
			}
			continue
		}

		report.Scheduled++
		events = append(events, res.Events...)
		s.log.Info("task scheduled",
			logx.String("task", task.ID),
			logx.Time("start", res.Update.ScheduledStart),
			logx.Time("end", res.Update.ScheduledEnd),
			logx.Float64("score", res.Score),
			logx.Int("days_searched", res.DaysSearched),
		)
		s.publish(eventbus.TopicTaskScheduled, ScheduledInfo{
			TaskID: task.ID,
			Title:  task.Title,
			Start:  res.Update.ScheduledStart,
			End:    res.Update.ScheduledEnd,
			Score:  res.Score,
		})
	}

	report.Took = s.clock().Sub(start)
	s.log.Debug("sweep done",
		logx.String("cause", report.Cause),
		logx.Int("considered", report.Considered),
		logx.Int("scheduled", report.Scheduled),
		logx.Int("unschedulable", report.Unschedulable),
		logx.Int("conflicts", report.Conflicts),
		logx.Duration("took", report.Took),
	)
	return report
}

var errSlotTaken = errors.New("chosen slot no longer free")

// persist re-validates the chosen slot against a fresh snapshot, assigns IDs
// to the emitted events, and writes both the events and the task update.
func (s *Service) persist(ctx context.Context, task model.Task, res plan.Result) error {
	fresh, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	placed := res.Events[0]
	for _, ev := range fresh.Events {
		if ev.TaskID == task.ID {
			continue
		}
		if placed.Start.Before(ev.End) && placed.End.After(ev.Start) {
			return errSlotTaken
		}
	}

	events := make([]model.Event, len(res.Events))
	copy(events, res.Events)
	for i := range events {
		events[i].ID = uuid.NewString()
	}

	if err := s.store.AppendEvents(ctx, events); err != nil {
		return err
	}
	return s.store.ApplyTaskUpdate(ctx, *res.Update)
}

func (s *Service) clock() time.Time {
	s.mu.Lock()
	now := s.now
	s.mu.Unlock()
	if now == nil {
		return time.Now()
	}
	return now()
}

// watchTasks follows the store's task file and requests a rate-limited sweep
// on every settled change.
func (s *Service) watchTasks(ctx context.Context, stopCh <-chan struct{}) {
	path := s.store.WatchPath()
	dir := filepath.Dir(path)
	file := filepath.Base(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("task watch unavailable", logx.Err(err))
		return
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		s.log.Warn("task watch add failed", logx.Err(err), logx.String("dir", dir))
		return
	}
	s.log.Debug("watching task file", logx.String("path", path))

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !s.allowWatchReplan() {
				s.log.Debug("replan budget exhausted; change picked up by next cron sweep")
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() { s.kick(causeWatch) })
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if err != nil {
				s.log.Warn("task watch error", logx.Err(err))
			}
		}
	}
}
