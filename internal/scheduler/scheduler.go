// Package scheduler drives the fixed-interval evaluation loop: every tick
// it scans the registry, asks the matcher which reminders are due, claims
// the per-day de-duplication marker and hands winners to the dispatcher.
package scheduler

import (
	"context"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/dedup"
	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/schedule"
)

// source yields the reminders to evaluate. The scheduler touches only this
// in-memory snapshot during a tick, never the durable store.
type source interface {
	Snapshot() []model.Reminder
}

// dispatcher receives reminders whose marker claim succeeded.
type dispatcher interface {
	Reminder(r model.Reminder, at time.Time)
}

// Scheduler owns the tick loop. One instance per process.
type Scheduler struct {
	registry source
	markers  dedup.Markers
	dispatch dispatcher
	tick     time.Duration
	window   time.Duration
}

// New creates a scheduler. The window must be at least the tick period;
// config validation refuses anything smaller before the process starts.
func New(registry source, markers dedup.Markers, dispatch dispatcher, tick, window time.Duration) *Scheduler {
	return &Scheduler{
		registry: registry,
		markers:  markers,
		dispatch: dispatch,
		tick:     tick,
		window:   window,
	}
}

// Run ticks until ctx is done. A tick that takes longer than the tick
// period makes the ticker drop intervals rather than queue them, so slow
// evaluation can never pile up. Pauses longer than the firing window
// legitimately skip that day's firings.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	zlog.Logger.Info().
		Dur("tick", s.tick).
		Dur("window", s.window).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("scheduler stopped")
			return
		case now := <-ticker.C:
			s.evaluate(ctx, now.UTC())
		}
	}
}

// evaluate runs one pass over a snapshot of the registry. Each reminder is
// evaluated in isolation; one bad record never aborts the rest of the tick.
func (s *Scheduler) evaluate(ctx context.Context, now time.Time) {
	for _, rem := range s.registry.Snapshot() {
		s.evaluateOne(ctx, now, rem)
	}
}

func (s *Scheduler) evaluateOne(ctx context.Context, now time.Time, rem model.Reminder) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().
				Interface("panic", r).
				Str("reminder_id", rem.ID).
				Msg("reminder evaluation panicked, skipping for this tick")
		}
	}()

	if !schedule.ShouldFire(now, rem, s.window) {
		return
	}

	// Claim the marker before dispatching: losing a notification to a
	// crash between claim and send beats delivering it twice.
	first, err := s.markers.FirstFiring(ctx, rem.ID, schedule.TargetDate(now, rem))
	if err != nil {
		zlog.Logger.Error().Err(err).Str("reminder_id", rem.ID).Msg("marker claim failed, skipping this tick")
		return
	}
	if !first {
		return
	}

	zlog.Logger.Info().
		Str("reminder_id", rem.ID).
		Str("owner_id", rem.OwnerID).
		Str("time_of_day", rem.TimeOfDay.String()).
		Msg("reminder fired")

	s.dispatch.Reminder(rem, now)
}
