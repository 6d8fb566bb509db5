package scheduler

import (
	"context"
	"time"

	"ulok_portal_backend/platform/logger"
)

const defaultSweepInterval = 6 * time.Hour

// SweepDispatcher enqueues an orphan sweep every interval.
type SweepDispatcher struct {
	scheduler SweepScheduler
	interval  time.Duration
	grace     time.Duration
	now       func() time.Time
	log       *logger.Logger
}

func NewSweepDispatcher(scheduler SweepScheduler, interval, grace time.Duration, log *logger.Logger) *SweepDispatcher {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if grace < 0 {
		grace = 0
	}
	return &SweepDispatcher{
		scheduler: scheduler,
		interval:  interval,
		grace:     grace,
		now:       time.Now,
		log:       log,
	}
}

// Run enqueues one sweep immediately and then once per interval until ctx
// is done.
func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.scheduler == nil {
		return
	}

	d.dispatch(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatch(ctx)
		}
	}
}

func (d *SweepDispatcher) dispatch(ctx context.Context) {
	payload := OrphanSweepPayload{Cutoff: d.now().Add(-d.grace).UTC()}
	if err := d.scheduler.ScheduleOrphanSweep(ctx, payload, d.interval); err != nil {
		d.log.Warn("orphan sweep enqueue failed", "error", err)
	}
}
