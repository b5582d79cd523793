package scheduler

import (
	"context"
	"time"

	"invoicing_backend/platform/logger"
)

// SweepDispatcher periodically enqueues the lifecycle sweep tasks. Sweeps
// are idempotent, so enqueueing more often than once a day only costs a
// few no-op updates.
type SweepDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(client *Client, interval time.Duration, log *logger.Logger) *SweepDispatcher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepDispatcher{client: client, interval: interval, log: log}
}

// Run enqueues the sweeps immediately and then on every tick until the
// context is cancelled.
func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.enqueue(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.enqueue(ctx)
		}
	}
}

func (d *SweepDispatcher) enqueue(ctx context.Context) {
	if err := d.client.EnqueueSweeps(ctx, time.Now().UTC()); err != nil {
		d.log.Warn("failed to enqueue lifecycle sweeps", "error", err)
	}
}
