package scheduler

import (
	"context"
	"fmt"

	"invoicing_backend/platform/config"
	"invoicing_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DocumentSweeper runs the date-driven lifecycle mutations. Implemented by
// the invoicing service.
type DocumentSweeper interface {
	SweepOverdueInvoices(ctx context.Context) (int, error)
	SweepExpiredQuotes(ctx context.Context) (int, error)
	DispatchDueReminders(ctx context.Context) (int, error)
}

// Worker consumes lifecycle tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper DocumentSweeper
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweeper DocumentSweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskInvoiceOverdueSweep, w.handleInvoiceOverdueSweep)
	mux.HandleFunc(TaskQuoteExpirySweep, w.handleQuoteExpirySweep)
	mux.HandleFunc(TaskDueReminders, w.handleDueReminders)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleInvoiceOverdueSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	count, err := w.sweeper.SweepOverdueInvoices(ctx)
	if err != nil {
		return fmt.Errorf("overdue sweep scheduled for %s: %w", payload.ScheduledFor, err)
	}
	w.log.Debug("overdue sweep completed", "scheduled_for", payload.ScheduledFor, "count", count)
	return nil
}

func (w *Worker) handleQuoteExpirySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	count, err := w.sweeper.SweepExpiredQuotes(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep scheduled for %s: %w", payload.ScheduledFor, err)
	}
	w.log.Debug("expiry sweep completed", "scheduled_for", payload.ScheduledFor, "count", count)
	return nil
}

func (w *Worker) handleDueReminders(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	count, err := w.sweeper.DispatchDueReminders(ctx)
	if err != nil {
		return fmt.Errorf("reminder dispatch scheduled for %s: %w", payload.ScheduledFor, err)
	}
	w.log.Debug("reminder dispatch completed", "scheduled_for", payload.ScheduledFor, "count", count)
	return nil
}
