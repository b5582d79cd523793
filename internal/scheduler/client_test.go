package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "lifecycle" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestEnqueueSweeps(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr()}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	scheduledFor := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	if err := client.EnqueueSweeps(context.Background(), scheduledFor); err != nil {
		t.Fatalf("enqueue sweeps: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("lifecycle")
	if err != nil {
		t.Fatalf("list pending tasks: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending tasks, got %d", len(pending))
	}

	types := make(map[string]bool)
	for _, task := range pending {
		types[task.Type] = true

		payload, err := ParseSweepPayload(asynq.NewTask(task.Type, task.Payload))
		if err != nil {
			t.Fatalf("parse payload for %s: %v", task.Type, err)
		}
		if payload.ScheduledFor != "2026-08-29" {
			t.Fatalf("expected scheduled date 2026-08-29, got %q", payload.ScheduledFor)
		}
	}
	for _, want := range []string{TaskInvoiceOverdueSweep, TaskQuoteExpirySweep, TaskDueReminders} {
		if !types[want] {
			t.Fatalf("expected task %s to be enqueued, got %v", want, types)
		}
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error when redis url is missing")
	}
}
