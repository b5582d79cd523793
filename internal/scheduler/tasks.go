// Package scheduler runs the periodic document lifecycle jobs over an
// asynq task queue backed by Redis.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskInvoiceOverdueSweep = "invoicing.invoices.overdue_sweep"

const TaskQuoteExpirySweep = "invoicing.quotes.expiry_sweep"

const TaskDueReminders = "invoicing.reminders.dispatch"

// SweepPayload carries the date a sweep was scheduled for, so delayed
// executions remain traceable in the queue.
type SweepPayload struct {
	ScheduledFor string `json:"scheduledFor"`
}

func NewInvoiceOverdueSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceOverdueSweep, data), nil
}

func NewQuoteExpirySweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteExpirySweep, data), nil
}

func NewDueRemindersTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDueReminders, data), nil
}

func ParseSweepPayload(task *asynq.Task) (SweepPayload, error) {
	var payload SweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SweepPayload{}, err
	}
	return payload, nil
}
