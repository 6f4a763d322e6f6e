package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher schedules payment reminders on the queue.
type Dispatcher struct {
	client Enqueuer
	delay  time.Duration
	log    *zap.Logger
}

func NewDispatcher(client Enqueuer, delay time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{client: client, delay: delay, log: log}
}

// SchedulePaymentReminder queues one reminder per product per delay window.
func (d *Dispatcher) SchedulePaymentReminder(ctx context.Context, productID string) error {
	task, err := NewPaymentReminderTask(productID)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, task, asynq.ProcessIn(d.delay), asynq.Unique(d.delay))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}
	d.log.Debug("payment reminder scheduled", zap.String("product_id", productID), zap.String("task_id", info.ID))
	return nil
}
