package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"commissionhub/internal/domain"
	"commissionhub/internal/metrics"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Reminder sends the reminder notice if the product still awaits payment.
type Reminder interface {
	RemindPayment(ctx context.Context, productID string) (bool, error)
}

type Processor struct {
	reminder Reminder
	log      *zap.Logger
}

func NewProcessor(reminder Reminder, log *zap.Logger) *Processor {
	return &Processor{reminder: reminder, log: log}
}

func (p *Processor) ProcessPaymentReminder(ctx context.Context, t *asynq.Task) error {
	var payload PaymentReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		metrics.Measures.Reminders.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	sent, err := p.reminder.RemindPayment(ctx, payload.ProductID)
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		metrics.Measures.Reminders.WithLabelValues(metrics.OutcomeRejected).Inc()
		return fmt.Errorf("product %s: %w", payload.ProductID, asynq.SkipRetry)
	case err != nil:
		metrics.Measures.Reminders.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	case !sent:
		metrics.Measures.Reminders.WithLabelValues(metrics.OutcomeRejected).Inc()
		p.log.Debug("payment reminder not needed", zap.String("product_id", payload.ProductID))
		return nil
	}
	metrics.Measures.Reminders.WithLabelValues(metrics.OutcomeOK).Inc()
	p.log.Info("payment reminder sent", zap.String("product_id", payload.ProductID))
	return nil
}

// NewServeMux routes queue tasks to the processor.
func NewServeMux(p *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPaymentReminder, p.ProcessPaymentReminder)
	return mux
}
