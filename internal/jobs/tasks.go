package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskPaymentReminder = "product:payment_reminder"

type PaymentReminderPayload struct {
	ProductID string `json:"product_id"`
}

func NewPaymentReminderTask(productID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PaymentReminderPayload{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		TaskPaymentReminder,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}
