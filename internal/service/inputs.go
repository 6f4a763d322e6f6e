package service

import (
	"strings"

	"commissionhub/internal/domain"

	"github.com/shopspring/decimal"
)

// Money columns are decimal(12,2).
var maxAmount = decimal.New(1, 10)

func checkAmount(d decimal.Decimal, name string) error {
	if !d.IsPositive() {
		return domain.Validation(name + " must be a positive number")
	}
	if !d.Equal(d.Round(2)) {
		return domain.Validation(name + " can have at most 2 decimal places")
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return domain.Validation(name + " must be less than " + maxAmount.String())
	}
	return nil
}

type CreateProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
}

func (in *CreateProductInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return domain.Validation("Title, description and budget are required")
	}
	return checkAmount(in.Budget, "Budget")
}

type ApproveInput struct {
	Budget decimal.Decimal `json:"budget"`
}

func (in *ApproveInput) Validate() error {
	return checkAmount(in.Budget, "Budget")
}

type SubmitDemoInput struct {
	DemoURL         string `json:"demo_url"`
	DemoDescription string `json:"demo_description"`
}

func (in *SubmitDemoInput) Validate() error {
	in.DemoURL = strings.TrimSpace(in.DemoURL)
	in.DemoDescription = strings.TrimSpace(in.DemoDescription)
	if in.DemoURL == "" {
		return domain.Validation("Demo URL is required")
	}
	return nil
}

type RejectDemoInput struct {
	Reason string `json:"reason"`
}

const defaultRejectionReason = "Not specified"

func (in *RejectDemoInput) Validate() error {
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		in.Reason = defaultRejectionReason
	}
	return nil
}

type PaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
}

func (in *PaymentInput) Validate() error {
	return checkAmount(in.Amount, "Payment amount")
}
