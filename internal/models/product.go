package models

import (
	"time"

	"commissionhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a requester's project moving through the commission lifecycle.
// Version is bumped on every write and guards conditional updates.
type Product struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	UserID      string `gorm:"size:36;not null;index" json:"user_id"`
	UserName    string `gorm:"size:255" json:"user_name"`
	UserEmail   string `gorm:"size:255" json:"user_email"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	OriginalBudget      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"original_budget"`
	AdminModifiedBudget decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"admin_modified_budget"`

	Status string `gorm:"size:32;not null;index" json:"status"`

	AcceptedSellerID   *string `gorm:"size:36;index" json:"accepted_seller_id"`
	AcceptedSellerName *string `gorm:"size:255" json:"accepted_seller_name"`

	DemoURL             *string    `gorm:"size:1024" json:"demo_url"`
	DemoDescription     *string    `gorm:"type:text" json:"demo_description"`
	DemoSubmittedAt     *time.Time `json:"demo_submitted_at"`
	DemoNotifiedAt      *time.Time `json:"demo_notified_at"`
	DemoApprovedBy      *string    `gorm:"size:255" json:"demo_approved_by"`
	DemoRejectedBy      *string    `gorm:"size:255" json:"demo_rejected_by"`
	DemoRejectionReason *string    `gorm:"type:text" json:"demo_rejection_reason"`

	PaymentStatus        *string             `gorm:"size:20" json:"payment_status"` // pending | completed
	PaymentAmount        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"payment_amount"`
	PaymentDate          *time.Time          `json:"payment_date"`
	PaymentTransactionID *string             `gorm:"size:255" json:"payment_transaction_id"`

	DeliveredAt *time.Time `json:"delivered_at"`

	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}

// EffectiveBudget is the admin budget when set, otherwise the requester's original budget.
func (p *Product) EffectiveBudget() decimal.Decimal {
	if p.AdminModifiedBudget.Valid {
		return p.AdminModifiedBudget.Decimal
	}
	return p.OriginalBudget
}

func (p *Product) IsAssignedTo(sellerID string) bool {
	return p.AcceptedSellerID != nil && *p.AcceptedSellerID == sellerID
}

func (p *Product) IsOwnedBy(userID string) bool { return p.UserID == userID }

func (p *Product) IsTerminal() bool {
	return p.Status == domain.StatusDelivered || p.Status == domain.StatusRejected
}

// ClearAssignment drops the accepted seller and every demo field.
func (p *Product) ClearAssignment() {
	p.AcceptedSellerID = nil
	p.AcceptedSellerName = nil
	p.DemoURL = nil
	p.DemoDescription = nil
	p.DemoSubmittedAt = nil
}

// ClearPayment resets payment bookkeeping. No refund is implied.
func (p *Product) ClearPayment() {
	p.PaymentStatus = nil
	p.PaymentAmount = decimal.NullDecimal{}
	p.PaymentDate = nil
	p.PaymentTransactionID = nil
}

// Redacted returns a copy with the requester's identity hidden.
func (p Product) Redacted() Product {
	p.UserName = "Client"
	p.UserEmail = "hidden@example.com"
	return p
}
