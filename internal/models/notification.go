package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is addressed to a seller; admins can read the whole channel.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SellerID  string    `gorm:"size:36;not null;index" json:"seller_id"`
	ProductID string    `gorm:"size:36;not null;index" json:"product_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:32;not null;index" json:"type"` // product_approved | product_taken | product_accepted
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// UserNotification is addressed to a requester or an admin.
type UserNotification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	ProductID string    `gorm:"size:36;not null;index" json:"product_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (UserNotification) TableName() string {
	return "user_notifications"
}

func (n *UserNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// SellerInterest records that a seller was told a product is available.
// It is consumed when the seller is told the product was taken.
type SellerInterest struct {
	ProductID string    `gorm:"primaryKey;size:36" json:"product_id"`
	SellerID  string    `gorm:"primaryKey;size:36;index" json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (SellerInterest) TableName() string {
	return "seller_interests"
}
