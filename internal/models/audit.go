package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is one applied product transition.
type AuditLog struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	ProductID  string            `gorm:"size:36;not null;index" json:"product_id"`
	Transition string            `gorm:"size:50;not null;index" json:"transition"`
	ActorID    string            `gorm:"size:36;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:20" json:"actor_role"`
	FromStatus string            `gorm:"size:32" json:"from_status"`
	ToStatus   string            `gorm:"size:32;not null" json:"to_status"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
