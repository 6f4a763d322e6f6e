package repository

import (
	"context"

	"commissionhub/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// ListByProduct returns a product's transition history, oldest first.
func (r *AuditRepository) ListByProduct(ctx context.Context, productID string) ([]models.AuditLog, error) {
	var list []models.AuditLog
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at ASC").Find(&list).Error
	return list, err
}
