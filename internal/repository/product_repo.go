package repository

import (
	"context"
	"errors"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"gorm.io/gorm"
)

// ErrStaleProduct is returned by Save when the stored version moved on.
var ErrStaleProduct = domain.Conflict("Product was modified by another request, please retry")

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts p and its creation audit entry in one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.ProductID = p.ID
		return tx.Create(entry).Error
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID string) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListForSeller returns the open pool (approved, unassigned) plus products assigned to sellerID.
func (r *ProductRepository) ListForSeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Where("(status = ? AND accepted_seller_id IS NULL) OR accepted_seller_id = ?", domain.StatusApproved, sellerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Save writes every column of p if the stored row still carries expectedVersion,
// bumping the version. The audit entry, if any, commits with it. A moved version
// yields ErrStaleProduct and p.Version is restored.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product, expectedVersion uint, entry *models.AuditLog) error {
	p.Version = expectedVersion + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(p).
			Where("version = ?", expectedVersion).
			Select("*").
			Omit("ID", "CreatedAt").
			Updates(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleProduct
		}
		if entry == nil {
			return nil
		}
		entry.ProductID = p.ID
		return tx.Create(entry).Error
	})
	if err != nil {
		p.Version = expectedVersion
	}
	return err
}
