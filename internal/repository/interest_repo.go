package repository

import (
	"context"

	"commissionhub/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterestRepository tracks which sellers were told a product is available.
type InterestRepository struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// Add records interest for each seller. Existing records are kept as they are.
func (r *InterestRepository) Add(ctx context.Context, productID string, sellerIDs ...string) error {
	if len(sellerIDs) == 0 {
		return nil
	}
	rows := lo.Map(lo.Uniq(sellerIDs), func(id string, _ int) models.SellerInterest {
		return models.SellerInterest{ProductID: productID, SellerID: id}
	})
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Claim consumes the interest of one seller. It reports true only to the caller
// that actually removed the record, so concurrent claimers cannot both win.
func (r *InterestRepository) Claim(ctx context.Context, productID, sellerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND seller_id = ?", productID, sellerID).
		Delete(&models.SellerInterest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InterestRepository) ListSellers(ctx context.Context, productID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.SellerInterest{}).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Pluck("seller_id", &ids).Error
	return ids, err
}

func (r *InterestRepository) Has(ctx context.Context, productID, sellerID string) (bool, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.SellerInterest{}).
		Where("product_id = ? AND seller_id = ?", productID, sellerID).
		Count(&c).Error
	return c > 0, err
}

// ClearProduct drops every interest for a product that left the open pool for good.
func (r *InterestRepository) ClearProduct(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.SellerInterest{}).Error
}
