package repository

import (
	"context"

	"commissionhub/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository stores both channels: seller notifications and user notifications.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) CreateForUser(ctx context.Context, n *models.UserNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) GetUserNotificationByID(ctx context.Context, id string) (*models.UserNotification, error) {
	var n models.UserNotification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListBySeller returns the newest notifications addressed to sellerID.
func (r *NotificationRepository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListAll returns the newest seller notifications regardless of recipient.
func (r *NotificationRepository) ListAll(ctx context.Context, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CountUnread counts unread seller notifications; an empty sellerID counts all of them.
func (r *NotificationRepository) CountUnread(ctx context.Context, sellerID string) (int64, error) {
	var c int64
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false)
	if sellerID != "" {
		q = q.Where("seller_id = ?", sellerID)
	}
	err := q.Count(&c).Error
	return c, err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.UserNotification, error) {
	var list []models.UserNotification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&c).Error
	return c, err
}

// MarkRead flips is_read on a seller notification. Already-read rows are left alone.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkUserNotificationRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true).Error
}

// ListBySellerAndProduct returns what one seller was told about one product.
func (r *NotificationRepository) ListBySellerAndProduct(ctx context.Context, sellerID, productID string) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND product_id = ?", sellerID, productID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
