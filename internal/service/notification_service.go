package service

import (
	"context"
	"errors"

	"commissionhub/internal/domain"
	"commissionhub/internal/metrics"
	"commissionhub/internal/models"
	"commissionhub/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	channelSeller = "seller"
	channelUser   = "user"
)

// SellerFeed is the seller-channel listing.
type SellerFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// UserFeed is the user-channel listing.
type UserFeed struct {
	Notifications []models.UserNotification `json:"notifications"`
	UnreadCount   int64                     `json:"unread_count"`
}

// NotificationService writes the addressed notifications that follow a
// product transition. Delivery is best effort: every recipient is attempted
// and failures are combined, logged and counted, never rolled back.
type NotificationService struct {
	repo      *repository.NotificationRepository
	userRepo  *repository.UserRepository
	interests *repository.InterestRepository
	log       *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, interests *repository.InterestRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, interests: interests, log: log}
}

func (s *NotificationService) NotifySeller(ctx context.Context, sellerID, productID, notifType, message string) error {
	err := s.repo.Create(ctx, &models.Notification{
		SellerID:  sellerID,
		ProductID: productID,
		Type:      notifType,
		Message:   message,
	})
	metrics.CountNotification(channelSeller, err)
	if err != nil {
		s.log.Warn("seller notification failed",
			zap.String("product_id", productID), zap.String("seller_id", sellerID), zap.String("type", notifType), zap.Error(err))
	}
	return err
}

func (s *NotificationService) NotifyUser(ctx context.Context, userID, productID, message string) error {
	err := s.repo.CreateForUser(ctx, &models.UserNotification{
		UserID:    userID,
		ProductID: productID,
		Message:   message,
	})
	metrics.CountNotification(channelUser, err)
	if err != nil {
		s.log.Warn("user notification failed",
			zap.String("product_id", productID), zap.String("user_id", userID), zap.Error(err))
	}
	return err
}

func (s *NotificationService) notifySellers(ctx context.Context, sellerIDs []string, productID, notifType, message string) error {
	var err error
	for _, id := range sellerIDs {
		err = multierr.Append(err, s.NotifySeller(ctx, id, productID, notifType, message))
	}
	return err
}

func (s *NotificationService) roleIDs(ctx context.Context, role string) ([]string, error) {
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u models.User, _ int) string { return u.ID }), nil
}

// AnnounceAvailable tells every seller except the excluded ones that a product
// is open, and records their interest so they can be told when it is taken.
func (s *NotificationService) AnnounceAvailable(ctx context.Context, productID, message string, except ...string) error {
	sellers, err := s.roleIDs(ctx, domain.RoleSeller)
	if err != nil {
		s.log.Warn("list sellers for announcement", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	sellers = lo.Without(sellers, except...)
	if err = s.interests.Add(ctx, productID, sellers...); err != nil {
		s.log.Warn("record seller interest", zap.String("product_id", productID), zap.Error(err))
	}
	return multierr.Append(err, s.notifySellers(ctx, sellers, productID, domain.NotifyProductApproved, message))
}

// NotifyTaken sends one "taken" notice to each listed seller still holding an
// interest in the product. Claiming the interest first means a seller is told
// at most once per availability round, however many callers race here.
func (s *NotificationService) NotifyTaken(ctx context.Context, productID, message string, sellerIDs ...string) error {
	var errs error
	for _, id := range sellerIDs {
		claimed, err := s.interests.Claim(ctx, productID, id)
		if err != nil {
			s.log.Warn("claim seller interest", zap.String("product_id", productID), zap.String("seller_id", id), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if claimed {
			errs = multierr.Append(errs, s.NotifySeller(ctx, id, productID, domain.NotifyProductTaken, message))
		}
	}
	return errs
}

// NotifyInterestedTaken tells every interested seller but the winner that the product is gone.
func (s *NotificationService) NotifyInterestedTaken(ctx context.Context, productID, winnerID, message string) error {
	// the winner's own interest is spent silently
	_, err := s.interests.Claim(ctx, productID, winnerID)
	sellers, lerr := s.interests.ListSellers(ctx, productID)
	if lerr != nil {
		s.log.Warn("list interested sellers", zap.String("product_id", productID), zap.Error(lerr))
		return multierr.Append(err, lerr)
	}
	return multierr.Append(err, s.NotifyTaken(ctx, productID, message, lo.Without(sellers, winnerID)...))
}

// ForgetProduct drops outstanding interest once a product can no longer be accepted.
func (s *NotificationService) ForgetProduct(ctx context.Context, productID string) error {
	err := s.interests.ClearProduct(ctx, productID)
	if err != nil {
		s.log.Warn("clear seller interest", zap.String("product_id", productID), zap.Error(err))
	}
	return err
}

// NotifyAdmins writes to every admin's user channel.
func (s *NotificationService) NotifyAdmins(ctx context.Context, productID, message string) error {
	admins, err := s.roleIDs(ctx, domain.RoleAdmin)
	if err != nil {
		s.log.Warn("list admins for notification", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	for _, id := range admins {
		err = multierr.Append(err, s.NotifyUser(ctx, id, productID, message))
	}
	return err
}

// ListSellerChannel returns a seller's own notices, or every seller notice for admins.
func (s *NotificationService) ListSellerChannel(ctx context.Context, actor domain.Actor) (*SellerFeed, error) {
	if !actor.HasRole(domain.RoleSeller, domain.RoleAdmin) {
		return nil, domain.Forbidden("Only sellers and admins can view seller notifications")
	}
	var (
		list []models.Notification
		err  error
	)
	recipient := actor.ID
	if actor.IsAdmin() {
		recipient = ""
		list, err = s.repo.ListAll(ctx, domain.NotificationDisplayLimit)
	} else {
		list, err = s.repo.ListBySeller(ctx, actor.ID, domain.NotificationDisplayLimit)
	}
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return &SellerFeed{Notifications: list, UnreadCount: unread}, nil
}

// ListUserChannel returns the caller's own user-channel notices.
func (s *NotificationService) ListUserChannel(ctx context.Context, actor domain.Actor) (*UserFeed, error) {
	if !actor.HasRole(domain.RoleUser, domain.RoleAdmin) {
		return nil, domain.Forbidden("Only users and admins can view user notifications")
	}
	list, err := s.repo.ListByUser(ctx, actor.ID, domain.NotificationDisplayLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnreadByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &UserFeed{Notifications: list, UnreadCount: unread}, nil
}

// MarkRead marks a seller notification read. Unknown or already-read ids succeed.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.HasRole(domain.RoleSeller, domain.RoleAdmin) {
		return domain.Forbidden("Only sellers and admins can update seller notifications")
	}
	n, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if actor.IsSeller() && n.SellerID != actor.ID {
		return domain.Forbidden("You can only update your own notifications")
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkUserNotificationRead marks one of the caller's user-channel notices read.
func (s *NotificationService) MarkUserNotificationRead(ctx context.Context, actor domain.Actor, id string) error {
	n, err := s.repo.GetUserNotificationByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n.UserID != actor.ID {
		return domain.Forbidden("You can only update your own notifications")
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkUserNotificationRead(ctx, id)
}
