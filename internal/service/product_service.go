package service

import (
	"context"
	"errors"
	"time"

	"commissionhub/internal/domain"
	"commissionhub/internal/metrics"
	"commissionhub/internal/models"
	"commissionhub/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderScheduler queues a later payment reminder for a product.
type ReminderScheduler interface {
	SchedulePaymentReminder(ctx context.Context, productID string) error
}

// ProductService is the product state machine. Every transition runs under the
// product lock, checks its guard against freshly loaded state, mutates a copy
// and saves it with a version check. Notifications go out after the save.
type ProductService struct {
	products  *repository.ProductRepository
	users     *repository.UserRepository
	audits    *repository.AuditRepository
	notifier  *NotificationService
	locker    Locker
	reminders ReminderScheduler
	log       *zap.Logger
	now       func() time.Time
}

func NewProductService(
	products *repository.ProductRepository,
	users *repository.UserRepository,
	audits *repository.AuditRepository,
	notifier *NotificationService,
	locker Locker,
	log *zap.Logger,
) *ProductService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &ProductService{
		products: products,
		users:    users,
		audits:   audits,
		notifier: notifier,
		locker:   locker,
		log:      log,
		now:      time.Now,
	}
}

// SetReminderScheduler enables payment reminders after the user is notified.
func (s *ProductService) SetReminderScheduler(r ReminderScheduler) {
	s.reminders = r
}

// change is the result of an applied transition.
type change struct {
	before *models.Product
	after  *models.Product
	by     *models.User
}

type mutation func(p *models.Product, by *models.User) error

func (s *ProductService) actorUser(ctx context.Context, actor domain.Actor) (*models.User, error) {
	if actor.ID == "" {
		return nil, domain.Unauthorized("Authentication required")
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Unauthorized("User not found")
	}
	return u, err
}

func (s *ProductService) apply(ctx context.Context, actor domain.Actor, t domain.Transition, productID string, meta map[string]interface{}, mutate mutation) (*change, error) {
	started := time.Now()
	ch, err := s.applyLocked(ctx, actor, t, productID, meta, mutate)
	metrics.ObserveTransition(string(t), outcomeOf(err), started)
	s.logTransition(t, productID, actor, ch, err)
	return ch, err
}

func (s *ProductService) applyLocked(ctx context.Context, actor domain.Actor, t domain.Transition, productID string, meta map[string]interface{}, mutate mutation) (*change, error) {
	by, err := s.actorUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	unlock, err := s.locker.Lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := guard(t, current, actor); err != nil {
		return nil, err
	}

	next := *current
	if mutate != nil {
		if err := mutate(&next, by); err != nil {
			return nil, err
		}
	}
	next.Status = rules[t].to

	entry := &models.AuditLog{
		Transition: string(t),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		FromStatus: current.Status,
		ToStatus:   next.Status,
		Metadata:   meta,
	}
	if err := s.products.Save(ctx, &next, current.Version, entry); err != nil {
		return nil, err
	}
	return &change{before: current, after: &next, by: by}, nil
}

func (s *ProductService) logTransition(t domain.Transition, productID string, actor domain.Actor, ch *change, err error) {
	fields := []zap.Field{
		zap.String("transition", string(t)),
		zap.String("product_id", productID),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", actor.Role),
	}
	switch {
	case err == nil:
		s.log.Info("product transition applied", append(fields,
			zap.String("from", ch.before.Status), zap.String("to", ch.after.Status))...)
	case domain.KindOf(err) == domain.KindInternal:
		s.log.Error("product transition failed", append(fields, zap.Error(err))...)
	default:
		s.log.Debug("product transition refused", append(fields, zap.Error(err))...)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case domain.IsKind(err, domain.KindConflict):
		return metrics.OutcomeConflict
	case domain.KindOf(err) == domain.KindInternal:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
