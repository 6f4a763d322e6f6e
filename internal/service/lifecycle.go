package service

import (
	"context"
	"time"

	"commissionhub/internal/domain"
	"commissionhub/internal/metrics"
	"commissionhub/internal/models"
	"commissionhub/pkg/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Create submits a new product for admin review.
func (s *ProductService) Create(ctx context.Context, actor domain.Actor, in CreateProductInput) (*models.Product, error) {
	started := time.Now()
	p, err := s.create(ctx, actor, in)
	metrics.ObserveTransition(string(domain.TransitionSubmit), outcomeOf(err), started)
	if err == nil {
		s.log.Info("product submitted", zap.String("product_id", p.ID), zap.String("user_id", actor.ID))
	}
	return p, err
}

func (s *ProductService) create(ctx context.Context, actor domain.Actor, in CreateProductInput) (*models.Product, error) {
	if !actor.IsUser() {
		return nil, domain.Forbidden("Only users can submit products")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.actorUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	p := &models.Product{
		UserID:         u.ID,
		UserName:       u.DisplayName(),
		UserEmail:      u.Email,
		Title:          in.Title,
		Description:    in.Description,
		OriginalBudget: in.Budget,
		Status:         domain.StatusPending,
	}
	entry := &models.AuditLog{
		Transition: string(domain.TransitionSubmit),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		ToStatus:   domain.StatusPending,
	}
	if err := s.products.Create(ctx, p, entry); err != nil {
		return nil, err
	}
	return p, nil
}

// Approve sets the admin budget and opens the product to every seller.
func (s *ProductService) Approve(ctx context.Context, actor domain.Actor, productID string, in ApproveInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	meta := map[string]interface{}{"budget": in.Budget.String()}
	ch, err := s.apply(ctx, actor, domain.TransitionApprove, productID, meta, func(p *models.Product, _ *models.User) error {
		p.AdminModifiedBudget = decimal.NewNullDecimal(in.Budget)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p := ch.after
	_ = s.notifier.AnnounceAvailable(ctx, p.ID, msgAvailable(p.Title, p.EffectiveBudget()))
	return p, nil
}

// Reject closes a product for good. Assignment, demo and payment bookkeeping
// are reset; a recorded payment is not refunded.
func (s *ProductService) Reject(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	ch, err := s.apply(ctx, actor, domain.TransitionReject, productID, nil, func(p *models.Product, by *models.User) error {
		p.ClearAssignment()
		p.ClearPayment()
		p.DemoNotifiedAt = nil
		p.DeliveredAt = nil
		p.DemoRejectedBy = strPtr(by.DisplayName())
		p.DemoRejectionReason = strPtr("Rejected by admin")
		return nil
	})
	if err != nil {
		return nil, err
	}
	before, p := ch.before, ch.after
	_ = s.notifier.NotifyUser(ctx, p.UserID, p.ID, msgRejectedRequester(p.Title))
	if before.AcceptedSellerID != nil {
		_ = s.notifier.NotifySeller(ctx, *before.AcceptedSellerID, p.ID, domain.NotifyProductTaken, msgRejectedSeller(p.Title))
	}
	if before.PaymentStatus != nil && *before.PaymentStatus == domain.PaymentCompleted {
		s.log.Warn("rejected product had a completed payment",
			zap.String("product_id", p.ID), zap.Stringp("transaction_id", before.PaymentTransactionID))
	}
	_ = s.notifier.ForgetProduct(ctx, p.ID)
	return p, nil
}

// Accept assigns the product to the calling seller. A second accept fails
// with a conflict and its seller is told the product is taken.
func (s *ProductService) Accept(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	ch, err := s.apply(ctx, actor, domain.TransitionAccept, productID, nil, func(p *models.Product, by *models.User) error {
		p.AcceptedSellerID = strPtr(by.ID)
		p.AcceptedSellerName = strPtr(by.DisplayName())
		return nil
	})
	if err != nil {
		if domain.IsKind(err, domain.KindConflict) && actor.IsSeller() {
			s.notifyLoser(ctx, productID, actor.ID)
		}
		return nil, err
	}
	p := ch.after
	_ = s.notifier.NotifyUser(ctx, p.UserID, p.ID, msgAcceptedBy(p.Title, *p.AcceptedSellerName))
	_ = s.notifier.NotifyInterestedTaken(ctx, p.ID, actor.ID, msgTaken(p.Title))
	return p, nil
}

func (s *ProductService) notifyLoser(ctx context.Context, productID, sellerID string) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.log.Warn("load product for taken notice", zap.String("product_id", productID), zap.Error(err))
		return
	}
	if p.AcceptedSellerID == nil || *p.AcceptedSellerID == sellerID {
		return
	}
	_ = s.notifier.NotifyTaken(ctx, productID, msgTaken(p.Title), sellerID)
}

// SubmitDemo records the assigned seller's demo and tells the admins.
func (s *ProductService) SubmitDemo(ctx context.Context, actor domain.Actor, productID string, in SubmitDemoInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ch, err := s.apply(ctx, actor, domain.TransitionSubmitDemo, productID, nil, func(p *models.Product, _ *models.User) error {
		p.DemoURL = strPtr(in.DemoURL)
		p.DemoDescription = nil
		if in.DemoDescription != "" {
			p.DemoDescription = strPtr(in.DemoDescription)
		}
		p.DemoSubmittedAt = timePtr(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	p := ch.after
	_ = s.notifier.NotifyAdmins(ctx, p.ID, msgDemoSubmitted(p.Title, ch.by.DisplayName()))
	return p, nil
}

// ApproveDemo is the owner accepting the seller's work.
func (s *ProductService) ApproveDemo(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	ch, err := s.apply(ctx, actor, domain.TransitionApproveDemo, productID, nil, func(p *models.Product, by *models.User) error {
		p.DemoApprovedBy = strPtr(by.DisplayName())
		return nil
	})
	if err != nil {
		return nil, err
	}
	p := ch.after
	if p.AcceptedSellerID != nil {
		_ = s.notifier.NotifySeller(ctx, *p.AcceptedSellerID, p.ID, domain.NotifyProductAccepted, msgDemoApproved(p.Title))
	}
	return p, nil
}

// DeliverProject is the admin's final hand-over after payment.
func (s *ProductService) DeliverProject(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	ch, err := s.apply(ctx, actor, domain.TransitionDeliver, productID, nil, func(p *models.Product, by *models.User) error {
		p.DemoApprovedBy = strPtr(by.DisplayName())
		p.DeliveredAt = timePtr(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	p := ch.after
	_ = s.notifier.NotifyUser(ctx, p.UserID, p.ID, msgDeliveredRequester(p.Title))
	if p.AcceptedSellerID != nil {
		_ = s.notifier.NotifySeller(ctx, *p.AcceptedSellerID, p.ID, domain.NotifyProductAccepted, msgDeliveredSeller(p.Title))
	}
	_ = s.notifier.ForgetProduct(ctx, p.ID)
	return p, nil
}

// ApproveOrDeliver serves the shared approve action: admins deliver, owners approve the demo.
func (s *ProductService) ApproveOrDeliver(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	if actor.IsAdmin() {
		return s.DeliverProject(ctx, actor, productID)
	}
	return s.ApproveDemo(ctx, actor, productID)
}

// RejectDemo returns the product to the open pool. The rejected seller is told
// why; every other seller is told it is available again.
func (s *ProductService) RejectDemo(ctx context.Context, actor domain.Actor, productID string, in RejectDemoInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	meta := map[string]interface{}{"reason": in.Reason}
	ch, err := s.apply(ctx, actor, domain.TransitionRejectDemo, productID, meta, func(p *models.Product, by *models.User) error {
		p.ClearAssignment()
		p.DemoApprovedBy = nil
		p.DemoRejectedBy = strPtr(by.DisplayName())
		p.DemoRejectionReason = strPtr(in.Reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	before, p := ch.before, ch.after
	var except []string
	if before.AcceptedSellerID != nil {
		rejected := *before.AcceptedSellerID
		except = append(except, rejected)
		_ = s.notifier.NotifySeller(ctx, rejected, p.ID, domain.NotifyProductTaken, msgDemoRejected(p.Title, in.Reason))
	}
	_ = s.notifier.AnnounceAvailable(ctx, p.ID, msgAvailableAgain(p.Title, p.EffectiveBudget()), except...)
	return p, nil
}

// NotifyUser tells the requester the demo is ready and payment is due. Calling
// it again while payment is pending sends a reminder instead.
func (s *ProductService) NotifyUser(ctx context.Context, actor domain.Actor, productID string) (*models.Product, error) {
	ch, err := s.apply(ctx, actor, domain.TransitionNotifyUser, productID, nil, func(p *models.Product, _ *models.User) error {
		p.DemoNotifiedAt = timePtr(s.now())
		if p.PaymentStatus == nil || *p.PaymentStatus != domain.PaymentCompleted {
			p.PaymentStatus = strPtr(domain.PaymentPending)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	before, p := ch.before, ch.after
	msg := msgDemoReady(p.Title, p.EffectiveBudget())
	if before.Status == domain.StatusPaymentPending {
		msg = msgPaymentReminder(p.Title, p.EffectiveBudget())
	}
	_ = s.notifier.NotifyUser(ctx, p.UserID, p.ID, msg)
	if p.AcceptedSellerID != nil {
		_ = s.notifier.NotifySeller(ctx, *p.AcceptedSellerID, p.ID, domain.NotifyProductAccepted, msgUserNotified(p.Title))
	}
	if s.reminders != nil {
		if err := s.reminders.SchedulePaymentReminder(ctx, p.ID); err != nil {
			s.log.Warn("schedule payment reminder", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

// Pay records the owner's payment. The amount must equal the admin budget exactly.
func (s *ProductService) Pay(ctx context.Context, actor domain.Actor, productID string, in PaymentInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	claim := payment.NewClaim(in.Amount, in.TransactionID, s.now())
	meta := map[string]interface{}{"amount": claim.Amount.String(), "transaction_id": claim.TransactionID}
	ch, err := s.apply(ctx, actor, domain.TransitionPay, productID, meta, func(p *models.Product, _ *models.User) error {
		if !p.AdminModifiedBudget.Valid {
			return domain.InvalidTransition("Project budget has not been set")
		}
		if !claim.Matches(p.AdminModifiedBudget.Decimal) {
			return domain.Validation("Payment amount does not match project budget")
		}
		p.PaymentStatus = strPtr(domain.PaymentCompleted)
		p.PaymentAmount = decimal.NewNullDecimal(claim.Amount)
		p.PaymentDate = timePtr(claim.PaidAt)
		p.PaymentTransactionID = strPtr(claim.TransactionID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p := ch.after
	_ = s.notifier.NotifyAdmins(ctx, p.ID, msgPaymentReceived(p.Title, ch.by.Email, claim.Amount))
	return p, nil
}

// RemindPayment is run by the reminder job. It reports whether a reminder was sent.
func (s *ProductService) RemindPayment(ctx context.Context, productID string) (bool, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p.Status != domain.StatusPaymentPending || p.PaymentStatus == nil || *p.PaymentStatus != domain.PaymentPending {
		return false, nil
	}
	if err := s.notifier.NotifyUser(ctx, p.UserID, p.ID, msgPaymentReminder(p.Title, p.EffectiveBudget())); err != nil {
		return false, err
	}
	return true, nil
}
