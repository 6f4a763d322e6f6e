package service

import (
	"context"
	"time"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductView is a product as one caller may see it, with the transitions
// that caller can perform now.
type ProductView struct {
	models.Product
	Actions []domain.Transition `json:"actions"`
}

// PaymentInfo is the payment slice of a product.
type PaymentInfo struct {
	ProductID     string              `json:"product_id"`
	Status        string              `json:"status"`
	Budget        decimal.NullDecimal `json:"budget"`
	PaymentStatus *string             `json:"payment_status"`
	Amount        decimal.NullDecimal `json:"amount"`
	Date          *time.Time          `json:"date"`
	TransactionID *string             `json:"transaction_id"`
}

func isOpen(p *models.Product) bool {
	return p.Status == domain.StatusApproved && p.AcceptedSellerID == nil
}

// visible reports whether actor may read p at all.
func visible(p *models.Product, actor domain.Actor) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSeller:
		return isOpen(p) || p.IsAssignedTo(actor.ID)
	case domain.RoleUser:
		return p.IsOwnedBy(actor.ID)
	}
	return false
}

func project(p models.Product, actor domain.Actor) ProductView {
	actions := availableActions(&p, actor)
	if actor.IsSeller() {
		p = p.Redacted()
	}
	return ProductView{Product: p, Actions: actions}
}

// List returns the caller's role-filtered view: owners see their products,
// sellers see the open pool plus their assignments, admins see everything.
func (s *ProductService) List(ctx context.Context, actor domain.Actor) ([]ProductView, error) {
	var (
		list []models.Product
		err  error
	)
	switch actor.Role {
	case domain.RoleAdmin:
		list, err = s.products.List(ctx)
	case domain.RoleSeller:
		list, err = s.products.ListForSeller(ctx, actor.ID)
	case domain.RoleUser:
		list, err = s.products.ListByUser(ctx, actor.ID)
	default:
		return nil, domain.Unauthorized("Authentication required")
	}
	if err != nil {
		return nil, err
	}
	if actor.IsSeller() {
		s.recordShown(ctx, actor.ID, lo.Filter(list, func(p models.Product, _ int) bool { return isOpen(&p) }))
	}
	return lo.Map(list, func(p models.Product, _ int) ProductView { return project(p, actor) }), nil
}

// Get returns one product under the same visibility rules as List.
func (s *ProductService) Get(ctx context.Context, actor domain.Actor, productID string) (*ProductView, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !visible(p, actor) {
		return nil, domain.NotFound("Product not found")
	}
	if actor.IsSeller() && isOpen(p) {
		s.recordShown(ctx, actor.ID, []models.Product{*p})
	}
	v := project(*p, actor)
	return &v, nil
}

// recordShown marks a seller as interested in the open products they were shown.
func (s *ProductService) recordShown(ctx context.Context, sellerID string, shown []models.Product) {
	for _, p := range shown {
		if err := s.notifier.interests.Add(ctx, p.ID, sellerID); err != nil {
			s.log.Warn("record seller interest", zap.String("product_id", p.ID), zap.String("seller_id", sellerID), zap.Error(err))
		}
	}
}

// History returns the applied transitions of a product. Admin only.
func (s *ProductService) History(ctx context.Context, actor domain.Actor, productID string) ([]models.AuditLog, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Admin access required")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.audits.ListByProduct(ctx, productID)
}

// GetPayment returns payment fields to the owner, the assigned seller or an admin.
func (s *ProductService) GetPayment(ctx context.Context, actor domain.Actor, productID string) (*PaymentInfo, error) {
	if actor.ID == "" {
		return nil, domain.Unauthorized("Authentication required")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !p.IsOwnedBy(actor.ID) && !p.IsAssignedTo(actor.ID) {
		return nil, domain.Forbidden("You are not allowed to view this payment")
	}
	return &PaymentInfo{
		ProductID:     p.ID,
		Status:        p.Status,
		Budget:        p.AdminModifiedBudget,
		PaymentStatus: p.PaymentStatus,
		Amount:        p.PaymentAmount,
		Date:          p.PaymentDate,
		TransactionID: p.PaymentTransactionID,
	}, nil
}
