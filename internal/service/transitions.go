package service

import (
	"fmt"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"github.com/samber/lo"
)

type rule struct {
	roles     []string
	from      []string // nil: any non-terminal status
	to        string
	forbidden string // role mismatch
	invalid   string // status mismatch
}

func (r rule) allows(p *models.Product) bool {
	if r.from == nil {
		return !p.IsTerminal()
	}
	return lo.Contains(r.from, p.Status)
}

var awaitingPayment = []string{
	domain.StatusDemoSubmitted,
	domain.StatusDemoApproved,
	domain.StatusPaymentPending,
}

var rules = map[domain.Transition]rule{
	domain.TransitionApprove: {
		roles: []string{domain.RoleAdmin}, from: []string{domain.StatusPending}, to: domain.StatusApproved,
		forbidden: "Admin access required", invalid: "Only pending products can be approved",
	},
	domain.TransitionReject: {
		roles: []string{domain.RoleAdmin}, to: domain.StatusRejected,
		forbidden: "Admin access required", invalid: "Product can no longer be rejected",
	},
	domain.TransitionAccept: {
		roles: []string{domain.RoleSeller}, from: []string{domain.StatusApproved}, to: domain.StatusAccepted,
		forbidden: "Only sellers can accept products", invalid: "Product is not available for acceptance",
	},
	domain.TransitionSubmitDemo: {
		roles: []string{domain.RoleSeller}, from: []string{domain.StatusAccepted}, to: domain.StatusDemoSubmitted,
		forbidden: "Only sellers can submit demos", invalid: "Product must be accepted before submitting a demo",
	},
	domain.TransitionApproveDemo: {
		roles: []string{domain.RoleUser}, from: []string{domain.StatusDemoSubmitted}, to: domain.StatusDemoApproved,
		forbidden: "Only the product owner can approve a demo", invalid: "Demo must be submitted before approval",
	},
	domain.TransitionDeliver: {
		roles: []string{domain.RoleAdmin}, from: []string{domain.StatusPaymentCompleted}, to: domain.StatusDelivered,
		forbidden: "Admin access required", invalid: "Payment must be completed before delivery",
	},
	domain.TransitionRejectDemo: {
		roles: []string{domain.RoleUser, domain.RoleAdmin}, from: []string{domain.StatusDemoSubmitted}, to: domain.StatusApproved,
		forbidden: "Only the product owner or an admin can reject a demo", invalid: "Demo must be submitted before it can be rejected",
	},
	domain.TransitionNotifyUser: {
		roles: []string{domain.RoleAdmin}, from: awaitingPayment, to: domain.StatusPaymentPending,
		forbidden: "Admin access required", invalid: "Demo must be submitted before notifying the user",
	},
	domain.TransitionPay: {
		roles: []string{domain.RoleUser}, from: awaitingPayment, to: domain.StatusPaymentCompleted,
		forbidden: "Only the product owner can submit payment", invalid: "Product is not awaiting payment",
	},
}

// actionOrder fixes the order in which available actions are reported.
var actionOrder = []domain.Transition{
	domain.TransitionApprove,
	domain.TransitionAccept,
	domain.TransitionSubmitDemo,
	domain.TransitionApproveDemo,
	domain.TransitionRejectDemo,
	domain.TransitionNotifyUser,
	domain.TransitionPay,
	domain.TransitionDeliver,
	domain.TransitionReject,
}

// guard checks role, identity and status for t against the current product.
// Checks run in a fixed order per transition so callers get a stable error.
func guard(t domain.Transition, p *models.Product, actor domain.Actor) error {
	r, ok := rules[t]
	if !ok {
		return fmt.Errorf("unknown transition %q", t)
	}
	if !actor.HasRole(r.roles...) {
		return domain.Forbidden(r.forbidden)
	}

	switch t {
	case domain.TransitionAccept:
		if p.AcceptedSellerID != nil {
			return domain.Conflict("Product has already been accepted by another seller")
		}
	case domain.TransitionSubmitDemo:
		if !p.IsAssignedTo(actor.ID) {
			return domain.Forbidden("Only the assigned seller can submit a demo")
		}
	case domain.TransitionPay:
		if !p.IsOwnedBy(actor.ID) {
			return domain.Forbidden("You can only pay for your own products")
		}
	case domain.TransitionApproveDemo, domain.TransitionRejectDemo:
		if actor.IsUser() && !p.IsOwnedBy(actor.ID) {
			return domain.Forbidden("You can only review demos for your own products")
		}
	}

	if !r.allows(p) {
		return domain.InvalidTransition(r.invalid)
	}
	return nil
}

// availableActions lists the transitions actor could perform on p right now.
func availableActions(p *models.Product, actor domain.Actor) []domain.Transition {
	return lo.Filter(actionOrder, func(t domain.Transition, _ int) bool {
		return guard(t, p, actor) == nil
	})
}
