package domain

const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

const (
	StatusPending          = "pending"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusAccepted         = "accepted"
	StatusDemoSubmitted    = "demo_submitted"
	StatusDemoApproved     = "demo_approved"
	StatusPaymentPending   = "payment_pending"
	StatusPaymentCompleted = "payment_completed"
	StatusDelivered        = "delivered"
)

// Statuses lists every product status in lifecycle order.
var Statuses = []string{
	StatusPending,
	StatusApproved,
	StatusAccepted,
	StatusDemoSubmitted,
	StatusDemoApproved,
	StatusPaymentPending,
	StatusPaymentCompleted,
	StatusDelivered,
	StatusRejected,
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Seller notification types.
const (
	NotifyProductApproved = "product_approved"
	NotifyProductTaken    = "product_taken"
	NotifyProductAccepted = "product_accepted"
)

// NotificationDisplayLimit caps how many notifications a listing returns.
const NotificationDisplayLimit = 10

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleSeller || role == RoleAdmin
}

// Transition names a product state change. They double as audit and metric labels.
type Transition string

const (
	TransitionSubmit      Transition = "submit"
	TransitionApprove     Transition = "approve"
	TransitionReject      Transition = "reject"
	TransitionAccept      Transition = "accept"
	TransitionSubmitDemo  Transition = "submit_demo"
	TransitionApproveDemo Transition = "approve_demo"
	TransitionDeliver     Transition = "deliver"
	TransitionRejectDemo  Transition = "reject_demo"
	TransitionNotifyUser  Transition = "notify_user"
	TransitionPay         Transition = "pay"
)
