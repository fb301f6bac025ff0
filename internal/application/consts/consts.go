package consts

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusLive       RequestStatus = "live"
	RequestStatusPaused     RequestStatus = "paused"
	RequestStatusDeleted    RequestStatus = "deleted"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusInProgress,
		RequestStatusLive, RequestStatusPaused, RequestStatusDeleted:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type OutboxStatus int

const (
	NotProcessed OutboxStatus = iota
	Processed
	Processing
	InError
)

// PayPal webhook event types this service recognizes.
const (
	EventCaptureCompleted     = "PAYMENT.CAPTURE.COMPLETED"
	EventOrderApproved        = "CHECKOUT.ORDER.APPROVED"
	EventSubscriptionCreated  = "BILLING.SUBSCRIPTION.CREATED"
	EventSubscriptionCanceled = "BILLING.SUBSCRIPTION.CANCELLED"
)
