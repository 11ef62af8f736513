package models

type UserRole string
type SessionStatus string
type MessageStatus string
type PaymentStatus string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTutor   UserRole = "tutor"

	SessionStatusPending   SessionStatus = "pending"
	SessionStatusConfirmed SessionStatus = "confirmed"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"

	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsTerminal reports whether no further transitions may leave the status.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}
