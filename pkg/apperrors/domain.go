package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the marketplace domains. Services return
// these so handlers can distinguish "doesn't exist" from "not allowed" from
// "not possible right now" (the UI enables buttons off this distinction).

// =========================================================================
// Factory functions
// =========================================================================

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is returned when an operation is not legal from the
// entity's current state (e.g. confirming an already-confirmed session).
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Users and auth
// =========================================================================

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"users",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"users",
	"A user with this email already exists",
	http.StatusConflict,
)

var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"users",
	"A user with this username already exists",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid token",
	http.StatusUnauthorized,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token expired",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// =========================================================================
// Sessions
// =========================================================================

var ErrSessionNotFound = New(
	CodeNotFound,
	"sessions",
	"Session not found",
	http.StatusNotFound,
)

var ErrNotSessionParticipant = New(
	CodeForbidden,
	"sessions",
	"Caller is not a participant of this session",
	http.StatusForbidden,
)

var ErrOnlyTutorMayTransition = New(
	CodeForbidden,
	"sessions",
	"Only the session's tutor may perform this transition",
	http.StatusForbidden,
)

var ErrRoleSlotMismatch = New(
	CodeForbidden,
	"sessions",
	"Caller may only book a session in their own role slot",
	http.StatusForbidden,
)

// =========================================================================
// Reviews
// =========================================================================

var ErrReviewNotFound = New(
	CodeNotFound,
	"reviews",
	"Review not found",
	http.StatusNotFound,
)

var ErrDuplicateReview = New(
	CodeConflict,
	"reviews",
	"A review already exists for this session",
	http.StatusConflict,
)

var ErrSessionNotCompleted = New(
	CodeInvalidStatus,
	"reviews",
	"Reviews may only be left on completed sessions",
	http.StatusConflict,
)

var ErrNotSessionStudent = New(
	CodeForbidden,
	"reviews",
	"Only the student who attended the session may review it",
	http.StatusForbidden,
)

// =========================================================================
// Chat
// =========================================================================

var ErrConversationNotFound = New(
	CodeNotFound,
	"chat",
	"Conversation not found",
	http.StatusNotFound,
)

var ErrNotConversationParticipant = New(
	CodeForbidden,
	"chat",
	"Caller is not a participant of this conversation",
	http.StatusForbidden,
)

var ErrSelfConversation = New(
	CodeInvalidOperation,
	"chat",
	"Cannot start a conversation with yourself",
	http.StatusBadRequest,
)

// =========================================================================
// Payment methods
// =========================================================================

var ErrPaymentMethodNotFound = New(
	CodeNotFound,
	"payments",
	"Payment method not found",
	http.StatusNotFound,
)
