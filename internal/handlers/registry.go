package handlers

// AppHandlers bundles every handler for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProfileHandler      *ProfileHandler
	MatchingHandler     *MatchingHandler
	SessionHandler      *SessionHandler
	ReviewHandler       *ReviewHandler
	ChatHandler         *ChatHandler
	PaymentHandler      *PaymentHandler
	NotificationHandler *NotificationHandler
}
