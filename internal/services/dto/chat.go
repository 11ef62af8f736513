package dto

import "time"

// ======================
// Request DTOs
// ======================

type StartConversationRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// ======================
// Response DTOs
// ======================

type ConversationResponse struct {
	ID               string    `json:"id"`
	ParticipantOneID string    `json:"participant_one_id"`
	ParticipantTwoID string    `json:"participant_two_id"`
	LastMessageAt    time.Time `json:"last_message_at"`
	CreatedAt        time.Time `json:"created_at"`
	UnreadCount      int64     `json:"unread_count"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Body           string    `json:"body"`
	Status         string    `json:"status"`
	SentAt         time.Time `json:"sent_at"`
}

// MessageEvent is pushed to online participants over the websocket.
type MessageEvent struct {
	Type    string           `json:"type"` // "new_message"
	Message *MessageResponse `json:"message"`
}
