package services

import (
	"encoding/json"
	"time"

	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	chatmodels "tutorlink_backend/internal/models/chat"
	"tutorlink_backend/internal/repositories"
	chatrepo "tutorlink_backend/internal/repositories/chat"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

// MessagePusher delivers a payload to a connected user. Offline users are
// simply skipped; persistence is the source of truth, the push is a bonus.
type MessagePusher interface {
	SendToUser(userID string, payload []byte) bool
}

type ChatService interface {
	StartConversation(callerID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, error)
	ListConversations(callerID string) ([]*dto.ConversationResponse, error)
	SendMessage(callerID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetMessages(callerID, conversationID string, limit, offset int) ([]*dto.MessageResponse, error)
	MarkRead(callerID, conversationID string) (int64, error)
}

type chatService struct {
	conversationRepo chatrepo.ConversationRepository
	messageRepo      chatrepo.MessageRepository
	userRepo         repositories.UserRepository
	notificationSvc  NotificationService
	pusher           MessagePusher
}

func NewChatService(
	conversationRepo chatrepo.ConversationRepository,
	messageRepo chatrepo.MessageRepository,
	userRepo repositories.UserRepository,
	notificationSvc NotificationService,
	pusher MessagePusher,
) ChatService {
	return &chatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		notificationSvc:  notificationSvc,
		pusher:           pusher,
	}
}

// StartConversation returns the existing conversation for the pair when one
// exists, in either participant order, so a pair can never end up with two
// threads.
func (s *chatService) StartConversation(callerID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, error) {
	if req.ParticipantID == callerID {
		return nil, apperrors.ErrSelfConversation
	}

	if _, err := s.userRepo.FindByID(req.ParticipantID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	existing, err := s.conversationRepo.FindByParticipants(callerID, req.ParticipantID)
	if err == nil {
		return s.buildConversationResponse(existing, callerID), nil
	}
	if !apperrors.Is(err, chatrepo.ErrConversationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	conversation := &chatmodels.Conversation{
		ParticipantOneID: callerID,
		ParticipantTwoID: req.ParticipantID,
		LastMessageAt:    time.Now(),
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildConversationResponse(conversation, callerID), nil
}

func (s *chatService) ListConversations(callerID string) ([]*dto.ConversationResponse, error) {
	conversations, err := s.conversationRepo.FindByUser(callerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		responses = append(responses, s.buildConversationResponse(&conversations[i], callerID))
	}
	return responses, nil
}

func (s *chatService) SendMessage(callerID, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	conversation, err := s.getAuthorizedConversation(callerID, conversationID)
	if err != nil {
		return nil, err
	}

	message := &chatmodels.Message{
		ConversationID: conversation.ID,
		SenderID:       callerID,
		ReceiverID:     conversation.OtherParticipant(callerID),
		Body:           req.Body,
		Status:         string(models.MessageStatusSent),
		SentAt:         time.Now(),
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.conversationRepo.TouchLastMessageAt(conversation.ID, message.SentAt); err != nil {
		logger.Warn("failed to bump conversation timestamp",
			"conversation_id", conversation.ID, "error", err)
	}

	response := buildMessageResponse(message)
	s.pushMessage(message.ReceiverID, response)

	if sender, err := s.userRepo.FindByID(callerID); err == nil {
		if err := s.notificationSvc.NotifyNewMessage(message.ReceiverID, sender.FullName, conversation.ID); err != nil {
			logger.Warn("message notification failed", "conversation_id", conversation.ID, "error", err)
		}
	}

	return response, nil
}

func (s *chatService) GetMessages(callerID, conversationID string, limit, offset int) ([]*dto.MessageResponse, error) {
	if _, err := s.getAuthorizedConversation(callerID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByConversation(conversationID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, buildMessageResponse(&messages[i]))
	}
	return responses, nil
}

// MarkRead flips every unread message addressed to the caller in the
// conversation. Calling it again is harmless; it returns how many rows
// actually changed.
func (s *chatService) MarkRead(callerID, conversationID string) (int64, error) {
	if _, err := s.getAuthorizedConversation(callerID, conversationID); err != nil {
		return 0, err
	}

	updated, err := s.messageRepo.MarkReadForReader(conversationID, callerID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return updated, nil
}

func (s *chatService) getAuthorizedConversation(callerID, conversationID string) (*chatmodels.Conversation, error) {
	conversation, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		if apperrors.Is(err, chatrepo.ErrConversationNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !conversation.HasParticipant(callerID) {
		return nil, apperrors.ErrNotConversationParticipant
	}
	return conversation, nil
}

func (s *chatService) pushMessage(receiverID string, message *dto.MessageResponse) {
	if s.pusher == nil {
		return
	}
	payload, err := json.Marshal(&dto.MessageEvent{Type: "new_message", Message: message})
	if err != nil {
		logger.Warn("failed to encode message event", "error", err)
		return
	}
	s.pusher.SendToUser(receiverID, payload)
}

func (s *chatService) buildConversationResponse(c *chatmodels.Conversation, callerID string) *dto.ConversationResponse {
	unread, err := s.messageRepo.CountUnreadForReader(c.ID, callerID)
	if err != nil {
		logger.Warn("failed to count unread messages", "conversation_id", c.ID, "error", err)
	}
	return &dto.ConversationResponse{
		ID:               c.ID,
		ParticipantOneID: c.ParticipantOneID,
		ParticipantTwoID: c.ParticipantTwoID,
		LastMessageAt:    c.LastMessageAt,
		CreatedAt:        c.CreatedAt,
		UnreadCount:      unread,
	}
}

func buildMessageResponse(m *chatmodels.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Body:           m.Body,
		Status:         m.Status,
		SentAt:         m.SentAt,
	}
}
