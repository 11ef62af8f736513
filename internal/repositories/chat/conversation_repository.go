package chat

import (
	"errors"
	"time"

	"gorm.io/gorm"

	chatmodels "tutorlink_backend/internal/models/chat"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

type ConversationRepository interface {
	Create(conversation *chatmodels.Conversation) error
	FindByID(id string) (*chatmodels.Conversation, error)

	// FindByParticipants looks the pair up regardless of ordering.
	FindByParticipants(userA, userB string) (*chatmodels.Conversation, error)

	FindByUser(userID string) ([]chatmodels.Conversation, error)
	TouchLastMessageAt(conversationID string, at time.Time) error
}

type ConversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &ConversationRepositoryImpl{db: db}
}

func (r *ConversationRepositoryImpl) Create(conversation *chatmodels.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *ConversationRepositoryImpl) FindByID(id string) (*chatmodels.Conversation, error) {
	var conversation chatmodels.Conversation
	err := r.db.First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepositoryImpl) FindByParticipants(userA, userB string) (*chatmodels.Conversation, error) {
	var conversation chatmodels.Conversation
	err := r.db.Where(
		"(participant_one_id = ? AND participant_two_id = ?) OR (participant_one_id = ? AND participant_two_id = ?)",
		userA, userB, userB, userA,
	).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepositoryImpl) FindByUser(userID string) ([]chatmodels.Conversation, error) {
	var conversations []chatmodels.Conversation
	err := r.db.Where("participant_one_id = ? OR participant_two_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *ConversationRepositoryImpl) TouchLastMessageAt(conversationID string, at time.Time) error {
	result := r.db.Model(&chatmodels.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
