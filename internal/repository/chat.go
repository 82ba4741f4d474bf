package repository

import (
	"context"
	"errors"
	"time"

	"linkup/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for conversations and messages.
type ChatRepository interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	GetConversationByPair(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error)
	ListUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	TouchConversation(ctx context.Context, id uint, at time.Time) error
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, convID uint) ([]models.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Conversation already exists for this pair")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("ParticipantA").
		Preload("ParticipantB").
		First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Conversation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

// GetConversationByPair returns the conversation for the unordered pair, or
// nil when none exists yet.
func (r *chatRepository) GetConversationByPair(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(userID1, userID2)).
		Preload("ParticipantA").
		Preload("ParticipantB").
		First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *chatRepository) ListUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return convs, nil
}

// TouchConversation bumps updated_at so partner listings sort by recency.
func (r *chatRepository) TouchConversation(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListMessages returns all messages for the conversation ordered oldest
// first. The ascending order is load-bearing for the client's
// append-at-bottom rendering.
func (r *chatRepository) ListMessages(ctx context.Context, convID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
