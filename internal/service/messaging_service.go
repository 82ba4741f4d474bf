package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"linkup/internal/models"
	"linkup/internal/observability"
	"linkup/internal/repository"
)

const maxMessageBodyLen = 10000 // 10K characters

// MessagingService gates and materializes conversations and messages.
// Messaging between two users requires an accepted connection; the gate is
// enforced on both the conversation-fetch path and the send path.
type MessagingService struct {
	chatRepo repository.ChatRepository
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

// NewMessagingService returns a new MessagingService.
func NewMessagingService(
	chatRepo repository.ChatRepository,
	connRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
) *MessagingService {
	return &MessagingService{
		chatRepo: chatRepo,
		connRepo: connRepo,
		userRepo: userRepo,
	}
}

// GetOrCreateConversation returns the conversation for the caller and the
// other user, creating it lazily. Repeated calls return the same
// conversation.
func (s *MessagingService) GetOrCreateConversation(ctx context.Context, callerID, otherUserID uint) (*models.Conversation, error) {
	if callerID == otherUserID {
		return nil, models.NewValidationError("Cannot start a conversation with yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	connected, err := s.connRepo.IsConnected(ctx, callerID, otherUserID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, models.NewNotConnectedError("You must be connected with this user to message them")
	}

	return s.materializeConversation(ctx, callerID, otherUserID)
}

// materializeConversation looks up or creates the pair conversation. The
// caller is responsible for the connection gate.
func (s *MessagingService) materializeConversation(ctx context.Context, callerID, otherUserID uint) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversationByPair(ctx, callerID, otherUserID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = models.NewConversation(callerID, otherUserID)
	if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
			// Lost the creation race; the unique pair key guarantees the
			// winner's row is the one to use.
			return s.chatRepo.GetConversationByPair(ctx, callerID, otherUserID)
		}
		return nil, err
	}
	return s.chatRepo.GetConversation(ctx, conv.ID)
}

// ListMessages returns the conversation's messages ordered oldest first.
// The id resolves as a conversation id when the caller participates in it,
// otherwise as the other participant's user id. An absent conversation
// yields an empty history rather than an error.
func (s *MessagingService) ListMessages(ctx context.Context, callerID, id uint) ([]models.Message, error) {
	conv, err := s.chatRepo.GetConversation(ctx, id)
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
			return nil, err
		}
		conv = nil
	}

	if conv != nil && !conv.HasParticipant(callerID) {
		// Not the caller's conversation; fall back to reading the id as the
		// other participant's user id.
		conv = nil
	}

	if conv == nil {
		conv, err = s.chatRepo.GetConversationByPair(ctx, callerID, id)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return []models.Message{}, nil
		}
	}

	return s.chatRepo.ListMessages(ctx, conv.ID)
}

// SendMessage appends a message to the pair conversation, creating the
// conversation when absent. Requires an accepted connection.
func (s *MessagingService) SendMessage(ctx context.Context, callerID, recipientID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(body) > maxMessageBodyLen {
		return nil, models.NewValidationError("Message content too long (max 10000 characters)")
	}
	if callerID == recipientID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	connected, err := s.connRepo.IsConnected(ctx, callerID, recipientID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, models.NewNotConnectedError("You must be connected with this user to message them")
	}

	conv, err := s.materializeConversation(ctx, callerID, recipientID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       callerID,
		ReceiverID:     recipientID,
		Body:           body,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.chatRepo.TouchConversation(ctx, conv.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	observability.MessagesSent.Inc()

	return msg, nil
}

// ChatPartners returns the distinct users the caller shares a conversation
// with, most recently active conversation first.
func (s *MessagingService) ChatPartners(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	convs, err := s.chatRepo.ListUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(convs))
	order := make([]uint, 0, len(convs))
	for _, conv := range convs {
		other := conv.OtherParticipantID(userID)
		if !seen[other] {
			seen[other] = true
			order = append(order, other)
		}
	}

	users, err := s.userRepo.ListByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	partners := make([]models.UserSummary, 0, len(order))
	for _, id := range order {
		if u, ok := byID[id]; ok {
			partners = append(partners, u.Summary())
		}
	}
	return partners, nil
}
