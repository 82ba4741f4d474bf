package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"linkup/internal/models"
)

type chatRepoStub struct {
	createConversationFn    func(context.Context, *models.Conversation) error
	getConversationFn       func(context.Context, uint) (*models.Conversation, error)
	getConversationByPairFn func(context.Context, uint, uint) (*models.Conversation, error)
	listUserConversationsFn func(context.Context, uint) ([]models.Conversation, error)
	touchConversationFn     func(context.Context, uint, time.Time) error
	createMessageFn         func(context.Context, *models.Message) error
	listMessagesFn          func(context.Context, uint) ([]models.Message, error)
}

func (s *chatRepoStub) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return s.createConversationFn(ctx, conv)
}
func (s *chatRepoStub) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	return s.getConversationFn(ctx, id)
}
func (s *chatRepoStub) GetConversationByPair(ctx context.Context, userID1, userID2 uint) (*models.Conversation, error) {
	return s.getConversationByPairFn(ctx, userID1, userID2)
}
func (s *chatRepoStub) ListUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.listUserConversationsFn(ctx, userID)
}
func (s *chatRepoStub) TouchConversation(ctx context.Context, id uint, at time.Time) error {
	return s.touchConversationFn(ctx, id, at)
}
func (s *chatRepoStub) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.createMessageFn(ctx, msg)
}
func (s *chatRepoStub) ListMessages(ctx context.Context, convID uint) ([]models.Message, error) {
	return s.listMessagesFn(ctx, convID)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createConversationFn: func(context.Context, *models.Conversation) error { return nil },
		getConversationFn: func(_ context.Context, id uint) (*models.Conversation, error) {
			return nil, models.NewNotFoundError("Conversation", id)
		},
		getConversationByPairFn: func(context.Context, uint, uint) (*models.Conversation, error) { return nil, nil },
		listUserConversationsFn: func(context.Context, uint) ([]models.Conversation, error) { return nil, nil },
		touchConversationFn:     func(context.Context, uint, time.Time) error { return nil },
		createMessageFn:         func(context.Context, *models.Message) error { return nil },
		listMessagesFn:          func(context.Context, uint) ([]models.Message, error) { return nil, nil },
	}
}

func connectedConnRepo() *connRepoStub {
	conns := noopConnRepo()
	conns.isConnectedFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
	return conns
}

func TestMessagingServiceGetOrCreateConversationSelf(t *testing.T) {
	svc := NewMessagingService(noopChatRepo(), noopConnRepo(), noopUserRepo())
	_, err := svc.GetOrCreateConversation(context.Background(), 4, 4)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestMessagingServiceGetOrCreateConversationGate(t *testing.T) {
	svc := NewMessagingService(noopChatRepo(), noopConnRepo(), noopUserRepo())
	_, err := svc.GetOrCreateConversation(context.Background(), 1, 2)
	assertAppErrorCode(t, err, models.CodeNotConnected)
}

func TestMessagingServiceGetOrCreateConversationCreates(t *testing.T) {
	chats := noopChatRepo()
	var created *models.Conversation
	chats.createConversationFn = func(_ context.Context, conv *models.Conversation) error {
		conv.ID = 10
		created = conv
		return nil
	}
	chats.getConversationFn = func(_ context.Context, id uint) (*models.Conversation, error) {
		return created, nil
	}

	svc := NewMessagingService(chats, connectedConnRepo(), noopUserRepo())
	conv, err := svc.GetOrCreateConversation(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.ID != 10 {
		t.Fatalf("expected created conversation, got %#v", conv)
	}
	// Participant order is normalized regardless of who initiates.
	if conv.ParticipantAID != 2 || conv.ParticipantBID != 5 {
		t.Fatalf("expected normalized pair (2,5), got (%d,%d)", conv.ParticipantAID, conv.ParticipantBID)
	}
}

func TestMessagingServiceGetOrCreateConversationIdempotent(t *testing.T) {
	existing := models.NewConversation(1, 2)
	existing.ID = 33

	chats := noopChatRepo()
	chats.getConversationByPairFn = func(context.Context, uint, uint) (*models.Conversation, error) {
		return existing, nil
	}
	chats.createConversationFn = func(context.Context, *models.Conversation) error {
		t.Fatal("create should not be called when the conversation exists")
		return nil
	}

	svc := NewMessagingService(chats, connectedConnRepo(), noopUserRepo())
	conv, err := svc.GetOrCreateConversation(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.ID != 33 {
		t.Fatalf("expected existing conversation 33, got %d", conv.ID)
	}
}

func TestMessagingServiceGetOrCreateConversationLostRace(t *testing.T) {
	winner := models.NewConversation(1, 2)
	winner.ID = 77

	var pairCalls int
	chats := noopChatRepo()
	chats.getConversationByPairFn = func(context.Context, uint, uint) (*models.Conversation, error) {
		pairCalls++
		if pairCalls == 1 {
			return nil, nil
		}
		return winner, nil
	}
	chats.createConversationFn = func(context.Context, *models.Conversation) error {
		return models.NewConflictError("Conversation already exists for this pair")
	}

	svc := NewMessagingService(chats, connectedConnRepo(), noopUserRepo())
	conv, err := svc.GetOrCreateConversation(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.ID != 77 {
		t.Fatalf("expected the race winner's row, got %d", conv.ID)
	}
}

func TestMessagingServiceListMessagesByConversationID(t *testing.T) {
	conv := models.NewConversation(1, 2)
	conv.ID = 9

	chats := noopChatRepo()
	chats.getConversationFn = func(_ context.Context, id uint) (*models.Conversation, error) {
		return conv, nil
	}
	chats.listMessagesFn = func(_ context.Context, convID uint) ([]models.Message, error) {
		if convID != 9 {
			t.Fatalf("expected listing for conversation 9, got %d", convID)
		}
		return []models.Message{{ID: 1}, {ID: 2}}, nil
	}

	svc := NewMessagingService(chats, noopConnRepo(), noopUserRepo())
	msgs, err := svc.ListMessages(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}

func TestMessagingServiceListMessagesForeignConversationFallsBack(t *testing.T) {
	// Conversation 9 exists but belongs to other users; the id must then be
	// read as the other participant's user id.
	foreign := models.NewConversation(7, 8)
	foreign.ID = 9
	pair := models.NewConversation(1, 9)
	pair.ID = 40

	chats := noopChatRepo()
	chats.getConversationFn = func(context.Context, uint) (*models.Conversation, error) {
		return foreign, nil
	}
	chats.getConversationByPairFn = func(_ context.Context, a, b uint) (*models.Conversation, error) {
		if models.PairKey(a, b) != models.PairKey(1, 9) {
			t.Fatalf("expected pair lookup for (1,9), got (%d,%d)", a, b)
		}
		return pair, nil
	}
	chats.listMessagesFn = func(_ context.Context, convID uint) ([]models.Message, error) {
		if convID != 40 {
			t.Fatalf("expected listing for conversation 40, got %d", convID)
		}
		return []models.Message{{ID: 3}}, nil
	}

	svc := NewMessagingService(chats, noopConnRepo(), noopUserRepo())
	msgs, err := svc.ListMessages(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != 3 {
		t.Fatalf("expected fallback pair messages, got %#v", msgs)
	}
}

func TestMessagingServiceListMessagesAbsentConversationIsEmpty(t *testing.T) {
	svc := NewMessagingService(noopChatRepo(), noopConnRepo(), noopUserRepo())
	msgs, err := svc.ListMessages(context.Background(), 1, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty (non-nil) history, got %#v", msgs)
	}
}

func TestMessagingServiceSendMessageValidation(t *testing.T) {
	svc := NewMessagingService(noopChatRepo(), connectedConnRepo(), noopUserRepo())

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), 1, 2, "   ")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("body too long", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), 1, 2, strings.Repeat("a", maxMessageBodyLen+1))
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("self message", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), 1, 1, "hi")
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestMessagingServiceSendMessageGate(t *testing.T) {
	svc := NewMessagingService(noopChatRepo(), noopConnRepo(), noopUserRepo())
	_, err := svc.SendMessage(context.Background(), 1, 2, "hi")
	assertAppErrorCode(t, err, models.CodeNotConnected)
}

func TestMessagingServiceSendMessageSuccess(t *testing.T) {
	conv := models.NewConversation(1, 2)
	conv.ID = 12

	chats := noopChatRepo()
	chats.getConversationByPairFn = func(context.Context, uint, uint) (*models.Conversation, error) {
		return conv, nil
	}
	var created *models.Message
	chats.createMessageFn = func(_ context.Context, msg *models.Message) error {
		msg.ID = 100
		created = msg
		return nil
	}
	var touched uint
	chats.touchConversationFn = func(_ context.Context, id uint, _ time.Time) error {
		touched = id
		return nil
	}

	svc := NewMessagingService(chats, connectedConnRepo(), noopUserRepo())
	msg, err := svc.SendMessage(context.Background(), 1, 2, "  hello there  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected message to be persisted")
	}
	if msg.Body != "hello there" {
		t.Fatalf("expected trimmed body, got %q", msg.Body)
	}
	if msg.ConversationID != 12 || msg.SenderID != 1 || msg.ReceiverID != 2 {
		t.Fatalf("unexpected message wiring: %#v", msg)
	}
	if touched != 12 {
		t.Fatalf("expected conversation 12 touched, got %d", touched)
	}
}

func TestMessagingServiceChatPartners(t *testing.T) {
	convA := models.NewConversation(1, 2)
	convB := models.NewConversation(1, 3)
	convDup := models.NewConversation(2, 1)

	chats := noopChatRepo()
	chats.listUserConversationsFn = func(context.Context, uint) ([]models.Conversation, error) {
		// Most recently active first; user 2 appears twice.
		return []models.Conversation{*convA, *convB, *convDup}, nil
	}

	users := noopUserRepo()
	users.listByIDsFn = func(_ context.Context, ids []uint) ([]models.User, error) {
		// Return out of order to exercise the reorder step.
		return []models.User{
			{ID: 3, Username: "carol"},
			{ID: 2, Username: "bob"},
		}, nil
	}

	svc := NewMessagingService(chats, noopConnRepo(), users)
	partners, err := svc.ChatPartners(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 2 {
		t.Fatalf("expected 2 distinct partners, got %d", len(partners))
	}
	if partners[0].ID != 2 || partners[1].ID != 3 {
		t.Fatalf("expected recency order [2 3], got [%d %d]", partners[0].ID, partners[1].ID)
	}
}
