package models

import (
	"time"
)

// Conversation is the persistent container for the message history between
// exactly two users. The participant pair is stored normalized
// (ParticipantAID < ParticipantBID) and PairKey carries a unique index, so
// at most one conversation exists per unordered pair.
type Conversation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ParticipantAID uint      `gorm:"not null;index" json:"participant_a_id"`
	ParticipantBID uint      `gorm:"not null;index" json:"participant_b_id"`
	PairKey        string    `gorm:"not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ParticipantA User      `gorm:"foreignKey:ParticipantAID" json:"participant_a,omitempty"`
	ParticipantB User      `gorm:"foreignKey:ParticipantBID" json:"participant_b,omitempty"`
	Messages     []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// NewConversation builds a conversation for the unordered pair of user ids.
func NewConversation(userID, otherUserID uint) *Conversation {
	a, b := userID, otherUserID
	if a > b {
		a, b = b, a
	}
	return &Conversation{
		ParticipantAID: a,
		ParticipantBID: b,
		PairKey:        PairKey(a, b),
	}
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.ParticipantAID == userID || c.ParticipantBID == userID
}

// OtherParticipantID returns the counterpart user id for the given participant.
func (c *Conversation) OtherParticipantID(userID uint) uint {
	if c.ParticipantAID == userID {
		return c.ParticipantBID
	}
	return c.ParticipantAID
}

// Message is a single chat message. Messages are append-only; there is no
// edit or delete.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID     uint      `gorm:"not null" json:"receiver_id"`
	Body           string    `gorm:"type:text;not null" json:"message"`
	CreatedAt      time.Time `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
