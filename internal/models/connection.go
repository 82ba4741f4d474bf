package models

import (
	"fmt"
	"time"
)

// ConnectionStatus represents the status of a connection request.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a connection request awaiting a response.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates an accepted connection.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusRejected indicates a rejected connection request.
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// Connection represents a directed connection request between two users.
// An accepted connection is the sole authorization source for messaging
// between the pair.
//
// PairKey is the canonical "min:max" form of the two user ids and carries a
// unique index, so at most one row governs any unordered pair regardless of
// direction. Concurrent mutual requests collapse to a single row at the
// store instead of relying on lookup-then-insert.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	PairKey     string           `gorm:"not null;uniqueIndex" json:"-"`
	Status      ConnectionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Message     string           `json:"message"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`

	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

// TableName specifies the table name for GORM.
func (Connection) TableName() string {
	return "connections"
}

// IsResolved reports whether the request has already been accepted or rejected.
func (c *Connection) IsResolved() bool {
	return c.Status != ConnectionStatusPending
}

// OtherUser returns the counterpart profile for the given user.
func (c *Connection) OtherUser(userID uint) User {
	if c.RequesterID == userID {
		return c.Recipient
	}
	return c.Requester
}

// PairKey returns the canonical unordered-pair key for two user ids.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
