// Package service provides application business logic (connections,
// messaging, users).
package service

import (
	"context"
	"time"

	"linkup/internal/models"
	"linkup/internal/observability"
	"linkup/internal/repository"
)

// ConnectionService provides the connection-request state machine:
// pending -> accepted | rejected, resolved exactly once by the recipient.
type ConnectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository) *ConnectionService {
	return &ConnectionService{
		connRepo: connRepo,
		userRepo: userRepo,
	}
}

// SendRequest creates a pending connection request to the target user.
// A rejected row for the pair is re-opened in place so the unique pair
// constraint keeps holding one row per unordered pair.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID, recipientID uint, message string) (*models.Connection, error) {
	if requesterID == recipientID {
		return nil, models.NewValidationError("Cannot send a connection request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	existing, err := s.connRepo.GetByPair(ctx, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.ConnectionStatusAccepted:
			return nil, models.NewConflictError("You are already connected")
		case models.ConnectionStatusPending:
			if existing.RequesterID == requesterID {
				return nil, models.NewConflictError("Connection request already sent")
			}
			return nil, models.NewConflictError("You already have a pending connection request from this user")
		case models.ConnectionStatusRejected:
			existing.RequesterID = requesterID
			existing.RecipientID = recipientID
			existing.Status = models.ConnectionStatusPending
			existing.Message = message
			existing.RespondedAt = nil
			if err := s.connRepo.Save(ctx, existing); err != nil {
				return nil, err
			}
			observability.ConnectionRequests.WithLabelValues("sent").Inc()
			return s.connRepo.GetByID(ctx, existing.ID)
		}
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.ConnectionStatusPending,
		Message:     message,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}
	observability.ConnectionRequests.WithLabelValues("sent").Inc()

	return s.connRepo.GetByID(ctx, conn.ID)
}

// RespondToRequest resolves a pending request. Only the recipient may
// respond, and only once.
func (s *ConnectionService) RespondToRequest(ctx context.Context, connectionID, responderID uint, decision models.ConnectionStatus) (*models.Connection, error) {
	if decision != models.ConnectionStatusAccepted && decision != models.ConnectionStatusRejected {
		return nil, models.NewValidationError("Status must be 'accepted' or 'rejected'")
	}

	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.RecipientID != responderID {
		return nil, models.NewForbiddenError("You can only respond to connection requests sent to you")
	}
	if conn.IsResolved() {
		return nil, models.NewConflictError("Connection request has already been resolved")
	}

	if err := s.connRepo.Resolve(ctx, connectionID, decision, time.Now().UTC()); err != nil {
		return nil, err
	}
	observability.ConnectionRequests.WithLabelValues(string(decision)).Inc()

	return s.connRepo.GetByID(ctx, connectionID)
}

// ListReceived returns pending requests addressed to the user.
func (s *ConnectionService) ListReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.connRepo.ListReceivedPending(ctx, userID)
}

// ListSent returns pending requests the user has sent.
func (s *ConnectionService) ListSent(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.connRepo.ListSentPending(ctx, userID)
}

// ListAccepted returns all accepted connections involving the user.
func (s *ConnectionService) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.connRepo.ListAccepted(ctx, userID)
}

// IsConnected reports whether an accepted connection links the two users.
// Symmetric by construction of the pair key.
func (s *ConnectionService) IsConnected(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.connRepo.IsConnected(ctx, userID, otherID)
}
