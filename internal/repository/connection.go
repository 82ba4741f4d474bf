package repository

import (
	"context"
	"errors"
	"time"

	"linkup/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository defines persistence operations for connection requests.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetByPair(ctx context.Context, userID1, userID2 uint) (*models.Connection, error)
	Save(ctx context.Context, conn *models.Connection) error
	Resolve(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) error
	ListReceivedPending(ctx context.Context, userID uint) ([]models.Connection, error)
	ListSentPending(ctx context.Context, userID uint) ([]models.Connection, error)
	ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error)
	IsConnected(ctx context.Context, userID1, userID2 uint) (bool, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository returns a new ConnectionRepository implementation.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	conn.PairKey = models.PairKey(conn.RequesterID, conn.RecipientID)
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race against the mutual request; one row governs the pair.
			return models.NewConflictError("A connection request already exists for this pair")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

// GetByPair returns the single row governing the unordered pair, or nil when
// no connection exists in either direction.
func (r *connectionRepository) GetByPair(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(userID1, userID2)).
		Preload("Requester").
		Preload("Recipient").
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (r *connectionRepository) Save(ctx context.Context, conn *models.Connection) error {
	conn.PairKey = models.PairKey(conn.RequesterID, conn.RecipientID)
	if err := r.db.WithContext(ctx).Save(conn).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Resolve transitions a pending request to its terminal status. The status
// guard in the WHERE clause makes the transition atomic: of two concurrent
// responders only one update matches, the other sees zero rows.
func (r *connectionRepository) Resolve(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewConflictError("Connection request has already been resolved")
	}
	return nil
}

func (r *connectionRepository) ListReceivedPending(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Recipient").
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (r *connectionRepository) ListSentPending(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Recipient").
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, models.ConnectionStatusAccepted).
		Preload("Requester").
		Preload("Recipient").
		Order("updated_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (r *connectionRepository) IsConnected(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("pair_key = ? AND status = ?",
			models.PairKey(userID1, userID2), models.ConnectionStatusAccepted).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
