package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create sets pair key", func(t *testing.T) {
		conn := &models.Connection{
			RequesterID: alice.ID,
			RecipientID: bob.ID,
			Status:      models.ConnectionStatusPending,
			Message:     "hi bob",
		}
		require.NoError(t, repo.Create(ctx, conn))
		assert.NotZero(t, conn.ID)
		assert.Equal(t, models.PairKey(alice.ID, bob.ID), conn.PairKey)
	})

	t.Run("Create in reverse direction conflicts", func(t *testing.T) {
		conn := &models.Connection{
			RequesterID: bob.ID,
			RecipientID: alice.ID,
			Status:      models.ConnectionStatusPending,
		}
		err := repo.Create(ctx, conn)
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("GetByPair is direction agnostic", func(t *testing.T) {
		forward, err := repo.GetByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.NotNil(t, forward)

		reverse, err := repo.GetByPair(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, reverse)
		assert.Equal(t, forward.ID, reverse.ID)
		assert.Equal(t, "alice", forward.Requester.Username)
		assert.Equal(t, "bob", forward.Recipient.Username)
	})

	t.Run("GetByPair returns nil for unknown pair", func(t *testing.T) {
		conn, err := repo.GetByPair(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		assert.Nil(t, conn)
	})

	t.Run("Resolve updates status and responded_at", func(t *testing.T) {
		conn, err := repo.GetByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		at := time.Now().UTC()
		require.NoError(t, repo.Resolve(ctx, conn.ID, models.ConnectionStatusAccepted, at))

		updated, err := repo.GetByID(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionStatusAccepted, updated.Status)
		require.NotNil(t, updated.RespondedAt)
		assert.WithinDuration(t, at, *updated.RespondedAt, time.Second)
	})

	t.Run("Resolve of a resolved request conflicts", func(t *testing.T) {
		conn, err := repo.GetByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.True(t, conn.IsResolved())

		err = repo.Resolve(ctx, conn.ID, models.ConnectionStatusRejected, time.Now().UTC())
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeConflict, appErr.Code)

		// The first decision stands.
		updated, err := repo.GetByID(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionStatusAccepted, updated.Status)
	})

	t.Run("IsConnected only for accepted pairs", func(t *testing.T) {
		connected, err := repo.IsConnected(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, connected)

		connected, err = repo.IsConnected(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, connected)

		// Pending requests do not authorize messaging.
		pending := &models.Connection{
			RequesterID: alice.ID,
			RecipientID: carol.ID,
			Status:      models.ConnectionStatusPending,
		}
		require.NoError(t, repo.Create(ctx, pending))
		connected, err = repo.IsConnected(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, connected)
	})

	t.Run("Pending lists are direction specific", func(t *testing.T) {
		received, err := repo.ListReceivedPending(ctx, carol.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, alice.ID, received[0].RequesterID)
		assert.Equal(t, "alice", received[0].Requester.Username)

		sent, err := repo.ListSentPending(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, carol.ID, sent[0].RecipientID)

		// The accepted alice<->bob row shows up in neither pending list.
		received, err = repo.ListReceivedPending(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, received)
	})

	t.Run("ListAccepted includes both directions", func(t *testing.T) {
		forAlice, err := repo.ListAccepted(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, forAlice, 1)

		forBob, err := repo.ListAccepted(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, forBob, 1)
		assert.Equal(t, forAlice[0].ID, forBob[0].ID)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
