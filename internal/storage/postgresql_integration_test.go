package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

func TestStorageIntegration(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	t.Run("identifier prefers email match over name match", func(t *testing.T) {
		// Имя первого участника совпадает с email второго.
		nameMatch := factory.CreateUser(t, "carol@club.org", "carol.old@club.org", "h1")
		emailMatch := factory.CreateUser(t, "carol", "carol@club.org", "h2")
		require.Less(t, nameMatch, emailMatch)

		got, err := storage.FindUserCredential(ctx, "carol@club.org")
		require.NoError(t, err)
		assert.Equal(t, emailMatch, got.ID)
		assert.Equal(t, "h2", got.PinHash)
	})

	t.Run("name match picks lowest id", func(t *testing.T) {
		first := factory.CreateUser(t, "dave", "dave1@club.org", "h1")
		factory.CreateUser(t, "dave", "dave2@club.org", "h2")

		got, err := storage.FindUserCredential(ctx, "dave")
		require.NoError(t, err)
		assert.Equal(t, first, got.ID)
		assert.Equal(t, models.RoleUser, got.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := storage.FindUserCredential(ctx, "nobody")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("admin lookup by email and name", func(t *testing.T) {
		id := factory.CreateAdmin(t, "Club Admin", "admin@club.org", "pin", "pw")

		byEmail, err := storage.FindAdminCredential(ctx, "admin@club.org")
		require.NoError(t, err)
		assert.Equal(t, id, byEmail.ID)
		assert.Equal(t, "pw", byEmail.PasswordHash)

		byName, err := storage.FindAdminCredential(ctx, "Club Admin")
		require.NoError(t, err)
		assert.Equal(t, id, byName.ID)
		assert.Equal(t, models.RoleAdmin, byName.Role)
	})

	t.Run("admin without email named like another admin email", func(t *testing.T) {
		unnamed := factory.CreateAdminWithoutEmail(t, "boss@club.org", "pin", "pw")
		boss := factory.CreateAdmin(t, "Boss", "boss@club.org", "pin", "pw")
		require.Less(t, unnamed, boss)

		got, err := storage.FindAdminCredential(ctx, "boss@club.org")
		require.NoError(t, err)
		assert.Equal(t, boss, got.ID)
		assert.Equal(t, "boss@club.org", got.Email)

		byName, err := storage.FindAdminCredential(ctx, "Boss")
		require.NoError(t, err)
		assert.Equal(t, boss, byName.ID)
	})

	t.Run("register and read membership", func(t *testing.T) {
		id, err := storage.RegisterUser(ctx, "erin", "erin@club.org", "+7999", "hash")
		require.NoError(t, err)

		rec, err := storage.GetMembership(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.MembershipUnpaid, rec.Status)
		assert.Nil(t, rec.ExpiryDate)

		expiry := time.Now().Add(10 * 24 * time.Hour).UTC().Truncate(time.Second)
		factory.SetMembership(t, id, "paid", &expiry)
		rec, err = storage.GetMembership(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.MembershipPaid, rec.Status)
		require.NotNil(t, rec.ExpiryDate)
		assert.True(t, expiry.Equal(*rec.ExpiryDate))

		_, err = storage.RegisterUser(ctx, "erin2", "erin@club.org", "+7000", "hash")
		assert.ErrorIs(t, err, models.ErrAlreadyExists)
	})

	t.Run("membership of unknown user", func(t *testing.T) {
		_, err := storage.GetMembership(ctx, 999999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
