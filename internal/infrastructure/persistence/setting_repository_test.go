package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/shared"
	"github.com/tecbunny/backend/internal/infrastructure/persistence/models"
)

func newSettingRepository(t *testing.T) *GormSettingRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IntegrationSettingModel{}))
	return NewGormSettingRepository(db)
}

func TestGormSettingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get of an unwritten key returns not found", func(t *testing.T) {
		repo := newSettingRepository(t)

		_, _, err := repo.Get(ctx, integration.SettingAccessToken)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("set then get round-trips value and expiry", func(t *testing.T) {
		repo := newSettingRepository(t)
		expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

		require.NoError(t, repo.Set(ctx, integration.SettingAccessToken, "token-1", &expiresAt))

		value, gotExpiry, err := repo.Get(ctx, integration.SettingAccessToken)
		require.NoError(t, err)
		assert.Equal(t, "token-1", value)
		require.NotNil(t, gotExpiry)
		assert.True(t, gotExpiry.Equal(expiresAt))
	})

	t.Run("expiry is optional", func(t *testing.T) {
		repo := newSettingRepository(t)

		require.NoError(t, repo.Set(ctx, integration.SettingRefreshToken, "refresh-1", nil))

		value, expiry, err := repo.Get(ctx, integration.SettingRefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", value)
		assert.Nil(t, expiry)
	})

	t.Run("set replaces a previous value for the key", func(t *testing.T) {
		repo := newSettingRepository(t)
		expiresAt := time.Now().Add(time.Hour)

		require.NoError(t, repo.Set(ctx, integration.SettingAccessToken, "token-1", &expiresAt))
		require.NoError(t, repo.Set(ctx, integration.SettingAccessToken, "token-2", nil))

		value, expiry, err := repo.Get(ctx, integration.SettingAccessToken)
		require.NoError(t, err)
		assert.Equal(t, "token-2", value)
		assert.Nil(t, expiry)
	})

	t.Run("keys are independent", func(t *testing.T) {
		repo := newSettingRepository(t)

		require.NoError(t, repo.Set(ctx, integration.SettingClientID, "client-1", nil))
		require.NoError(t, repo.Set(ctx, integration.SettingClientSecret, "secret-1", nil))

		clientID, _, err := repo.Get(ctx, integration.SettingClientID)
		require.NoError(t, err)
		secret, _, err := repo.Get(ctx, integration.SettingClientSecret)
		require.NoError(t, err)
		assert.Equal(t, "client-1", clientID)
		assert.Equal(t, "secret-1", secret)
	})
}
