package design

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAsset(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending asset with valid inputs", func(t *testing.T) {
		asset, err := NewAsset(userID, "logo.png", 1024, "image/png", "designs/2026/logo.png")
		require.NoError(t, err)

		assert.Equal(t, AssetStatusPending, asset.Status)
		assert.Equal(t, userID, asset.UserID)
		assert.False(t, asset.IsActive())
	})

	t.Run("rejects anonymous user", func(t *testing.T) {
		_, err := NewAsset(uuid.Nil, "logo.png", 1024, "image/png", "designs/logo.png")
		require.Error(t, err)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		_, err := NewAsset(userID, "logo.png", MaxDesignFileSize+1, "image/png", "designs/logo.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 20MB")
	})

	t.Run("rejects empty files", func(t *testing.T) {
		_, err := NewAsset(userID, "logo.png", 0, "image/png", "designs/logo.png")
		require.Error(t, err)
	})

	t.Run("rejects path traversal in storage key", func(t *testing.T) {
		_, err := NewAsset(userID, "logo.png", 1024, "image/png", "../secrets/logo.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path traversal")
	})

	t.Run("rejects path separators in file name", func(t *testing.T) {
		_, err := NewAsset(userID, "../logo.png", 1024, "image/png", "designs/logo.png")
		require.Error(t, err)
	})

	t.Run("rejects malformed content type", func(t *testing.T) {
		_, err := NewAsset(userID, "logo.png", 1024, "png", "designs/logo.png")
		require.Error(t, err)
	})
}

func TestAssetLifecycle(t *testing.T) {
	newAsset := func(t *testing.T) *Asset {
		asset, err := NewAsset(uuid.New(), "logo.png", 1024, "image/png", "designs/logo.png")
		require.NoError(t, err)
		return asset
	}

	t.Run("confirm activates a pending asset", func(t *testing.T) {
		asset := newAsset(t)

		require.NoError(t, asset.Confirm())
		assert.True(t, asset.IsActive())

		err := asset.Confirm()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already confirmed")
	})

	t.Run("delete is terminal", func(t *testing.T) {
		asset := newAsset(t)

		require.NoError(t, asset.Delete())
		assert.Equal(t, AssetStatusDeleted, asset.Status)

		require.Error(t, asset.Confirm())
		require.Error(t, asset.Delete())
	})
}
