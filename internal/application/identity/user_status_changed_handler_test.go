package identity

import (
	"context"
	"testing"
	"time"

	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserStatusChangedHandler_EventTypes(t *testing.T) {
	handler := NewUserStatusChangedHandler(auth.NewInMemoryTokenBlacklist(), time.Hour, zap.NewNop())

	assert.Equal(t, []string{identity.EventTypeUserStatusChanged}, handler.EventTypes())
}

func TestUserStatusChangedHandler_Handle(t *testing.T) {
	t.Run("deactivation invalidates user tokens", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		handler := NewUserStatusChangedHandler(blacklist, time.Hour, zap.NewNop())

		user, err := identity.NewUser("customer@example.com", "Password123")
		require.NoError(t, err)
		user.ClearDomainEvents()

		require.NoError(t, user.Deactivate())

		events := user.GetDomainEvents()
		require.Len(t, events, 1)

		err = handler.Handle(context.Background(), events[0])
		require.NoError(t, err)

		issuedBefore := time.Now().Add(-time.Minute)
		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("re-activation leaves tokens untouched", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		handler := NewUserStatusChangedHandler(blacklist, time.Hour, zap.NewNop())

		user, err := identity.NewUser("customer@example.com", "Password123")
		require.NoError(t, err)
		event := identity.NewUserStatusChangedEvent(user, identity.UserStatusLocked)

		err = handler.Handle(context.Background(), event)
		require.NoError(t, err)

		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.False(t, invalidated)
	})

	t.Run("rejects unexpected event type", func(t *testing.T) {
		handler := NewUserStatusChangedHandler(auth.NewInMemoryTokenBlacklist(), time.Hour, zap.NewNop())

		user, err := identity.NewUser("customer@example.com", "Password123")
		require.NoError(t, err)
		event := identity.NewUserRegisteredEvent(user)

		err = handler.Handle(context.Background(), event)
		assert.Error(t, err)
	})
}
