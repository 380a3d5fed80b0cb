package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_RevokeSingleToken(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-logout", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-logout")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-other-session")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntriesExpire(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short-lived", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	// once the token itself would have expired, the entry is moot
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_UserWideInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedEarlier := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, invalidated, "token issued before the invalidation must be rejected")

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, invalidated, "token issued after the invalidation stays valid")

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "other users are unaffected")
}

func TestInMemoryTokenBlacklist_IndependentEntries(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	jtis := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		jti := fmt.Sprintf("jti-%d", i)
		jtis = append(jtis, jti)
		require.NoError(t, blacklist.AddToBlacklist(ctx, jti, time.Hour))
	}

	for _, jti := range jtis {
		revoked, err := blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked, "token %s should be revoked", jti)
	}

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-never-revoked")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ConcurrentAccess(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	done := make(chan struct{}, 20)
	for i := 0; i < 10; i++ {
		jti := fmt.Sprintf("jti-%d", i)
		go func() {
			defer func() { done <- struct{}{} }()
			_ = blacklist.AddToBlacklist(ctx, jti, time.Hour)
		}()
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = blacklist.IsBlacklisted(ctx, jti)
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
