package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates customer with valid email and password", func(t *testing.T) {
		user, err := NewUser("jamie@example.com", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "jamie@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotNil(t, user.PasswordChangedAt)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		user, err := NewUser("Jamie@Example.COM", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "jamie@example.com", user.Email)
	})

	t.Run("admin constructor grants admin role", func(t *testing.T) {
		user, err := NewAdminUser("staff@example.com", "Password123")

		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})

	t.Run("fails with empty email", func(t *testing.T) {
		_, err := NewUser("", "Password123")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		for _, email := range []string{"no-at-sign", "@example.com", "user@", "user@domain"} {
			_, err := NewUser(email, "Password123")
			assert.Error(t, err, "email %q", email)
		}
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("jamie@example.com", "Pw1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with password missing a number", func(t *testing.T) {
		_, err := NewUser("jamie@example.com", "onlyletters")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter and one number")
	})
}

func TestUserPassword(t *testing.T) {
	newActiveUser := func(t *testing.T) *User {
		t.Helper()
		user, err := NewUser("jamie@example.com", "Password123")
		require.NoError(t, err)
		user.ClearDomainEvents()
		return user
	}

	t.Run("verify password", func(t *testing.T) {
		user := newActiveUser(t)

		assert.True(t, user.VerifyPassword("Password123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("change password with correct current password", func(t *testing.T) {
		user := newActiveUser(t)

		err := user.ChangePassword("Password123", "NewPassword456")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.False(t, user.VerifyPassword("Password123"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserPasswordChangedEvent)
		assert.True(t, ok)
	})

	t.Run("change password fails with wrong current password", func(t *testing.T) {
		user := newActiveUser(t)

		err := user.ChangePassword("wrong", "NewPassword456")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Current password is incorrect")
	})

	t.Run("admin reset skips current password check", func(t *testing.T) {
		user := newActiveUser(t)

		require.NoError(t, user.SetPassword("ResetPassword789"))

		assert.True(t, user.VerifyPassword("ResetPassword789"))
	})
}

func TestUserRoleChanges(t *testing.T) {
	t.Run("promote and demote", func(t *testing.T) {
		user, err := NewUser("jamie@example.com", "Password123")
		require.NoError(t, err)
		user.ClearDomainEvents()

		require.NoError(t, user.PromoteToAdmin())
		assert.True(t, user.IsAdmin())

		require.NoError(t, user.DemoteToCustomer())
		assert.False(t, user.IsAdmin())

		events := user.GetDomainEvents()
		assert.Len(t, events, 2)
	})

	t.Run("promote is rejected for admins", func(t *testing.T) {
		user, err := NewAdminUser("staff@example.com", "Password123")
		require.NoError(t, err)

		err = user.PromoteToAdmin()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already an administrator")
	})
}

func TestUserStatus(t *testing.T) {
	newActiveUser := func(t *testing.T) *User {
		t.Helper()
		user, err := NewUser("jamie@example.com", "Password123")
		require.NoError(t, err)
		user.ClearDomainEvents()
		return user
	}

	t.Run("deactivate and reactivate", func(t *testing.T) {
		user := newActiveUser(t)

		require.NoError(t, user.Deactivate())
		assert.True(t, user.IsDeactivated())
		assert.False(t, user.CanLogin())

		require.NoError(t, user.Activate())
		assert.True(t, user.IsActive())
		assert.True(t, user.CanLogin())
	})

	t.Run("deactivate twice fails", func(t *testing.T) {
		user := newActiveUser(t)
		require.NoError(t, user.Deactivate())

		err := user.Deactivate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already deactivated")
	})

	t.Run("lock blocks login until expiry", func(t *testing.T) {
		user := newActiveUser(t)

		require.NoError(t, user.Lock(30*time.Minute))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		user := newActiveUser(t)
		require.NoError(t, user.Lock(-1*time.Minute))

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		user := newActiveUser(t)
		require.NoError(t, user.Lock(30*time.Minute))

		require.NoError(t, user.Unlock())

		assert.True(t, user.IsActive())
		assert.Zero(t, user.FailedAttempts)
	})

	t.Run("cannot lock a deactivated user", func(t *testing.T) {
		user := newActiveUser(t)
		require.NoError(t, user.Deactivate())

		err := user.Lock(30 * time.Minute)

		assert.Error(t, err)
	})
}

func TestUserLoginTracking(t *testing.T) {
	t.Run("success resets failed attempts", func(t *testing.T) {
		user, err := NewUser("jamie@example.com", "Password123")
		require.NoError(t, err)
		user.FailedAttempts = 3

		user.RecordLoginSuccess("203.0.113.7")

		assert.Zero(t, user.FailedAttempts)
		assert.Equal(t, "203.0.113.7", user.LastLoginIP)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("failures lock the account at the threshold", func(t *testing.T) {
		user, err := NewUser("jamie@example.com", "Password123")
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			locked := user.RecordLoginFailure(5, 30*time.Minute)
			assert.False(t, locked)
		}

		locked := user.RecordLoginFailure(5, 30*time.Minute)

		assert.True(t, locked)
		assert.True(t, user.IsLocked())
	})
}

func TestUserFullName(t *testing.T) {
	user, err := NewUser("jamie@example.com", "Password123")
	require.NoError(t, err)

	assert.Equal(t, "jamie", user.FullName())

	require.NoError(t, user.SetName("Jamie", "Ortiz"))
	assert.Equal(t, "Jamie Ortiz", user.FullName())
}
