package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserStatusChangedHandler handles UserStatusChangedEvent and invalidates
// outstanding tokens when an account is locked or deactivated
type UserStatusChangedHandler struct {
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewUserStatusChangedHandler creates a new handler for user status changed events.
// tokenTTL should cover the longest-lived token (the refresh token expiration),
// so every token issued before the status change is rejected until it expires.
func NewUserStatusChangedHandler(
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserStatusChangedHandler {
	return &UserStatusChangedHandler{
		blacklist: blacklist,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *UserStatusChangedHandler) EventTypes() []string {
	return []string{identity.EventTypeUserStatusChanged}
}

// Handle processes a UserStatusChangedEvent by revoking the user's sessions
// when the new status no longer permits login
func (h *UserStatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*identity.UserStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", identity.EventTypeUserStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			identity.EventTypeUserStatusChanged, event.EventType())
	}

	// Re-activations need no token action
	if statusEvent.NewStatus == identity.UserStatusActive {
		return nil
	}

	userID := statusEvent.AggregateID().String()

	if err := h.blacklist.AddUserTokensToBlacklist(ctx, userID, h.tokenTTL); err != nil {
		h.logger.Error("failed to invalidate user tokens",
			zap.String("user_id", userID),
			zap.String("new_status", statusEvent.NewStatus.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}

	h.logger.Info("user tokens invalidated after status change",
		zap.String("user_id", userID),
		zap.String("email", statusEvent.Email),
		zap.String("old_status", statusEvent.OldStatus.String()),
		zap.String("new_status", statusEvent.NewStatus.String()),
	)

	return nil
}

// Ensure UserStatusChangedHandler implements shared.EventHandler
var _ shared.EventHandler = (*UserStatusChangedHandler)(nil)
