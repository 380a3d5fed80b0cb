package design

import (
	"context"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for design asset persistence
type AssetRepository interface {
	// FindByID finds an asset by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByStorageKey finds an asset by its storage key
	FindByStorageKey(ctx context.Context, storageKey string) (*Asset, error)

	// FindAllForUser finds all assets owned by the given user
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Asset, error)

	// Save creates or updates an asset
	Save(ctx context.Context, asset *Asset) error

	// Delete deletes an asset
	Delete(ctx context.Context, id uuid.UUID) error
}
