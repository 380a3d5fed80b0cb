package persistence

import (
	"context"
	"errors"

	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.Asset, error) {
	var asset design.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindByStorageKey finds an asset by its storage key
func (r *GormAssetRepository) FindByStorageKey(ctx context.Context, storageKey string) (*design.Asset, error) {
	var asset design.Asset
	if err := r.db.WithContext(ctx).
		Where("storage_key = ?", storageKey).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindAllForUser finds all assets owned by the given user
func (r *GormAssetRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]design.Asset, error) {
	var assets []design.Asset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *design.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// Delete deletes an asset
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&design.Asset{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAssetRepository implements AssetRepository
var _ design.AssetRepository = (*GormAssetRepository)(nil)
