package design

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
)

// MaxDesignFileSize is the maximum allowed design file size (20MB)
const MaxDesignFileSize = 20 * 1024 * 1024

// AssetStatus represents the lifecycle status of an uploaded design asset
type AssetStatus string

const (
	AssetStatusPending AssetStatus = "pending"
	AssetStatusActive  AssetStatus = "active"
	AssetStatusDeleted AssetStatus = "deleted"
)

// IsValid checks if the asset status is valid
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusPending, AssetStatusActive, AssetStatusDeleted:
		return true
	default:
		return false
	}
}

// Asset represents an uploaded design file stored in object storage.
// Assets are created pending and confirmed once the upload has landed.
type Asset struct {
	shared.OwnedAggregateRoot
	FileName    string      `gorm:"type:varchar(255);not null"`
	FileSize    int64       `gorm:"not null"`
	ContentType string      `gorm:"type:varchar(100);not null"`
	StorageKey  string      `gorm:"type:varchar(500);not null;uniqueIndex"`
	Status      AssetStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Asset) TableName() string {
	return "design_assets"
}

// NewAsset creates a new design asset in pending status
func NewAsset(userID uuid.UUID, fileName string, fileSize int64, contentType, storageKey string) (*Asset, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err := validateAssetFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateAssetFileSize(fileSize); err != nil {
		return nil, err
	}
	if err := validateAssetContentType(contentType); err != nil {
		return nil, err
	}
	if err := validateAssetStorageKey(storageKey); err != nil {
		return nil, err
	}

	return &Asset{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		FileName:           fileName,
		FileSize:           fileSize,
		ContentType:        contentType,
		StorageKey:         storageKey,
		Status:             AssetStatusPending,
	}, nil
}

// Confirm activates the asset after the file landed in storage
func (a *Asset) Confirm() error {
	if a.Status == AssetStatusActive {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Asset is already confirmed")
	}
	if a.Status == AssetStatusDeleted {
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm a deleted asset")
	}

	a.Status = AssetStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Delete marks the asset as deleted (soft delete)
func (a *Asset) Delete() error {
	if a.Status == AssetStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Asset is already deleted")
	}

	a.Status = AssetStatusDeleted
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsActive returns true if the asset is confirmed and usable
func (a *Asset) IsActive() bool {
	return a.Status == AssetStatusActive
}

func validateAssetFileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateAssetFileSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxDesignFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "Design file cannot exceed 20MB")
	}
	return nil
}

func validateAssetContentType(contentType string) error {
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if !strings.Contains(contentType, "/") ||
		strings.HasPrefix(contentType, "/") || strings.HasSuffix(contentType, "/") {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be in type/subtype format")
	}
	return nil
}

func validateAssetStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}
