package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindChildren finds all subcategories of a category
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)

	// FindRootCategories finds all top-level categories
	FindRootCategories(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// HasChildren checks if a category has any subcategories
	HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// HasProducts checks if a category has any associated products
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a category with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
