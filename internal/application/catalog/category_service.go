package catalog

import (
	"context"
	"errors"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category. When no slug is provided one is
// derived from the category name.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = catalog.SlugFromName(req.Name)
	}

	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	var category *catalog.Category

	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}

		category, err = catalog.NewSubcategory(slug, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(slug, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetTree returns root categories with their subcategories
func (s *CategoryService) GetTree(ctx context.Context) ([]CategoryTreeResponse, error) {
	roots, err := s.categoryRepo.FindRootCategories(ctx)
	if err != nil {
		return nil, err
	}

	tree := make([]CategoryTreeResponse, 0, len(roots))
	for i := range roots {
		children, err := s.categoryRepo.FindChildren(ctx, roots[i].ID)
		if err != nil {
			return nil, err
		}
		tree = append(tree, CategoryTreeResponse{
			CategoryResponse: ToCategoryResponse(&roots[i]),
			Children:         ToCategoryResponses(children),
		})
	}

	return tree, nil
}

// List retrieves categories matching the filter
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) ([]CategoryResponse, int64, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToCategoryResponses(categories), total, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		description := category.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Activate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Deactivate deactivates a category
func (s *CategoryService) Deactivate(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete deletes a category. Categories with subcategories or products
// cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete a category with subcategories")
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError("HAS_PRODUCTS", "Cannot delete a category with products")
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}
