package catalog

import (
	"context"
	"errors"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Code, req.Name, catalog.ProductType(req.ProductType))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.BasePrice != nil {
		if err := product.SetBasePrice(valueobject.NewMoneyUSD(*req.BasePrice)); err != nil {
			return nil, err
		}
	}
	if req.Customizable != nil && *req.Customizable {
		product.EnableCustomization()
	}
	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering, sorting, and pagination.
// Unknown sort columns are rejected at binding; page size is capped at 100.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListByCategory retrieves products in a category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, 0, err
	}

	filter.CategoryID = &categoryID
	return s.List(ctx, filter)
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.BasePrice != nil {
		if err := product.SetBasePrice(valueobject.NewMoneyUSD(*req.BasePrice)); err != nil {
			return nil, err
		}
	}

	if req.Customizable != nil {
		if *req.Customizable {
			product.EnableCustomization()
		} else {
			product.DisableCustomization()
		}
	}

	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.applyStatusChange(ctx, productID, (*catalog.Product).Activate)
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.applyStatusChange(ctx, productID, (*catalog.Product).Deactivate)
}

// Discontinue permanently retires a product
func (s *ProductService) Discontinue(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.applyStatusChange(ctx, productID, (*catalog.Product).Discontinue)
}

func (s *ProductService) applyStatusChange(ctx context.Context, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, productID)
}

// CountByStatus returns product counts grouped by status
func (s *ProductService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	total := int64(0)

	for _, status := range []catalog.ProductStatus{
		catalog.ProductStatusActive,
		catalog.ProductStatusInactive,
		catalog.ProductStatusDiscontinued,
	} {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(status)
		count, err := s.productRepo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = count
		total += count
	}

	counts["total"] = total
	return counts, nil
}

func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
		filter.OrderDir = "asc"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ProductType != "" {
		domainFilter.Filters["product_type"] = filter.ProductType
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}
	if filter.Customizable != nil {
		domainFilter.Filters["customizable"] = *filter.Customizable
	}

	return domainFilter
}
