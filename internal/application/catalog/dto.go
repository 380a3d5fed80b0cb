package catalog

import (
	"time"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	ProductType  string           `json:"product_type" binding:"required"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	Customizable *bool            `json:"customizable"`
	ImageURL     string           `json:"image_url" binding:"max=500"`
	SortOrder    *int             `json:"sort_order"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	Customizable *bool            `json:"customizable"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,max=500"`
	SortOrder    *int             `json:"sort_order"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ProductType  string          `json:"product_type"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Customizable bool            `json:"customizable"`
	ImageURL     string          `json:"image_url"`
	Status       string          `json:"status"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	ProductType string     `form:"product_type"`
	CategoryID  *uuid.UUID `form:"category_id"`
	MinPrice    *float64   `form:"min_price"`
	MaxPrice    *float64   `form:"max_price"`
	Customizable *bool     `form:"customizable"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by" binding:"omitempty,oneof=created_at name base_price sort_order"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Slug        string     `json:"slug" binding:"omitempty,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CategoryTreeResponse is a category with its subcategories
type CategoryTreeResponse struct {
	CategoryResponse
	Children []CategoryResponse `json:"children"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		ProductType:  p.ProductType.String(),
		CategoryID:   p.CategoryID,
		BasePrice:    p.BasePrice,
		Customizable: p.Customizable,
		ImageURL:     p.ImageURL,
		Status:       string(p.Status),
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
