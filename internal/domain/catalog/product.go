package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductType classifies the garment a design can be printed or embroidered on.
// The type determines which design placement positions are offered.
type ProductType string

const (
	ProductTypeTShirt     ProductType = "t-shirt"
	ProductTypeSweatshirt ProductType = "sweatshirt"
	ProductTypeJacket     ProductType = "jacket"
	ProductTypeDenimShirt ProductType = "denim-shirt"
	ProductTypeCap        ProductType = "cap"
	ProductTypeToteBag    ProductType = "tote-bag"
)

// IsValid checks if the product type is a known garment type
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeTShirt, ProductTypeSweatshirt, ProductTypeJacket,
		ProductTypeDenimShirt, ProductTypeCap, ProductTypeToteBag:
		return true
	default:
		return false
	}
}

// String returns the string representation of the product type
func (t ProductType) String() string {
	return string(t)
}

// HasSleeves reports whether the garment type offers sleeve placements
func (t ProductType) HasSleeves() bool {
	switch t {
	case ProductTypeSweatshirt, ProductTypeJacket, ProductTypeDenimShirt:
		return true
	default:
		return false
	}
}

// Product represents a garment in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductType  ProductType     `gorm:"type:varchar(30);not null"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Customizable bool            `gorm:"not null;default:false"`
	ImageURL     string          `gorm:"type:varchar(500)"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, productType ProductType) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Unknown product type")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		ProductType:       productType,
		BasePrice:         decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrice creates a new product with a base price
func NewProductWithPrice(code, name string, productType ProductType, basePrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(code, name, productType)
	if err != nil {
		return nil, err
	}

	if err := product.SetBasePrice(basePrice); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetBasePrice sets the base selling price used for quotes and orders
func (p *Product) SetBasePrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	oldPrice := p.BasePrice
	p.BasePrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetImageURL sets the primary product image URL
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// EnableCustomization allows custom designs to be placed on this product
func (p *Product) EnableCustomization() {
	if p.Customizable {
		return
	}
	p.Customizable = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// DisableCustomization disallows custom designs on this product
func (p *Product) DisableCustomization() {
	if !p.Customizable {
		return
	}
	p.Customizable = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetSortOrder sets the display order of the product
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue marks the product as discontinued
// A discontinued product cannot be reactivated
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsDiscontinued returns true if the product is discontinued
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// GetBasePriceMoney returns the base price as a Money value object
func (p *Product) GetBasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.BasePrice)
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
