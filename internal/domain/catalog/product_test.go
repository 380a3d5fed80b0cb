package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "TEE-001", product.Code)
		assert.Equal(t, "Classic Cotton T-Shirt", product.Name)
		assert.Equal(t, ProductTypeTShirt, product.ProductType)
		assert.True(t, product.BasePrice.IsZero())
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.False(t, product.Customizable)
		assert.Nil(t, product.CategoryID)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		product, err := NewProduct("tee-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)
		assert.Equal(t, "TEE-001", product.Code)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct("CAP-001", "Snapback Cap", ProductTypeCap)
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, product.Code, event.Code)
		assert.Equal(t, product.Name, event.Name)
		assert.Equal(t, product.ProductType, event.ProductType)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct("", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with code too long", func(t *testing.T) {
		longCode := "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890ABCDEFGHIJKLMNOP"
		_, err := NewProduct(longCode, "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 50 characters")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewProduct("TEE@001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can only contain letters")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("TEE-001", "", ProductTypeTShirt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with unknown product type", func(t *testing.T) {
		_, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductType("poster"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown product type")
	})
}

func TestNewProductWithPrice(t *testing.T) {
	t.Run("creates product with base price", func(t *testing.T) {
		basePrice := valueobject.NewMoneyUSDFromFloat(24.99)

		product, err := NewProductWithPrice("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt, basePrice)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.True(t, product.BasePrice.Equal(decimal.NewFromFloat(24.99)))
	})

	t.Run("fails with negative base price", func(t *testing.T) {
		basePrice := valueobject.NewMoneyUSDFromFloat(-1.00)

		_, err := NewProductWithPrice("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt, basePrice)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestProductType(t *testing.T) {
	t.Run("validates known types", func(t *testing.T) {
		for _, pt := range []ProductType{
			ProductTypeTShirt, ProductTypeSweatshirt, ProductTypeJacket,
			ProductTypeDenimShirt, ProductTypeCap, ProductTypeToteBag,
		} {
			assert.True(t, pt.IsValid(), "expected %s to be valid", pt)
		}
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		assert.False(t, ProductType("poster").IsValid())
		assert.False(t, ProductType("").IsValid())
	})

	t.Run("sleeve placements only for long-sleeve garments", func(t *testing.T) {
		assert.True(t, ProductTypeSweatshirt.HasSleeves())
		assert.True(t, ProductTypeJacket.HasSleeves())
		assert.True(t, ProductTypeDenimShirt.HasSleeves())
		assert.False(t, ProductTypeTShirt.HasSleeves())
		assert.False(t, ProductTypeCap.HasSleeves())
		assert.False(t, ProductTypeToteBag.HasSleeves())
	})
}

func TestProductUpdate(t *testing.T) {
	newProduct := func(t *testing.T) *Product {
		product, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("updates name and description", func(t *testing.T) {
		product := newProduct(t)

		err := product.Update("Premium Cotton T-Shirt", "Heavyweight 220gsm cotton")
		require.NoError(t, err)

		assert.Equal(t, "Premium Cotton T-Shirt", product.Name)
		assert.Equal(t, "Heavyweight 220gsm cotton", product.Description)
		assert.Equal(t, 2, product.GetVersion())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductUpdated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		product := newProduct(t)

		err := product.Update("", "desc")
		require.Error(t, err)
	})

	t.Run("sets category", func(t *testing.T) {
		product := newProduct(t)
		categoryID := uuid.New()

		product.SetCategory(&categoryID)

		require.NotNil(t, product.CategoryID)
		assert.Equal(t, categoryID, *product.CategoryID)
		assert.True(t, product.HasCategory())
	})

	t.Run("toggles customization", func(t *testing.T) {
		product := newProduct(t)

		product.EnableCustomization()
		assert.True(t, product.Customizable)
		assert.Equal(t, 2, product.GetVersion())

		// enabling again is a no-op
		product.EnableCustomization()
		assert.Equal(t, 2, product.GetVersion())

		product.DisableCustomization()
		assert.False(t, product.Customizable)
		assert.Equal(t, 3, product.GetVersion())
	})
}

func TestProductSetBasePrice(t *testing.T) {
	t.Run("updates price and publishes event", func(t *testing.T) {
		product, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)
		product.ClearDomainEvents()

		err = product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(29.99))
		require.NoError(t, err)

		assert.True(t, product.BasePrice.Equal(decimal.NewFromFloat(29.99)))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*ProductPriceChangedEvent)
		require.True(t, ok)
		assert.True(t, event.OldPrice.IsZero())
		assert.True(t, event.NewPrice.Equal(decimal.NewFromFloat(29.99)))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		product, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)

		err = product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(-5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestProductStatusTransitions(t *testing.T) {
	newProduct := func(t *testing.T) *Product {
		product, err := NewProduct("TEE-001", "Classic Cotton T-Shirt", ProductTypeTShirt)
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("deactivate then reactivate", func(t *testing.T) {
		product := newProduct(t)

		require.NoError(t, product.Deactivate())
		assert.Equal(t, ProductStatusInactive, product.Status)

		require.NoError(t, product.Activate())
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.True(t, product.IsActive())
	})

	t.Run("cannot activate an already active product", func(t *testing.T) {
		product := newProduct(t)

		err := product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("discontinue is terminal", func(t *testing.T) {
		product := newProduct(t)

		require.NoError(t, product.Discontinue())
		assert.True(t, product.IsDiscontinued())

		err := product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discontinued")

		err = product.Deactivate()
		require.Error(t, err)

		err = product.Discontinue()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already discontinued")
	})

	t.Run("publishes status change events", func(t *testing.T) {
		product := newProduct(t)

		require.NoError(t, product.Deactivate())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*ProductStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, ProductStatusActive, event.OldStatus)
		assert.Equal(t, ProductStatusInactive, event.NewStatus)
	})
}
