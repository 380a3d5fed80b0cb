package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/shopcraft/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// TestProductRepository_Integration tests the ProductRepository against a real PostgreSQL database
func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByID", func(t *testing.T) {
		product, err := catalog.NewProduct("TS-CLASSIC", "Classic Tee", catalog.ProductTypeTShirt)
		require.NoError(t, err)

		err = repo.Save(ctx, product)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, "TS-CLASSIC", found.Code)
		assert.Equal(t, "Classic Tee", found.Name)
		assert.Equal(t, catalog.ProductTypeTShirt, found.ProductType)
	})

	t.Run("FindByCode is case-insensitive", func(t *testing.T) {
		product, err := catalog.NewProduct("HD-ZIP", "Zip Hoodie", catalog.ProductTypeSweatshirt)
		require.NoError(t, err)

		err = repo.Save(ctx, product)
		require.NoError(t, err)

		// Codes are stored uppercase
		found, err := repo.FindByCode(ctx, "hd-zip")
		require.NoError(t, err)
		assert.Equal(t, "HD-ZIP", found.Code)
	})

	t.Run("ExistsByCode", func(t *testing.T) {
		product, err := catalog.NewProduct("CAP-SNAP", "Snapback Cap", catalog.ProductTypeCap)
		require.NoError(t, err)
		err = repo.Save(ctx, product)
		require.NoError(t, err)

		exists, err := repo.ExistsByCode(ctx, "CAP-SNAP")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "CAP-MISSING")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("FindAll with pagination", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			product, err := catalog.NewProduct(
				fmt.Sprintf("BULK-%02d", i),
				fmt.Sprintf("Bulk Tee %02d", i),
				catalog.ProductTypeTShirt,
			)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, product))
		}

		filter := shared.Filter{Page: 1, PageSize: 5}
		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page1, 5)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page2), 5)
	})

	t.Run("FindActive excludes inactive products", func(t *testing.T) {
		active, err := catalog.NewProduct("JK-BOMBER", "Bomber Jacket", catalog.ProductTypeJacket)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, active))

		inactive, err := catalog.NewProduct("JK-PARKA", "Parka", catalog.ProductTypeJacket)
		require.NoError(t, err)
		require.NoError(t, inactive.Deactivate())
		require.NoError(t, repo.Save(ctx, inactive))

		found, err := repo.FindActive(ctx, shared.Filter{})
		require.NoError(t, err)
		for _, p := range found {
			assert.Equal(t, catalog.ProductStatusActive, p.Status)
		}
	})

	t.Run("FindByCategory", func(t *testing.T) {
		categoryRepo := persistence.NewGormCategoryRepository(testDB.DB)
		category, err := catalog.NewCategory("outerwear", "Outerwear")
		require.NoError(t, err)
		require.NoError(t, categoryRepo.Save(ctx, category))

		product, err := catalog.NewProduct("JK-DENIM", "Denim Jacket", catalog.ProductTypeJacket)
		require.NoError(t, err)
		product.SetCategory(&category.ID)
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByCategory(ctx, category.ID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "JK-DENIM", found[0].Code)
	})

	t.Run("FindByIDs", func(t *testing.T) {
		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			product, err := catalog.NewProduct(
				fmt.Sprintf("IDS-%02d", i),
				fmt.Sprintf("Batch Tote %02d", i),
				catalog.ProductTypeToteBag,
			)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, product))
			ids = append(ids, product.ID)
		}

		found, err := repo.FindByIDs(ctx, ids)
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("Filter by type and price range", func(t *testing.T) {
		products := []struct {
			code  string
			name  string
			price float64
		}{
			{"PRICE-LOW", "Budget Tee", 12.00},
			{"PRICE-MID", "Premium Tee", 29.00},
			{"PRICE-HIGH", "Designer Tee", 79.00},
		}
		for _, p := range products {
			product, err := catalog.NewProduct(p.code, p.name, catalog.ProductTypeTShirt)
			require.NoError(t, err)
			require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(p.price)))
			require.NoError(t, repo.Save(ctx, product))
		}

		filter := shared.Filter{
			Search: "Tee",
			Filters: map[string]interface{}{
				"product_type": string(catalog.ProductTypeTShirt),
				"min_price":    decimal.NewFromFloat(20.00),
				"max_price":    decimal.NewFromFloat(50.00),
			},
		}
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PRICE-MID", found[0].Code)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Update product", func(t *testing.T) {
		product, err := catalog.NewProduct("UPD-TEE", "Original Name", catalog.ProductTypeTShirt)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, product.Update("Updated Name", "Updated description"))
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Name", found.Name)
		assert.Equal(t, "Updated description", found.Description)
	})

	t.Run("Delete product", func(t *testing.T) {
		product, err := catalog.NewProduct("DEL-TEE", "To Delete", catalog.ProductTypeTShirt)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, repo.Delete(ctx, product.ID))

		_, err = repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestProductRepository_Versioning verifies the version column is persisted
// and incremented across saves
func TestProductRepository_Versioning(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.DB)
	ctx := context.Background()

	product, err := catalog.NewProduct("VER-TEE", "Versioned Tee", catalog.ProductTypeTShirt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, loaded.Update("Versioned Tee v2", ""))
	require.NoError(t, repo.Save(ctx, loaded))

	updated, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Versioned Tee v2", updated.Name)
	assert.Greater(t, updated.Version, product.Version)
}
