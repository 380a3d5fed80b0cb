package catalog

import (
	"context"
	"testing"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindRootCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newProductService() (*ProductService, *MockProductRepository, *MockCategoryRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	return NewProductService(productRepo, categoryRepo), productRepo, categoryRepo
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with all fields", func(t *testing.T) {
		svc, productRepo, categoryRepo := newProductService()
		category, err := catalog.NewCategory("apparel", "Apparel")
		require.NoError(t, err)
		basePrice := decimal.NewFromFloat(24.99)
		customizable := true

		productRepo.On("ExistsByCode", ctx, "TSHIRT-001").Return(false, nil)
		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{
			Code:         "TSHIRT-001",
			Name:         "Classic Tee",
			Description:  "Heavyweight cotton tee",
			ProductType:  "t-shirt",
			CategoryID:   &category.ID,
			BasePrice:    &basePrice,
			Customizable: &customizable,
		})

		require.NoError(t, err)
		assert.Equal(t, "TSHIRT-001", resp.Code)
		assert.Equal(t, "t-shirt", resp.ProductType)
		assert.True(t, resp.Customizable)
		assert.True(t, resp.BasePrice.Equal(basePrice))
		productRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		productRepo.On("ExistsByCode", ctx, "TSHIRT-001").Return(true, nil)

		_, err := svc.Create(ctx, CreateProductRequest{
			Code: "TSHIRT-001", Name: "Classic Tee", ProductType: "t-shirt",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		svc, productRepo, categoryRepo := newProductService()
		categoryID := uuid.New()
		productRepo.On("ExistsByCode", ctx, "TSHIRT-001").Return(false, nil)
		categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateProductRequest{
			Code: "TSHIRT-001", Name: "Classic Tee", ProductType: "t-shirt",
			CategoryID: &categoryID,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Category not found")
	})

	t.Run("rejects invalid product type", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		productRepo.On("ExistsByCode", ctx, "SOCK-001").Return(false, nil)

		_, err := svc.Create(ctx, CreateProductRequest{
			Code: "SOCK-001", Name: "Wool Socks", ProductType: "socks",
		})

		assert.Error(t, err)
	})
}

func TestProductServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and filters", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		product, err := catalog.NewProduct("TSHIRT-001", "Classic Tee", catalog.ProductTypeTShirt)
		require.NoError(t, err)

		var captured shared.Filter
		productRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(shared.Filter) }).
			Return([]catalog.Product{*product}, nil)
		productRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		responses, total, err := svc.List(ctx, ProductListFilter{Status: "active"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, responses, 1)
		assert.Equal(t, 1, captured.Page)
		assert.Equal(t, 20, captured.PageSize)
		assert.Equal(t, "sort_order", captured.OrderBy)
		assert.Equal(t, "active", captured.Filters["status"])
	})

	t.Run("passes price range filters", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		minPrice, maxPrice := 10.0, 50.0

		var captured shared.Filter
		productRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(shared.Filter) }).
			Return([]catalog.Product{}, nil)
		productRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

		_, _, err := svc.List(ctx, ProductListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

		require.NoError(t, err)
		assert.Equal(t, 10.0, captured.Filters["min_price"])
		assert.Equal(t, 50.0, captured.Filters["max_price"])
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates price and customization", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		product, err := catalog.NewProduct("TSHIRT-001", "Classic Tee", catalog.ProductTypeTShirt)
		require.NoError(t, err)
		newPrice := decimal.NewFromFloat(29.99)
		customizable := true

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{
			BasePrice:    &newPrice,
			Customizable: &customizable,
		})

		require.NoError(t, err)
		assert.True(t, resp.BasePrice.Equal(newPrice))
		assert.True(t, resp.Customizable)
	})

	t.Run("not found propagates", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		productID := uuid.New()
		productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, productID, UpdateProductRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceStatusChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("discontinue is permanent", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		product, err := catalog.NewProduct("TSHIRT-001", "Classic Tee", catalog.ProductTypeTShirt)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		resp, err := svc.Discontinue(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "discontinued", resp.Status)

		_, err = svc.Activate(ctx, product.ID)
		assert.Error(t, err)
	})
}
