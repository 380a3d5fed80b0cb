package order

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/order"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService manages customer shopping carts
type CartService struct {
	cartStore   order.CartStore
	productRepo catalog.ProductRepository
	designRepo  design.DesignOrderRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	cartStore order.CartStore,
	productRepo catalog.ProductRepository,
	designRepo design.DesignOrderRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartStore:   cartStore,
		productRepo: productRepo,
		designRepo:  designRepo,
		logger:      logger,
	}
}

// Get returns the user's cart, creating an empty one if none exists
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToCartResponse(cart)
	return &resp, nil
}

// AddItem adds a catalog product to the cart. The unit price is read from
// the catalog at add time; checkout reprices against the current catalog.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := order.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductCode: product.Code,
		UnitPrice:   product.BasePrice,
		Quantity:    req.Quantity,
	}

	if err := cart.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity))

	resp := ToCartResponse(cart)
	return &resp, nil
}

// AddDesignItem adds a quoted design order to the cart. The line carries
// the design order's quantity and quoted unit price; both are re-read at
// checkout so the stored quote stays authoritative.
func (s *CartService) AddDesignItem(ctx context.Context, userID uuid.UUID, req AddDesignToCartRequest) (*CartResponse, error) {
	designOrder, err := s.designRepo.FindByIDForUser(ctx, userID, req.DesignOrderID)
	if err != nil {
		return nil, shared.NewDomainError("DESIGN_ORDER_NOT_FOUND", "Design order not found")
	}
	if designOrder.Status != design.DesignOrderStatusPending {
		return nil, shared.NewDomainError("DESIGN_ORDER_NOT_PENDING", "Only pending design orders can be added to the cart")
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		if item.DesignOrderID != nil && *item.DesignOrderID == designOrder.ID {
			return nil, shared.NewDomainError("DUPLICATE_DESIGN_ORDER", "Design order is already in the cart")
		}
	}

	designOrderID := designOrder.ID
	item := order.CartItem{
		ProductID:     designOrder.ProductID,
		ProductName:   designOrder.ProductName,
		UnitPrice:     designOrder.UnitPrice,
		Quantity:      designOrder.Quantity,
		DesignOrderID: &designOrderID,
	}

	if err := cart.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("Design order added to cart",
		zap.String("user_id", userID.String()),
		zap.String("design_order_id", designOrder.ID.String()))

	resp := ToCartResponse(cart)
	return &resp, nil
}

// UpdateItem sets the quantity of a catalog line
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	resp := ToCartResponse(cart)
	return &resp, nil
}

// RemoveItem removes a catalog line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	resp := ToCartResponse(cart)
	return &resp, nil
}

// RemoveDesignItem removes a design order line from the cart
func (s *CartService) RemoveDesignItem(ctx context.Context, userID, designOrderID uuid.UUID) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveDesignItem(designOrderID); err != nil {
		return nil, err
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	resp := ToCartResponse(cart)
	return &resp, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartStore.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
	}
	return nil
}

// loadCart fetches the user's cart, returning an empty cart on a miss
func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}
	if cart == nil {
		cart = order.NewCart(userID)
	}
	return cart, nil
}

func (s *CartService) saveCart(ctx context.Context, cart *order.Cart) error {
	if err := s.cartStore.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save cart")
	}
	return nil
}
