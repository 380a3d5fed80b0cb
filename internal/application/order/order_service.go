package order

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/order"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/shopcraft/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles checkout and order lifecycle operations
type OrderService struct {
	orderRepo       order.OrderRepository
	productRepo     catalog.ProductRepository
	designRepo      design.DesignOrderRepository
	cartStore       order.CartStore
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	designRepo design.DesignOrderRepository,
	cartStore order.CartStore,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		designRepo:  designRepo,
		cartStore:   cartStore,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Checkout converts the user's cart into a pending order. Catalog lines
// are repriced against the current catalog and design lines against the
// stored quote; prices held in the cart are never trusted.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart during checkout", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}
	if cart == nil || cart.IsEmpty() {
		return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
	}

	address, err := buildAddress(req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		s.logger.Error("Failed to generate order number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate order number")
	}

	customerOrder, err := order.NewOrder(userID, orderNumber, address)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		customerOrder.SetNotes(req.Notes)
	}

	// Collect design orders to confirm only after the order is saved
	confirmed := make([]*design.DesignOrder, 0)

	for _, line := range cart.Items {
		if line.DesignOrderID != nil {
			designOrder, err := s.designRepo.FindByIDForUser(ctx, userID, *line.DesignOrderID)
			if err != nil {
				return nil, shared.NewDomainError("DESIGN_ORDER_NOT_FOUND", "Design order in cart no longer exists")
			}
			if designOrder.Status != design.DesignOrderStatusPending {
				return nil, shared.NewDomainError("DESIGN_ORDER_NOT_PENDING",
					"Design order "+designOrder.OrderNumber+" is no longer awaiting checkout")
			}

			_, err = customerOrder.AddDesignItem(
				designOrder.ID,
				designOrder.ProductID,
				designOrder.ProductName,
				designOrder.Quantity,
				valueobject.NewMoneyUSD(designOrder.UnitPrice),
			)
			if err != nil {
				return nil, err
			}

			confirmed = append(confirmed, designOrder)
			continue
		}

		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				"Product "+line.ProductName+" is no longer available")
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				"Product "+product.Name+" is no longer available")
		}

		_, err = customerOrder.AddItem(
			product.ID,
			product.Name,
			product.Code,
			line.Quantity,
			product.GetBasePriceMoney(),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, customerOrder); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to place order")
	}

	// Design orders are locked in once they belong to a placed order
	for _, designOrder := range confirmed {
		if err := designOrder.Confirm(); err != nil {
			s.logger.Error("Failed to confirm design order after checkout",
				zap.String("design_order_id", designOrder.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.designRepo.Save(ctx, designOrder); err != nil {
			s.logger.Error("Failed to save confirmed design order",
				zap.String("design_order_id", designOrder.ID.String()),
				zap.Error(err))
		}
	}

	if err := s.cartStore.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart after checkout", zap.Error(err))
	}

	if s.businessMetrics != nil {
		orderType := telemetry.OrderTypeStandard
		if len(confirmed) > 0 {
			orderType = telemetry.OrderTypeDesign
		}
		s.businessMetrics.RecordOrderWithAmount(ctx, orderType, customerOrder.Total)
	}

	s.logger.Info("Order placed",
		zap.String("user_id", userID.String()),
		zap.String("order_number", customerOrder.OrderNumber),
		zap.Int("items", customerOrder.ItemCount()))

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// Get returns an order owned by the user
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	customerOrder, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// GetByID returns any order (admin)
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	customerOrder, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// GetByOrderNumber returns an order by its number (admin)
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	customerOrder, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// ListForUser returns the user's orders
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := s.toDomainFilter(filter)

	orders, err := s.orderRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	domainFilter.Filters["user_id"] = userID
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to count orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	result := shared.NewPaginated(ToOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// List returns all orders (admin)
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := s.toDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to count orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	result := shared.NewPaginated(ToOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Cancel cancels a pending order on behalf of the customer. Once an order
// is confirmed only an admin can cancel it.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	customerOrder, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	if !customerOrder.IsPending() {
		return nil, shared.NewDomainError("INVALID_STATE", "Orders can only be cancelled by the customer while pending")
	}

	if err := customerOrder.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, customerOrder); err != nil {
		s.logger.Error("Failed to save cancelled order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel order")
	}

	s.logger.Info("Order cancelled by customer",
		zap.String("order_number", customerOrder.OrderNumber),
		zap.String("user_id", userID.String()))

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// UpdateStatus moves an order through its lifecycle (admin)
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid target status: "+req.Status)
	}

	customerOrder, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	if err := customerOrder.TransitionTo(target, req.CancelReason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, customerOrder); err != nil {
		s.logger.Error("Failed to save order status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order status")
	}

	s.logger.Info("Order status updated",
		zap.String("order_number", customerOrder.OrderNumber),
		zap.String("status", customerOrder.Status.String()))

	resp := ToOrderResponse(customerOrder)
	return &resp, nil
}

// CountByStatus returns order counts per status plus a total (admin dashboard)
func (s *OrderService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	statuses := []order.OrderStatus{
		order.OrderStatusPending,
		order.OrderStatusConfirmed,
		order.OrderStatusInProgress,
		order.OrderStatusCompleted,
		order.OrderStatusCancelled,
	}

	counts := make(map[string]int64, len(statuses)+1)
	var total int64
	for _, status := range statuses {
		count, err := s.orderRepo.CountByStatus(ctx, status)
		if err != nil {
			s.logger.Error("Failed to count orders by status", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count orders")
		}
		counts[status.String()] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}

// buildAddress converts an AddressRequest into an Address value object
func buildAddress(req AddressRequest) (valueobject.Address, error) {
	opts := make([]valueobject.AddressOption, 0, 2)
	if req.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(req.Line2))
	}
	if req.Country != "" {
		opts = append(opts, valueobject.WithCountry(req.Country))
	}

	return valueobject.NewAddress(req.Recipient, req.Line1, req.City, req.State, req.PostalCode, opts...)
}

// toDomainFilter converts an OrderListFilter to a domain filter
func (s *OrderService) toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Search != "" {
		domainFilter.Search = filter.Search
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	return domainFilter
}
