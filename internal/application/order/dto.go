package order

import (
	"time"

	"github.com/shopcraft/backend/internal/domain/order"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest adds a catalog product to the cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// AddDesignToCartRequest adds a quoted design order to the cart
type AddDesignToCartRequest struct {
	DesignOrderID uuid.UUID `json:"design_order_id" binding:"required"`
}

// UpdateCartItemRequest changes the quantity of a catalog line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AddressRequest carries a shipping address
type AddressRequest struct {
	Recipient  string `json:"recipient" binding:"required,max=200"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"max=2"`
}

// CheckoutRequest converts the cart into an order
type CheckoutRequest struct {
	ShippingAddress AddressRequest `json:"shipping_address" binding:"required"`
	Notes           string         `json:"notes" binding:"max=500"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle (admin)
type UpdateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required,oneof=confirmed in-progress completed cancelled"`
	CancelReason string `json:"cancel_reason" binding:"max=500"`
}

// CancelOrderRequest cancels a pending order (customer)
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter represents filter options for order listing
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed in-progress completed cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at total status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	DesignOrderID *uuid.UUID      `json:"design_order_id,omitempty"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalQuantity int                `json:"total_quantity"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AddressResponse represents a shipping address in API responses
type AddressResponse struct {
	Recipient  string `json:"recipient"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
	DesignOrderID *uuid.UUID      `json:"design_order_id,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	OrderNumber     string              `json:"order_number"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress AddressResponse     `json:"shipping_address"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(cart *order.Cart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductCode:   item.ProductCode,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			Amount:        item.Amount(),
			DesignOrderID: item.DesignOrderID,
		}
	}

	return CartResponse{
		Items:         items,
		Subtotal:      cart.Subtotal(),
		TotalQuantity: cart.TotalQuantity(),
		UpdatedAt:     cart.UpdatedAt,
	}
}

// ToAddressResponse converts an Address value object
func ToAddressResponse(a valueobject.Address) AddressResponse {
	return AddressResponse{
		Recipient:  a.Recipient(),
		Line1:      a.Line1(),
		Line2:      a.Line2(),
		City:       a.City(),
		State:      a.State(),
		PostalCode: a.PostalCode(),
		Country:    a.Country(),
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductCode:   item.ProductCode,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Amount:        item.Amount,
			DesignOrderID: item.DesignOrderID,
		}
	}

	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Items:           items,
		ShippingAddress: ToAddressResponse(o.ShippingAddress),
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Status:          o.Status.String(),
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []*order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}
