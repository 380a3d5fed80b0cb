package order

import (
	"context"
	"time"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxCartItems caps the number of distinct lines in one cart
const MaxCartItems = 50

// CartItem is one line in a shopping cart
type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`

	// Set when the line is a customized design order awaiting checkout
	DesignOrderID *uuid.UUID `json:"design_order_id,omitempty"`
}

// Amount returns the line total
func (i CartItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a customer's shopping cart. Carts live in Redis, not the
// database; the CartStore owns serialization and expiry.
type Cart struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     make([]CartItem, 0),
		UpdatedAt: time.Now(),
	}
}

// AddItem adds a line to the cart, merging quantity for an existing product
func (c *Cart) AddItem(item CartItem) error {
	if item.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if item.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	// Design order lines are unique; catalog lines merge by product
	if item.DesignOrderID == nil {
		for idx := range c.Items {
			if c.Items[idx].ProductID == item.ProductID && c.Items[idx].DesignOrderID == nil {
				c.Items[idx].Quantity += item.Quantity
				c.UpdatedAt = time.Now()
				return nil
			}
		}
	}

	if len(c.Items) >= MaxCartItems {
		return shared.NewDomainError("CART_FULL", "Cart cannot hold more than 50 items")
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateQuantity sets the quantity of a catalog line
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID && c.Items[idx].DesignOrderID == nil {
			c.Items[idx].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// RemoveItem removes a catalog line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID && c.Items[idx].DesignOrderID == nil {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// RemoveDesignItem removes a design order line from the cart
func (c *Cart) RemoveDesignItem(designOrderID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].DesignOrderID != nil && *c.Items[idx].DesignOrderID == designOrderID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal returns the sum of all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// CartStore persists carts. The production implementation is Redis-backed
// with a sliding TTL; carts are discardable state.
type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
