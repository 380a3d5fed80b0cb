package order

import (
	"fmt"
	"time"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment state of a customer order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Fulfillment moves forward one step at a time; cancellation is allowed
// from any non-terminal state. Completed and cancelled allow nothing,
// in either direction.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusInProgress || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	}
	return false
}

// OrderItem represents a line item in a customer order
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Set when the line originated from a customized design order
	DesignOrderID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName, productCode string, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	qty := decimal.NewFromInt(int64(quantity))

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      unitPrice.Amount().Mul(qty),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *OrderItem) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()

	return nil
}

// LinkDesignOrder associates the line with a customized design order
func (i *OrderItem) LinkDesignOrder(designOrderID uuid.UUID) {
	i.DesignOrderID = &designOrderID
	i.UpdatedAt = time.Now()
}

// GetAmountMoney returns the amount as Money value object
func (i *OrderItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Amount)
}

// Order represents a customer order aggregate root.
// It manages the order lifecycle from placement through fulfillment.
type Order struct {
	shared.OwnedAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(32);not null;uniqueIndex"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes           string              `gorm:"type:varchar(500)"`
	ConfirmedAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order for a customer
func NewOrder(userID uuid.UUID, orderNumber string, shippingAddress valueobject.Address) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 32 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 32 characters")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}

	order := &Order{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		OrderNumber:        orderNumber,
		Items:              make([]OrderItem, 0),
		ShippingAddress:    shippingAddress,
		Subtotal:           decimal.Zero,
		DiscountAmount:     decimal.Zero,
		Total:              decimal.Zero,
		Status:             OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item to a pending order
func (o *Order) AddItem(productID uuid.UUID, productName, productCode string, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to an order that has been confirmed")
	}

	for _, item := range o.Items {
		if item.ProductID == productID && item.DesignOrderID == nil {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already in order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// AddDesignItem adds a line item backed by a customized design order.
// The unit price comes from the design quote rather than the catalog.
func (o *Order) AddDesignItem(designOrderID, productID uuid.UUID, productName string, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if designOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DESIGN_ORDER", "Design order ID cannot be empty")
	}

	item, err := o.AddItem(productID, productName, "", quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items[len(o.Items)-1].LinkDesignOrder(designOrderID)
	item.LinkDesignOrder(designOrderID)

	return item, nil
}

// UpdateItemQuantity updates the quantity of a line item on a pending order
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on an order that has been confirmed")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item from a pending order
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from an order that has been confirmed")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ApplyDiscount applies an order-level discount to a pending order
func (o *Order) ApplyDiscount(discount valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to an order that has been confirmed")
	}
	if discount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	o.DiscountAmount = discount.Amount()
	o.Total = o.Subtotal.Sub(o.DiscountAmount)
	o.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the customer notes on the order
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// Confirm confirms the order. Requires at least one item.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm an order without items")
	}
	if o.Total.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	now := time.Now()
	o.ConfirmedAt = &now
	o.changeStatus(OrderStatusConfirmed)

	return nil
}

// StartFulfillment moves a confirmed order into production
func (o *Order) StartFulfillment() error {
	if !o.Status.CanTransitionTo(OrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot start fulfillment in %s status", o.Status))
	}

	o.changeStatus(OrderStatusInProgress)

	return nil
}

// Complete marks the order as delivered
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.CompletedAt = &now
	o.changeStatus(OrderStatusCompleted)

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	o.changeStatus(OrderStatusCancelled)

	return nil
}

// TransitionTo dispatches to the appropriate transition method.
// Used by the admin status update endpoint.
func (o *Order) TransitionTo(target OrderStatus, cancelReason string) error {
	switch target {
	case OrderStatusConfirmed:
		return o.Confirm()
	case OrderStatusInProgress:
		return o.StartFulfillment()
	case OrderStatusCompleted:
		return o.Complete()
	case OrderStatusCancelled:
		return o.Cancel(cancelReason)
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid target status: "+target.String())
	}
}

func (o *Order) changeStatus(target OrderStatus) {
	oldStatus := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus))
}

// recalculateTotals recalculates the order totals from line items
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal.Sub(o.DiscountAmount)

	if o.Total.IsNegative() {
		o.DiscountAmount = o.Subtotal
		o.Total = decimal.Zero
	}
}

// GetTotalMoney returns the order total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all line item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsPending returns true if the order has not been confirmed
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsTerminal returns true if the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// GetItem returns a line item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}
