package design

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DesignOrderStatus represents the status of a custom design order
type DesignOrderStatus string

const (
	DesignOrderStatusPending    DesignOrderStatus = "pending"
	DesignOrderStatusConfirmed  DesignOrderStatus = "confirmed"
	DesignOrderStatusInProgress DesignOrderStatus = "in-progress"
	DesignOrderStatusCompleted  DesignOrderStatus = "completed"
	DesignOrderStatusCancelled  DesignOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid DesignOrderStatus
func (s DesignOrderStatus) IsValid() bool {
	switch s {
	case DesignOrderStatusPending, DesignOrderStatusConfirmed, DesignOrderStatusInProgress,
		DesignOrderStatusCompleted, DesignOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DesignOrderStatus
func (s DesignOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Completed and cancelled are strictly terminal: no transition out of either
// is permitted, including between the two.
func (s DesignOrderStatus) CanTransitionTo(target DesignOrderStatus) bool {
	switch s {
	case DesignOrderStatusPending:
		return target == DesignOrderStatusConfirmed || target == DesignOrderStatusCancelled
	case DesignOrderStatusConfirmed:
		return target == DesignOrderStatusInProgress || target == DesignOrderStatusCancelled
	case DesignOrderStatusInProgress:
		return target == DesignOrderStatusCompleted || target == DesignOrderStatusCancelled
	case DesignOrderStatusCompleted, DesignOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transition is permitted from this status
func (s DesignOrderStatus) IsTerminal() bool {
	return s == DesignOrderStatusCompleted || s == DesignOrderStatusCancelled
}

// DesignType is the production technique for a custom design
type DesignType string

const (
	DesignTypePrinting   DesignType = "printing"
	DesignTypeEmbroidery DesignType = "embroidery"
)

// IsValid checks if the design type is known
func (t DesignType) IsValid() bool {
	return t == DesignTypePrinting || t == DesignTypeEmbroidery
}

// String returns the string representation of the design type
func (t DesignType) String() string {
	return string(t)
}

// DesignOrder is the aggregate root for a custom design order: an uploaded
// design applied to one or more placements on a garment, with a quantity and
// an authoritative price computed at submission time.
type DesignOrder struct {
	shared.OwnedAggregateRoot
	OrderNumber string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductName string     `gorm:"type:varchar(200);not null"`
	ProductType catalog.ProductType `gorm:"type:varchar(30);not null"`
	CategoryID  *uuid.UUID `gorm:"type:uuid"`

	DesignType DesignType `gorm:"type:varchar(20);not null"`

	// Uploaded design asset, stored in object storage
	DesignFileName    string `gorm:"type:varchar(255);not null"`
	DesignContentType string `gorm:"type:varchar(100);not null"`
	DesignFileSize    int64  `gorm:"not null"`
	DesignStorageKey  string `gorm:"type:varchar(500);not null"`

	Placements []Placement `gorm:"foreignKey:DesignOrderID"`

	Quantity            int    `gorm:"not null;default:1"`
	SpecialInstructions string `gorm:"type:text"`

	BasePrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Status       DesignOrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CancelReason string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DesignOrder) TableName() string {
	return "design_orders"
}

// NewDesignOrder creates a new design order in pending status.
// A design file and at least one placement are required; these are validated
// before anything else so callers can reject incomplete submissions without
// side effects.
func NewDesignOrder(
	userID uuid.UUID,
	orderNumber string,
	product *catalog.Product,
	designType DesignType,
	fileName, contentType string,
	fileSize int64,
	storageKey string,
	placements []*Placement,
	quantity int,
	instructions string,
) (*DesignOrder, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if !product.Customizable {
		return nil, shared.NewDomainError("NOT_CUSTOMIZABLE", "Product does not support custom designs")
	}
	if !designType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DESIGN_TYPE", "Design type must be printing or embroidery")
	}
	if storageKey == "" || fileName == "" {
		return nil, shared.ErrDesignRequired
	}
	if len(placements) == 0 {
		return nil, shared.ErrPlacementRequired
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if len(instructions) > 2000 {
		return nil, shared.NewDomainError("INVALID_INSTRUCTIONS", "Special instructions cannot exceed 2000 characters")
	}

	order := &DesignOrder{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		OrderNumber:        orderNumber,
		ProductID:          product.ID,
		ProductName:        product.Name,
		ProductType:        product.ProductType,
		CategoryID:         product.CategoryID,
		DesignType:         designType,
		DesignFileName:     fileName,
		DesignContentType:  contentType,
		DesignFileSize:     fileSize,
		DesignStorageKey:   storageKey,
		Quantity:           quantity,
		SpecialInstructions: instructions,
		BasePrice:          product.BasePrice,
		Status:             DesignOrderStatusPending,
	}

	for _, p := range placements {
		if !IsPositionAllowed(p.Position, product.ProductType) {
			return nil, shared.NewDomainError("INVALID_POSITION",
				"Position "+p.Position.String()+" is not available for product type "+product.ProductType.String())
		}
		p.DesignOrderID = order.ID
		order.Placements = append(order.Placements, *p)
	}

	order.AddDomainEvent(NewDesignOrderCreatedEvent(order))

	return order, nil
}

// AddPlacement adds a new placement slot with default geometry.
// Placements can only change while the order is pending.
func (o *DesignOrder) AddPlacement(position PlacementPosition) (*Placement, error) {
	if o.Status != DesignOrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Placements can only be modified while the order is pending")
	}

	placement, err := NewPlacement(position, o.ProductType)
	if err != nil {
		return nil, err
	}
	placement.DesignOrderID = o.ID

	o.Placements = append(o.Placements, *placement)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return placement, nil
}

// UpdatePlacement adjusts the geometry of an existing placement.
// Out-of-range dimensions and rotation are clamped rather than rejected.
func (o *DesignOrder) UpdatePlacement(placementID uuid.UUID, width, height decimal.Decimal, rotation int) error {
	if o.Status != DesignOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Placements can only be modified while the order is pending")
	}

	for i := range o.Placements {
		if o.Placements[i].ID == placementID {
			o.Placements[i].SetDimensions(width, height)
			o.Placements[i].SetRotation(rotation)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("PLACEMENT_NOT_FOUND", "Placement not found on this order")
}

// RemovePlacement removes a placement. The last placement cannot be removed:
// a design order without placements is invalid.
func (o *DesignOrder) RemovePlacement(placementID uuid.UUID) error {
	if o.Status != DesignOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Placements can only be modified while the order is pending")
	}
	if len(o.Placements) == 1 && o.Placements[0].ID == placementID {
		return shared.ErrPlacementRequired
	}

	for i := range o.Placements {
		if o.Placements[i].ID == placementID {
			o.Placements = append(o.Placements[:i], o.Placements[i+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("PLACEMENT_NOT_FOUND", "Placement not found on this order")
}

// SetQuantity updates the order quantity while pending
func (o *DesignOrder) SetQuantity(quantity int) error {
	if o.Status != DesignOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Quantity can only be changed while the order is pending")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	o.Quantity = quantity
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetPricing records the authoritative price computed by the pricing engine
func (o *DesignOrder) SetPricing(unitPrice, totalPrice valueobject.Money) error {
	if unitPrice.Amount().IsNegative() || totalPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	o.UnitPrice = unitPrice.Amount()
	o.TotalPrice = totalPrice.Amount()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm moves the order from pending to confirmed
func (o *DesignOrder) Confirm() error {
	if !o.Status.CanTransitionTo(DesignOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}

	oldStatus := o.Status
	o.Status = DesignOrderStatusConfirmed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDesignOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// StartProduction moves the order from confirmed to in-progress
func (o *DesignOrder) StartProduction() error {
	if !o.Status.CanTransitionTo(DesignOrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot start production for order in %s status", o.Status))
	}

	oldStatus := o.Status
	o.Status = DesignOrderStatusInProgress
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDesignOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// Complete moves the order from in-progress to completed
func (o *DesignOrder) Complete() error {
	if !o.Status.CanTransitionTo(DesignOrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	oldStatus := o.Status
	o.Status = DesignOrderStatusCompleted
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDesignOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// Cancel cancels the order from any non-terminal status
func (o *DesignOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(DesignOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason cannot exceed 500 characters")
	}

	oldStatus := o.Status
	o.Status = DesignOrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDesignOrderStatusChangedEvent(o, oldStatus))

	return nil
}

// TransitionTo dispatches to the appropriate transition method for the
// target status. Used by the admin status-update endpoint.
func (o *DesignOrder) TransitionTo(target DesignOrderStatus, cancelReason string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown status: "+target.String())
	}

	switch target {
	case DesignOrderStatusConfirmed:
		return o.Confirm()
	case DesignOrderStatusInProgress:
		return o.StartProduction()
	case DesignOrderStatusCompleted:
		return o.Complete()
	case DesignOrderStatusCancelled:
		return o.Cancel(cancelReason)
	default:
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition from %s to %s", o.Status, target))
	}
}

// GetPlacement returns the placement with the given ID, or nil
func (o *DesignOrder) GetPlacement(placementID uuid.UUID) *Placement {
	for i := range o.Placements {
		if o.Placements[i].ID == placementID {
			return &o.Placements[i]
		}
	}
	return nil
}

// IsTerminal returns true if the order is completed or cancelled
func (o *DesignOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// GetTotalPriceMoney returns the total price as a Money value object
func (o *DesignOrder) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalPrice)
}

// TotalPlacementAreaCM2 returns the combined printed area across placements
func (o *DesignOrder) TotalPlacementAreaCM2() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Placements {
		total = total.Add(o.Placements[i].AreaCM2())
	}
	return total
}
