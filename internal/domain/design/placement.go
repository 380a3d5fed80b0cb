package design

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlacementPosition identifies a slot on a garment where a design is applied
type PlacementPosition string

const (
	// Generic garment slots
	PositionFrontCenter     PlacementPosition = "front-center"
	PositionFrontLeftChest  PlacementPosition = "front-left-chest"
	PositionFrontRightChest PlacementPosition = "front-right-chest"
	PositionBackUpper       PlacementPosition = "back-upper"
	PositionBackCenter      PlacementPosition = "back-center"

	// Sleeve slots for long-sleeve garments
	PositionSleeveLeft  PlacementPosition = "sleeve-left"
	PositionSleeveRight PlacementPosition = "sleeve-right"

	// Cap panel slots
	PositionCapFront     PlacementPosition = "cap-front"
	PositionCapBack      PlacementPosition = "cap-back"
	PositionCapSideLeft  PlacementPosition = "cap-side-left"
	PositionCapSideRight PlacementPosition = "cap-side-right"
)

// String returns the string representation of the position
func (p PlacementPosition) String() string {
	return string(p)
}

// Placement dimension and rotation bounds, in centimeters and degrees
var (
	MinPlacementSize = decimal.NewFromInt(1)
	MaxPlacementSize = decimal.NewFromInt(30)
)

const (
	MinRotation = 0
	MaxRotation = 360
)

// Default placement geometry for a freshly added slot
var (
	DefaultPlacementSize = decimal.NewFromInt(8)
	DefaultOffsetPercent = decimal.NewFromInt(50)
)

func genericPositions() []PlacementPosition {
	return []PlacementPosition{
		PositionFrontCenter,
		PositionFrontLeftChest,
		PositionFrontRightChest,
		PositionBackUpper,
		PositionBackCenter,
	}
}

func capPositions() []PlacementPosition {
	return []PlacementPosition{
		PositionCapFront,
		PositionCapBack,
		PositionCapSideLeft,
		PositionCapSideRight,
	}
}

// PositionsForProductType returns the placement slots offered for a garment
// type. Caps get the four panel slots, long-sleeve garments get the generic
// set plus both sleeves, everything else gets the generic set. The lookup is
// total: unknown types fall through to the generic set.
func PositionsForProductType(productType catalog.ProductType) []PlacementPosition {
	switch {
	case productType == catalog.ProductTypeCap:
		return capPositions()
	case productType.HasSleeves():
		return append(genericPositions(), PositionSleeveLeft, PositionSleeveRight)
	default:
		return genericPositions()
	}
}

// IsPositionAllowed reports whether a position is offered for a garment type
func IsPositionAllowed(position PlacementPosition, productType catalog.ProductType) bool {
	for _, p := range PositionsForProductType(productType) {
		if p == position {
			return true
		}
	}
	return false
}

// Placement describes where and how a design is applied on a garment.
// It is a child entity of the DesignOrder aggregate.
type Placement struct {
	shared.BaseEntity
	DesignOrderID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Position      PlacementPosition `gorm:"type:varchar(30);not null"`
	WidthCM       decimal.Decimal   `gorm:"type:decimal(6,2);not null"`
	HeightCM      decimal.Decimal   `gorm:"type:decimal(6,2);not null"`
	Rotation      int               `gorm:"not null;default:0"`
	// Overlay coordinates as percentages of the printable area, used by
	// the storefront preview renderer
	OffsetX decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	OffsetY decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (Placement) TableName() string {
	return "design_placements"
}

/// NewPlacement creates a placement at the given slot with default geometry:
// 8x8 cm, no rotation, centered on the printable area
func NewPlacement(position PlacementPosition, productType catalog.ProductType) (*Placement, error) {
	if !IsPositionAllowed(position, productType) {
		return nil, shared.NewDomainError("INVALID_POSITION",
			"Position "+position.String()+" is not available for product type "+productType.String())
	}

	return &Placement{
		BaseEntity: shared.NewBaseEntity(),
		Position:   position,
		WidthCM:    DefaultPlacementSize,
		HeightCM:   DefaultPlacementSize,
		Rotation:   0,
		OffsetX:    DefaultOffsetPercent,
		OffsetY:    DefaultOffsetPercent,
	}, nil
}

// SetDimensions updates the placement size, clamping both axes to [1,30] cm
func (p *Placement) SetDimensions(width, height decimal.Decimal) {
	p.WidthCM = clampSize(width)
	p.HeightCM = clampSize(height)
	p.UpdatedAt = time.Now()
}

// SetRotation updates the rotation, clamping to [0,360] degrees
func (p *Placement) SetRotation(degrees int) {
	if degrees < MinRotation {
		degrees = MinRotation
	}
	if degrees > MaxRotation {
		degrees = MaxRotation
	}
	p.Rotation = degrees
	p.UpdatedAt = time.Now()
}

// SetOffset updates the overlay coordinates, clamping to [0,100] percent
func (p *Placement) SetOffset(x, y decimal.Decimal) {
	p.OffsetX = clampPercent(x)
	p.OffsetY = clampPercent(y)
	p.UpdatedAt = time.Now()
}

// AreaCM2 returns the printed area in square centimeters
func (p *Placement) AreaCM2() decimal.Decimal {
	return p.WidthCM.Mul(p.HeightCM)
}

func clampSize(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(MinPlacementSize) {
		return MinPlacementSize
	}
	if v.GreaterThan(MaxPlacementSize) {
		return MaxPlacementSize
	}
	return v
}

func clampPercent(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	if v.GreaterThan(hundred) {
		return hundred
	}
	return v
}
