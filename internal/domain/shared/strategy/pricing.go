package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlacementSpec describes one design placement for pricing purposes
type PlacementSpec struct {
	Position string
	WidthCM  decimal.Decimal
	HeightCM decimal.Decimal
}

// AreaCM2 returns the printed area of the placement in square centimeters
func (p PlacementSpec) AreaCM2() decimal.Decimal {
	return p.WidthCM.Mul(p.HeightCM)
}

// PricingContext provides context for a design quote calculation
type PricingContext struct {
	ProductID  string
	DesignType string
	BasePrice  decimal.Decimal
	Placements []PlacementSpec
	Quantity   decimal.Decimal
	Currency   string
}

// PricingResult contains the result of a pricing calculation
type PricingResult struct {
	UnitPrice       decimal.Decimal
	PlacementCharge decimal.Decimal
	TotalPrice      decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	Currency        string
	AppliedRules    []string
}

// PricingStrategy defines the interface for pricing calculation
type PricingStrategy interface {
	Strategy
	// CalculatePrice calculates the price for a given pricing context
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
	// SupportsTieredPricing returns true if the strategy applies quantity-based discounts
	SupportsTieredPricing() bool
}
