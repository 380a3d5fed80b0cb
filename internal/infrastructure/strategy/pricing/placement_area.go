package pricing

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// PlacementAreaPricingStrategy prices a customized garment as the product
// base price plus a per-square-centimeter charge for every design placement.
// Embroidery carries a surcharge over printing, and premium positions
// (sleeves, cap panels) carry a position multiplier.
type PlacementAreaPricingStrategy struct {
	strategy.BaseStrategy
	ratePerCM2           decimal.Decimal
	embroideryMultiplier decimal.Decimal
	positionMultipliers  map[string]decimal.Decimal
}

// NewPlacementAreaPricingStrategy creates a placement-area pricing strategy
func NewPlacementAreaPricingStrategy(
	ratePerCM2, embroideryMultiplier decimal.Decimal,
	positionMultipliers map[string]decimal.Decimal,
) *PlacementAreaPricingStrategy {
	multipliers := make(map[string]decimal.Decimal, len(positionMultipliers))
	for k, v := range positionMultipliers {
		multipliers[k] = v
	}

	return &PlacementAreaPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"placement_area",
			strategy.StrategyTypePricing,
			"Base price plus per-cm2 placement charges",
		),
		ratePerCM2:           ratePerCM2,
		embroideryMultiplier: embroideryMultiplier,
		positionMultipliers:  multipliers,
	}
}

// DefaultPlacementAreaPricingStrategy creates a strategy with the standard
// store rates:
//   - $0.85 per cm2 of printed design
//   - embroidery costs 1.5x the printing rate
//   - sleeve and cap-panel placements carry a 1.25x position multiplier
func DefaultPlacementAreaPricingStrategy() *PlacementAreaPricingStrategy {
	premium := decimal.NewFromFloat(1.25)
	return NewPlacementAreaPricingStrategy(
		decimal.NewFromFloat(0.85),
		decimal.NewFromFloat(1.5),
		map[string]decimal.Decimal{
			"sleeve-left":    premium,
			"sleeve-right":   premium,
			"cap-front":      premium,
			"cap-back":       premium,
			"cap-side-left":  premium,
			"cap-side-right": premium,
		},
	)
}

// RatePerCM2 returns the per-square-centimeter charge
func (s *PlacementAreaPricingStrategy) RatePerCM2() decimal.Decimal {
	return s.ratePerCM2
}

// placementRate returns the effective per-cm2 rate for one placement
func (s *PlacementAreaPricingStrategy) placementRate(designType, position string) decimal.Decimal {
	rate := s.ratePerCM2
	if designType == "embroidery" {
		rate = rate.Mul(s.embroideryMultiplier)
	}
	if multiplier, ok := s.positionMultipliers[position]; ok {
		rate = rate.Mul(multiplier)
	}
	return rate
}

// CalculatePrice computes the per-unit price: base price plus the sum of
// area charges across all placements. No quantity discount is applied here.
func (s *PlacementAreaPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	placementCharge := decimal.Zero
	for _, p := range pricingCtx.Placements {
		charge := p.AreaCM2().Mul(s.placementRate(pricingCtx.DesignType, p.Position))
		placementCharge = placementCharge.Add(charge)
	}
	placementCharge = placementCharge.Round(2)

	unitPrice := pricingCtx.BasePrice.Add(placementCharge)
	totalPrice := unitPrice.Mul(pricingCtx.Quantity)

	appliedRules := []string{}
	if placementCharge.GreaterThan(decimal.Zero) {
		appliedRules = append(appliedRules, "placement_area_charge")
	}

	return strategy.PricingResult{
		UnitPrice:       unitPrice,
		PlacementCharge: placementCharge,
		TotalPrice:      totalPrice,
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		Currency:        pricingCtx.Currency,
		AppliedRules:    appliedRules,
	}, nil
}

// SupportsTieredPricing returns false: area pricing has no quantity discounts
func (s *PlacementAreaPricingStrategy) SupportsTieredPricing() bool {
	return false
}
