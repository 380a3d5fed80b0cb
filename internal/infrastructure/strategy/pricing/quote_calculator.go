package pricing

import (
	"context"

	"github.com/shopcraft/backend/internal/domain/shared/strategy"
)

// QuoteCalculator composes the placement-area and quantity-tier strategies
// into the authoritative design quote: per-unit price including placement
// charges, volume discount, and the final total rounded to cents.
type QuoteCalculator struct {
	area  *PlacementAreaPricingStrategy
	tiers *QuantityTierPricingStrategy
}

// NewQuoteCalculator creates a quote calculator from the two strategies
func NewQuoteCalculator(area *PlacementAreaPricingStrategy, tiers *QuantityTierPricingStrategy) *QuoteCalculator {
	return &QuoteCalculator{area: area, tiers: tiers}
}

// DefaultQuoteCalculator creates a calculator with the standard store rates
func DefaultQuoteCalculator() *QuoteCalculator {
	return NewQuoteCalculator(
		DefaultPlacementAreaPricingStrategy(),
		DefaultQuantityTierPricingStrategy(),
	)
}

// Quote calculates the full price for a design order context
func (c *QuoteCalculator) Quote(ctx context.Context, pricingCtx strategy.PricingContext) (strategy.PricingResult, error) {
	areaResult, err := c.area.CalculatePrice(ctx, pricingCtx)
	if err != nil {
		return strategy.PricingResult{}, err
	}

	// Volume discount applies to the unit price including placement charges
	tierCtx := pricingCtx
	tierCtx.BasePrice = areaResult.UnitPrice
	tierResult, err := c.tiers.CalculatePrice(ctx, tierCtx)
	if err != nil {
		return strategy.PricingResult{}, err
	}

	return strategy.PricingResult{
		UnitPrice:       tierResult.UnitPrice,
		PlacementCharge: areaResult.PlacementCharge,
		TotalPrice:      tierResult.TotalPrice.Round(2),
		DiscountAmount:  tierResult.DiscountAmount.Round(2),
		DiscountPercent: tierResult.DiscountPercent,
		Currency:        pricingCtx.Currency,
		AppliedRules:    append(areaResult.AppliedRules, tierResult.AppliedRules...),
	}, nil
}
