package pricing

import (
	"context"
	"sort"

	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// DiscountTier represents a quantity threshold and its discount percentage
type DiscountTier struct {
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// QuantityTierPricingStrategy applies volume discounts: the discount of the
// highest tier whose MinQuantity is satisfied is applied to the unit price.
type QuantityTierPricingStrategy struct {
	strategy.BaseStrategy
	tiers []DiscountTier
}

// NewQuantityTierPricingStrategy creates a quantity-tier strategy.
// Tiers may be provided in any order; they are sorted by min quantity.
func NewQuantityTierPricingStrategy(tiers []DiscountTier) *QuantityTierPricingStrategy {
	sortedTiers := make([]DiscountTier, len(tiers))
	copy(sortedTiers, tiers)
	sort.Slice(sortedTiers, func(i, j int) bool {
		return sortedTiers[i].MinQuantity.LessThan(sortedTiers[j].MinQuantity)
	})

	return &QuantityTierPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"quantity_tier",
			strategy.StrategyTypePricing,
			"Volume discounts based on quantity thresholds",
		),
		tiers: sortedTiers,
	}
}

// DefaultQuantityTierPricingStrategy creates the standard store tiers:
//   - 5% discount for quantity >= 10
//   - 10% discount for quantity >= 25
//   - 15% discount for quantity >= 50
func DefaultQuantityTierPricingStrategy() *QuantityTierPricingStrategy {
	return NewQuantityTierPricingStrategy([]DiscountTier{
		{MinQuantity: decimal.NewFromInt(10), DiscountPercent: decimal.NewFromInt(5)},
		{MinQuantity: decimal.NewFromInt(25), DiscountPercent: decimal.NewFromInt(10)},
		{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(15)},
	})
}

// GetTiers returns a copy of the discount tiers
func (s *QuantityTierPricingStrategy) GetTiers() []DiscountTier {
	result := make([]DiscountTier, len(s.tiers))
	copy(result, s.tiers)
	return result
}

// DiscountForQuantity returns the discount percentage for a quantity
func (s *QuantityTierPricingStrategy) DiscountForQuantity(quantity decimal.Decimal) decimal.Decimal {
	for i := len(s.tiers) - 1; i >= 0; i-- {
		if quantity.GreaterThanOrEqual(s.tiers[i].MinQuantity) {
			return s.tiers[i].DiscountPercent
		}
	}
	return decimal.Zero
}

// CalculatePrice applies the applicable volume discount to the unit price
// in BasePrice (which for design quotes already includes placement charges)
func (s *QuantityTierPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	discountPercent := s.DiscountForQuantity(pricingCtx.Quantity)

	discountMultiplier := decimal.NewFromInt(1).Sub(discountPercent.Div(decimal.NewFromInt(100)))
	unitPrice := pricingCtx.BasePrice.Mul(discountMultiplier).Round(4)
	totalPrice := unitPrice.Mul(pricingCtx.Quantity)

	baseTotalPrice := pricingCtx.BasePrice.Mul(pricingCtx.Quantity)
	discountAmount := baseTotalPrice.Sub(totalPrice)

	appliedRules := []string{}
	if discountPercent.GreaterThan(decimal.Zero) {
		appliedRules = append(appliedRules, "quantity_tier_discount")
	}

	return strategy.PricingResult{
		UnitPrice:       unitPrice,
		TotalPrice:      totalPrice,
		DiscountAmount:  discountAmount,
		DiscountPercent: discountPercent,
		Currency:        pricingCtx.Currency,
		AppliedRules:    appliedRules,
	}, nil
}

// SupportsTieredPricing returns true: this strategy is quantity-based
func (s *QuantityTierPricingStrategy) SupportsTieredPricing() bool {
	return true
}
