package pricing

import (
	"context"
	"testing"

	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityTierDiscountForQuantity(t *testing.T) {
	s := DefaultQuantityTierPricingStrategy()

	cases := []struct {
		quantity int64
		percent  int64
	}{
		{1, 0},
		{9, 0},
		{10, 5},
		{24, 5},
		{25, 10},
		{49, 10},
		{50, 15},
		{500, 15},
	}

	for _, tc := range cases {
		discount := s.DiscountForQuantity(decimal.NewFromInt(tc.quantity))
		assert.True(t, discount.Equal(decimal.NewFromInt(tc.percent)),
			"quantity %d: expected %d%%, got %s", tc.quantity, tc.percent, discount)
	}
}

func TestQuantityTierCalculatePrice(t *testing.T) {
	s := DefaultQuantityTierPricingStrategy()

	t.Run("no discount below first tier", func(t *testing.T) {
		result, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
			BasePrice: decimal.NewFromInt(100),
			Quantity:  decimal.NewFromInt(5),
			Currency:  "USD",
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.TotalPrice.Equal(decimal.NewFromInt(500)))
		assert.True(t, result.DiscountAmount.IsZero())
		assert.Empty(t, result.AppliedRules)
	})

	t.Run("applies highest satisfied tier", func(t *testing.T) {
		result, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
			BasePrice: decimal.NewFromInt(100),
			Quantity:  decimal.NewFromInt(25),
			Currency:  "USD",
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(decimal.NewFromInt(90)))
		assert.True(t, result.TotalPrice.Equal(decimal.NewFromInt(2250)))
		assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(250)))
		assert.Contains(t, result.AppliedRules, "quantity_tier_discount")
	})

	t.Run("sorts tiers provided out of order", func(t *testing.T) {
		s := NewQuantityTierPricingStrategy([]DiscountTier{
			{MinQuantity: decimal.NewFromInt(50), DiscountPercent: decimal.NewFromInt(20)},
			{MinQuantity: decimal.NewFromInt(5), DiscountPercent: decimal.NewFromInt(2)},
		})

		tiers := s.GetTiers()
		require.Len(t, tiers, 2)
		assert.True(t, tiers[0].MinQuantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, s.DiscountForQuantity(decimal.NewFromInt(60)).Equal(decimal.NewFromInt(20)))
	})

	t.Run("supports tiered pricing", func(t *testing.T) {
		assert.True(t, s.SupportsTieredPricing())
	})
}
