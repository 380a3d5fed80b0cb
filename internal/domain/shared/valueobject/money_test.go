package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(19.99), USD)

		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")

		assert.EqualError(t, err, "currency cannot be empty")
	})
}

func TestMoneyConstructors(t *testing.T) {
	t.Run("from float", func(t *testing.T) {
		m, err := NewMoneyFromFloat(24.50, EUR)

		require.NoError(t, err)
		assert.Equal(t, 24.50, m.Float64())
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("from int", func(t *testing.T) {
		m, err := NewMoneyFromInt(100, GBP)

		require.NoError(t, err)
		assert.Equal(t, "100.00", m.StringFixed(2))
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("19.99", USD)

		require.NoError(t, err)
		assert.Equal(t, "19.99", m.StringFixed(2))
	})

	t.Run("from invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)

		assert.ErrorContains(t, err, "invalid amount string")
	})

	t.Run("usd shortcuts", func(t *testing.T) {
		a := NewMoneyUSD(decimal.NewFromFloat(9.99))
		b := NewMoneyUSDFromFloat(9.99)

		assert.True(t, a.Equals(b))
		assert.Equal(t, USD, a.Currency())
	})

	t.Run("usd from string", func(t *testing.T) {
		m, err := NewMoneyUSDFromString("45.00")

		require.NoError(t, err)
		assert.Equal(t, "45.00", m.StringFixed(2))

		_, err = NewMoneyUSDFromString("bad")
		assert.ErrorContains(t, err, "invalid amount string")
	})

	t.Run("zero values", func(t *testing.T) {
		assert.True(t, Zero(CAD).IsZero())
		assert.Equal(t, CAD, Zero(CAD).Currency())
		assert.True(t, ZeroUSD().IsZero())
		assert.Equal(t, USD, ZeroUSD().Currency())
	})
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSDFromFloat(0.01).IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-0.01).IsNegative())
	assert.False(t, NewMoneyUSDFromFloat(0.01).IsNegative())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum, err := NewMoneyUSDFromFloat(10.50).Add(NewMoneyUSDFromFloat(4.25))

		require.NoError(t, err)
		assert.Equal(t, "14.75", sum.StringFixed(2))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		usd := NewMoneyUSDFromFloat(10)
		eur, err := NewMoneyFromFloat(10, EUR)
		require.NoError(t, err)

		_, err = usd.Add(eur)
		assert.ErrorContains(t, err, "different currencies")
	})
}

func TestMoneyMustAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum := NewMoneyUSDFromFloat(1.10).MustAdd(NewMoneyUSDFromFloat(2.20))

		assert.Equal(t, "3.30", sum.StringFixed(2))
	})

	t.Run("panics for different currencies", func(t *testing.T) {
		usd := NewMoneyUSDFromFloat(1)
		cad, err := NewMoneyFromFloat(1, CAD)
		require.NoError(t, err)

		assert.Panics(t, func() {
			usd.MustAdd(cad)
		})
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		diff, err := NewMoneyUSDFromFloat(20).Subtract(NewMoneyUSDFromFloat(5.50))

		require.NoError(t, err)
		assert.Equal(t, "14.50", diff.StringFixed(2))
	})

	t.Run("can go negative", func(t *testing.T) {
		diff, err := NewMoneyUSDFromFloat(5).Subtract(NewMoneyUSDFromFloat(10))

		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		usd := NewMoneyUSDFromFloat(20)
		gbp, err := NewMoneyFromFloat(5, GBP)
		require.NoError(t, err)

		_, err = usd.Subtract(gbp)
		assert.ErrorContains(t, err, "different currencies")
	})
}

func TestMoneyMustSubtract(t *testing.T) {
	diff := NewMoneyUSDFromFloat(10).MustSubtract(NewMoneyUSDFromFloat(4))
	assert.Equal(t, "6.00", diff.StringFixed(2))

	usd := NewMoneyUSDFromFloat(10)
	aud, err := NewMoneyFromFloat(4, AUD)
	require.NoError(t, err)

	assert.Panics(t, func() {
		usd.MustSubtract(aud)
	})
}

func TestMoneyMultiply(t *testing.T) {
	base := NewMoneyUSDFromFloat(19.99)

	t.Run("by decimal", func(t *testing.T) {
		assert.Equal(t, "59.97", base.Multiply(decimal.NewFromInt(3)).StringFixed(2))
	})

	t.Run("by int", func(t *testing.T) {
		assert.Equal(t, "39.98", base.MultiplyByInt(2).StringFixed(2))
	})

	t.Run("by float", func(t *testing.T) {
		assert.Equal(t, "9.99", base.MultiplyByFloat(0.5).Round(2).StringFixed(2))
	})
}

func TestMoneyDivide(t *testing.T) {
	t.Run("divides the amount", func(t *testing.T) {
		result, err := NewMoneyUSDFromFloat(10).Divide(decimal.NewFromInt(4))

		require.NoError(t, err)
		assert.Equal(t, "2.50", result.StringFixed(2))
	})

	t.Run("rejects zero divisor", func(t *testing.T) {
		_, err := NewMoneyUSDFromFloat(10).Divide(decimal.Zero)

		assert.EqualError(t, err, "cannot divide by zero")
	})
}

func TestMoneyNegateAbs(t *testing.T) {
	m := NewMoneyUSDFromFloat(5.25)

	negated := m.Negate()
	assert.True(t, negated.IsNegative())
	assert.Equal(t, "5.25", negated.Abs().StringFixed(2))
}

func TestMoneyRounding(t *testing.T) {
	m := NewMoneyUSDFromFloat(10.567)

	assert.Equal(t, "10.57", m.Round(2).StringFixed(2))
	assert.Equal(t, "10.56", m.Truncate(2).StringFixed(2))
}

func TestMoneyEquals(t *testing.T) {
	a := NewMoneyUSDFromFloat(9.99)
	b := NewMoneyUSDFromFloat(9.99)
	c := NewMoneyUSDFromFloat(10.00)

	eur, err := NewMoneyFromFloat(9.99, EUR)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(eur))
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(5)
	large := NewMoneyUSDFromFloat(10)

	t.Run("less than", func(t *testing.T) {
		result, err := small.LessThan(large)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("less than or equal", func(t *testing.T) {
		result, err := small.LessThanOrEqual(NewMoneyUSDFromFloat(5))
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("greater than", func(t *testing.T) {
		result, err := large.GreaterThan(small)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("greater than or equal", func(t *testing.T) {
		result, err := large.GreaterThanOrEqual(large)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		eur, err := NewMoneyFromFloat(5, EUR)
		require.NoError(t, err)

		_, err = small.LessThan(eur)
		assert.ErrorContains(t, err, "cannot compare money with different currencies")
	})
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyUSDFromFloat(123.45)

	assert.Equal(t, "123.45 USD", m.String())
	assert.Equal(t, "123.450", m.StringFixed(3))
	assert.Equal(t, 123.45, m.Float64())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount as string", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(19.99)

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"19.99","currency":"USD"}`, string(data))
	})

	t.Run("unmarshals", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"42.50","currency":"EUR"}`), &m)

		require.NoError(t, err)
		assert.Equal(t, "42.50", m.StringFixed(2))
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("unmarshal rejects bad amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"oops","currency":"USD"}`), &m)

		assert.ErrorContains(t, err, "invalid amount")
	})

	t.Run("unmarshal allows empty currency", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"10.00"}`), &m)

		require.NoError(t, err)
		assert.Equal(t, Currency(""), m.Currency())
	})

	t.Run("round trips", func(t *testing.T) {
		original := NewMoneyUSDFromFloat(99.95)

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, original.Equals(decoded))
	})
}

func TestParseMoneyFromJSON(t *testing.T) {
	t.Run("parses a valid document", func(t *testing.T) {
		m, err := ParseMoneyFromJSON([]byte(`{"amount":"25.00","currency":"USD"}`))

		require.NoError(t, err)
		assert.Equal(t, "25.00", m.StringFixed(2))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseMoneyFromJSON([]byte(`{`))

		assert.ErrorContains(t, err, "failed to parse money JSON")
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		_, err := ParseMoneyFromJSON([]byte(`{"amount":"abc","currency":"USD"}`))

		assert.ErrorContains(t, err, "invalid amount")
	})

	t.Run("rejects missing currency", func(t *testing.T) {
		_, err := ParseMoneyFromJSON([]byte(`{"amount":"25.00"}`))

		assert.EqualError(t, err, "currency cannot be empty")
	})
}

func TestMoneyValue(t *testing.T) {
	m := NewMoneyUSDFromFloat(123.45)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "123.45", v)
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans a string", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("55.25"))

		assert.Equal(t, "55.25", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("12.00")))

		assert.Equal(t, "12.00", m.StringFixed(2))
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))

		assert.True(t, m.IsZero())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("keeps an existing currency", func(t *testing.T) {
		m, err := NewMoneyFromInt(0, EUR)
		require.NoError(t, err)
		require.NoError(t, m.Scan("7.50"))

		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var m Money
		err := m.Scan(42)

		assert.ErrorContains(t, err, "cannot scan int into Money")
	})

	t.Run("rejects invalid decimals", func(t *testing.T) {
		var m Money
		err := m.Scan("not-a-number")

		assert.ErrorContains(t, err, "invalid decimal value")
	})
}

func TestMoneyAllocate(t *testing.T) {
	t.Run("splits evenly", func(t *testing.T) {
		parts, err := NewMoneyUSDFromFloat(30).Allocate(3)

		require.NoError(t, err)
		require.Len(t, parts, 3)
		for _, p := range parts {
			assert.Equal(t, "10.00", p.StringFixed(2))
		}
	})

	t.Run("distributes leftover cents to earliest parts", func(t *testing.T) {
		parts, err := NewMoneyUSDFromFloat(10).Allocate(3)

		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.Equal(t, "3.34", parts[0].StringFixed(2))
		assert.Equal(t, "3.33", parts[1].StringFixed(2))
		assert.Equal(t, "3.33", parts[2].StringFixed(2))

		total := ZeroUSD()
		for _, p := range parts {
			total = total.MustAdd(p)
		}
		assert.Equal(t, "10.00", total.StringFixed(2))
	})

	t.Run("single part returns the original", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(7.77)
		parts, err := m.Allocate(1)

		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, m.Equals(parts[0]))
	})

	t.Run("rejects non-positive parts", func(t *testing.T) {
		_, err := NewMoneyUSDFromFloat(10).Allocate(0)
		assert.EqualError(t, err, "parts must be positive")

		_, err = NewMoneyUSDFromFloat(10).Allocate(-2)
		assert.EqualError(t, err, "parts must be positive")
	})
}

func TestMoneyCalculatePercentage(t *testing.T) {
	m := NewMoneyUSDFromFloat(200)

	assert.Equal(t, "30.00", m.CalculatePercentage(decimal.NewFromInt(15)).StringFixed(2))
	assert.Equal(t, "0.00", m.CalculatePercentage(decimal.Zero).StringFixed(2))
}

func TestMoneyApplyDiscount(t *testing.T) {
	m := NewMoneyUSDFromFloat(100)

	assert.Equal(t, "90.00", m.ApplyDiscount(decimal.NewFromInt(10)).StringFixed(2))
	assert.Equal(t, "100.00", m.ApplyDiscount(decimal.Zero).StringFixed(2))
	assert.Equal(t, "0.00", m.ApplyDiscount(decimal.NewFromInt(100)).StringFixed(2))
}
