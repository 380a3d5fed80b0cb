package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
)

// DefaultCurrency is the storefront's base currency.
const DefaultCurrency = USD

// Money is an immutable amount in a single currency. Arithmetic
// returns new values; mixing currencies is an error.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the given amount and currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float64 value.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromInt creates Money from whole units.
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// NewMoneyFromString parses a decimal string into Money.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyUSD creates Money in the base currency.
func NewMoneyUSD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// NewMoneyUSDFromFloat creates base-currency Money from a float64.
func NewMoneyUSDFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: USD}
}

// NewMoneyUSDFromString parses a decimal string into base-currency Money.
func NewMoneyUSDFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: USD}, nil
}

// Zero returns zero Money in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroUSD returns zero Money in the base currency.
func ZeroUSD() Money {
	return Zero(USD)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Currency { return m.currency }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// with derives a Money in the same currency.
func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

func (m Money) requireSameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

// Add returns the sum. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

// MustAdd is Add that panics on currency mismatch. For use where both
// operands are known to share a currency.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns the difference. Currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.requireSameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Sub(other.amount)), nil
}

// MustSubtract is Subtract that panics on currency mismatch.
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply scales the amount by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.with(m.amount.Mul(factor))
}

// MultiplyByInt scales the amount by an integer factor.
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// MultiplyByFloat scales the amount by a float factor.
func (m Money) MultiplyByFloat(factor float64) Money {
	return m.Multiply(decimal.NewFromFloat(factor))
}

// Divide splits the amount by divisor. Zero divisors are rejected.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return m.with(m.amount.Div(divisor)), nil
}

// Negate flips the sign.
func (m Money) Negate() Money {
	return m.with(m.amount.Neg())
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	return m.with(m.amount.Abs())
}

// Round rounds half away from zero to the given decimal places.
func (m Money) Round(places int32) Money {
	return m.with(m.amount.Round(places))
}

// Truncate drops digits beyond the given decimal places.
func (m Money) Truncate(places int32) Money {
	return m.with(m.amount.Truncate(places))
}

// Equals reports whether amount and currency both match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan compares amounts. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.requireSameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// LessThanOrEqual compares amounts. Currencies must match.
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	if err := m.requireSameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThanOrEqual(other.amount), nil
}

// GreaterThan compares amounts. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.requireSameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterThanOrEqual compares amounts. Currencies must match.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if err := m.requireSameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// String renders "123.45 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed renders the amount with fixed decimal places.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Float64 returns the amount as a float64. Precision may be lost.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON renders the amount as a string to keep precision.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON fills the receiver without currency validation, for
// request binding. Use ParseMoneyFromJSON when an empty currency must
// be rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}

// ParseMoneyFromJSON parses and validates a Money document.
func ParseMoneyFromJSON(data []byte) (Money, error) {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return Money{}, fmt.Errorf("failed to parse money JSON: %w", err)
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount: %w", err)
	}
	return NewMoney(amount, v.Currency)
}

// Value stores the amount as a decimal string. Currency lives in its
// own column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan reads the amount from a numeric column. The currency falls back
// to DefaultCurrency when the receiver has none.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Allocate splits the amount into parts that sum exactly to the
// original. Leftover cents go to the earliest parts.
func (m Money) Allocate(parts int) ([]Money, error) {
	if parts <= 0 {
		return nil, errors.New("parts must be positive")
	}
	if parts == 1 {
		return []Money{m}, nil
	}

	base := m.amount.Div(decimal.NewFromInt(int64(parts))).Truncate(2)
	remainder := m.amount.Sub(base.Mul(decimal.NewFromInt(int64(parts))))
	remainderCents := remainder.Mul(decimal.NewFromInt(100)).IntPart()

	result := make([]Money, parts)
	for i := range parts {
		amount := base
		if int64(i) < remainderCents {
			amount = amount.Add(decimal.NewFromFloat(0.01))
		}
		result[i] = m.with(amount)
	}
	return result, nil
}

// CalculatePercentage returns percent of the amount.
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return m.with(m.amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// ApplyDiscount reduces the amount by a percentage.
func (m Money) ApplyDiscount(discountPercent decimal.Decimal) Money {
	return m.MustSubtract(m.CalculatePercentage(discountPercent))
}
