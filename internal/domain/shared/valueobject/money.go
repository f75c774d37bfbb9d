package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/crediya/loans/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Money is a value object for monetary amounts.
// It is immutable, non-negative, and normalized to 2 decimal places (half-up).
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal amount
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT", "amount must be >= 0")
	}
	return Money{amount: amount.Round(2)}, nil
}

// NewMoneyFromString creates a Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("invalid amount: %s", amount))
	}
	return NewMoney(d)
}

// NewMoneyFromFloat creates a Money from a float64 value
func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

// MustMoney creates a Money and panics on invalid input. For tests and seed data.
func MustMoney(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero-value Money
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Between returns true if min <= m <= max (inclusive bounds, full precision)
func (m Money) Between(min, max Money) bool {
	return !m.amount.LessThan(min.amount) && !m.amount.GreaterThan(max.amount)
}

// Equals returns true if both Money values carry the same amount
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with fixed 2 decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.StringFixed(2))
}

// UnmarshalJSON implements json.Unmarshaler. Amounts arrive as JSON strings
// or bare numbers; both are accepted.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var d decimal.Decimal
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		parsed, perr := NewMoney(d)
		if perr != nil {
			return perr
		}
		*m = parsed
		return nil
	}
	parsed, err := NewMoneyFromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval. Database columns are
// constrained non-negative, so values are assigned without revalidation.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		m.amount = decimal.NewFromFloat(v).Round(2)
		return nil
	case int64:
		m.amount = decimal.NewFromInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	return nil
}
