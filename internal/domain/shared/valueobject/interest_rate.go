package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/crediya/loans/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InterestRate is a value object for an annual interest rate expressed as a percentage.
// It is immutable and must be >= 0.
type InterestRate struct {
	annualPercent decimal.Decimal
}

// NewInterestRate creates an InterestRate from a decimal annual percentage
func NewInterestRate(annualPercent decimal.Decimal) (InterestRate, error) {
	if annualPercent.IsNegative() {
		return InterestRate{}, shared.NewDomainError("INVALID_INTEREST", "interest rate must be >= 0")
	}
	return InterestRate{annualPercent: annualPercent}, nil
}

// NewInterestRateFromString creates an InterestRate from a string representation
func NewInterestRateFromString(annualPercent string) (InterestRate, error) {
	d, err := decimal.NewFromString(annualPercent)
	if err != nil {
		return InterestRate{}, shared.NewDomainError("INVALID_INTEREST", fmt.Sprintf("invalid interest rate: %s", annualPercent))
	}
	return NewInterestRate(d)
}

// MustInterestRate creates an InterestRate and panics on invalid input. For tests and seed data.
func MustInterestRate(annualPercent string) InterestRate {
	r, err := NewInterestRateFromString(annualPercent)
	if err != nil {
		panic(err)
	}
	return r
}

// AnnualPercent returns the annual percentage
func (r InterestRate) AnnualPercent() decimal.Decimal {
	return r.annualPercent
}

// Monthly returns the rate as a monthly fraction (annual / 12 / 100, 10 decimal places).
// Used by the amortizing payment formula.
func (r InterestRate) Monthly() decimal.Decimal {
	return r.annualPercent.
		DivRound(decimal.NewFromInt(12), 10).
		DivRound(decimal.NewFromInt(100), 10)
}

// IsZero returns true if the rate is zero
func (r InterestRate) IsZero() bool {
	return r.annualPercent.IsZero()
}

// String returns the annual percentage as a string
func (r InterestRate) String() string {
	return r.annualPercent.String()
}

// MarshalJSON implements json.Marshaler
func (r InterestRate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.annualPercent.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (r *InterestRate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var d decimal.Decimal
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		parsed, perr := NewInterestRate(d)
		if perr != nil {
			return perr
		}
		*r = parsed
		return nil
	}
	parsed, err := NewInterestRateFromString(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (r InterestRate) Value() (driver.Value, error) {
	return r.annualPercent.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (r *InterestRate) Scan(value any) error {
	if value == nil {
		r.annualPercent = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		r.annualPercent = decimal.NewFromFloat(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into InterestRate", value)
	}

	rate, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	r.annualPercent = rate
	return nil
}
