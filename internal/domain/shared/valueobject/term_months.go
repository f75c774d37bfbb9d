package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/crediya/loans/internal/domain/shared"
)

// TermMonths is a value object for a loan term. It must be at least one month.
type TermMonths struct {
	months int
}

// NewTermMonths creates a TermMonths
func NewTermMonths(months int) (TermMonths, error) {
	if months < 1 {
		return TermMonths{}, shared.NewDomainError("INVALID_TERM_MONTHS", "term must be >= 1 month")
	}
	return TermMonths{months: months}, nil
}

// MustTermMonths creates a TermMonths and panics on invalid input. For tests and seed data.
func MustTermMonths(months int) TermMonths {
	t, err := NewTermMonths(months)
	if err != nil {
		panic(err)
	}
	return t
}

// Months returns the number of months
func (t TermMonths) Months() int {
	return t.months
}

// String returns the term as a string
func (t TermMonths) String() string {
	return fmt.Sprintf("%d", t.months)
}

// MarshalJSON implements json.Marshaler
func (t TermMonths) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.months)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TermMonths) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewTermMonths(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (t TermMonths) Value() (driver.Value, error) {
	return int64(t.months), nil
}

// Scan implements sql.Scanner for database retrieval
func (t *TermMonths) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		t.months = int(v)
	case int:
		t.months = v
	case []byte:
		var parsed int
		if _, err := fmt.Sscanf(string(v), "%d", &parsed); err != nil {
			return fmt.Errorf("invalid term value: %w", err)
		}
		t.months = parsed
	default:
		return fmt.Errorf("cannot scan %T into TermMonths", value)
	}
	return nil
}
