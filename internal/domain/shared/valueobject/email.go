package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/crediya/loans/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email is a value object for an applicant email address.
type Email struct {
	address string
}

// NewEmail creates an Email, validating the format
func NewEmail(address string) (Email, error) {
	address = strings.TrimSpace(address)
	if !emailPattern.MatchString(address) {
		return Email{}, shared.NewDomainError("INVALID_EMAIL", "invalid email format")
	}
	return Email{address: strings.ToLower(address)}, nil
}

// MustEmail creates an Email and panics on invalid input. For tests and seed data.
func MustEmail(address string) Email {
	e, err := NewEmail(address)
	if err != nil {
		panic(err)
	}
	return e
}

// Address returns the normalized email address
func (e Email) Address() string {
	return e.address
}

// IsZero returns true if the email is unset
func (e Email) IsZero() bool {
	return e.address == ""
}

// String returns the email address
func (e Email) String() string {
	return e.address
}

// MarshalJSON implements json.Marshaler
func (e Email) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.address)
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Email) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewEmail(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (e Email) Value() (driver.Value, error) {
	return e.address, nil
}

// Scan implements sql.Scanner for database retrieval
func (e *Email) Scan(value any) error {
	switch v := value.(type) {
	case string:
		e.address = v
	case []byte:
		e.address = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Email", value)
	}
	return nil
}
