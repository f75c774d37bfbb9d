package customer

import (
	"context"

	"github.com/crediya/loans/internal/domain/shared/valueobject"
)

// UserData is the identity snapshot of an applicant as served by the
// identity service. It is never persisted here.
type UserData struct {
	Name     string            `json:"name"`
	LastName string            `json:"lastName"`
	Email    valueobject.Email `json:"email"`
	Salary   valueobject.Money `json:"salary"`
}

// FullName joins the first and last name for display purposes.
func (u UserData) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}

// Gateway resolves applicant identities against the identity service.
type Gateway interface {
	// ExistsByEmail reports whether an applicant is registered. Transport
	// failures degrade to false rather than an error.
	ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error)
	// FindByEmail fetches the applicant snapshot, forwarding the caller's
	// credentials. Returns shared.ErrCustomerNotFound when unknown.
	FindByEmail(ctx context.Context, email valueobject.Email) (*UserData, error)
}
