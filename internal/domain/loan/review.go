package loan

import (
	"github.com/shopspring/decimal"

	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DefaultReviewStates are the states an analyst sees when the filter does
// not name any.
func DefaultReviewStates() []string {
	return []string{StatePendingReview, StateRejected, StateManualReview}
}

// ManualReviewFilter narrows the manual review listing. Zero values and
// nil pointers mean no restriction, except States which falls back to
// DefaultReviewStates.
type ManualReviewFilter struct {
	Search     string
	States     []string
	TypeLoanID *uuid.UUID
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Page       int
	Size       int
}

// Normalize floors the page and size and applies the default states.
func (f ManualReviewFilter) Normalize() ManualReviewFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size < 1 {
		f.Size = 1
	}
	if len(f.States) == 0 {
		f.States = DefaultReviewStates()
	}
	return f
}

// Offset is the row offset implied by the normalized page and size.
func (f ManualReviewFilter) Offset() int {
	return f.Page * f.Size
}

// LoanSummary is one row of the manual review listing: the application
// joined with its product and state, enriched with the applicant snapshot
// and the applicant's aggregate monthly approved debt. FullName and
// BaseSalary stay nil when the applicant cannot be resolved, so consumers
// can tell an unknown applicant from one earning zero.
type LoanSummary struct {
	LoanID              uuid.UUID              `json:"loanId"`
	Amount              valueobject.Money      `json:"amount"`
	TermMonths          valueobject.TermMonths `json:"termMonths"`
	Email               valueobject.Email      `json:"email"`
	FullName            *string                `json:"fullName"`
	TypeLoan            string                 `json:"typeLoan"`
	InterestRateMonthly decimal.Decimal        `json:"interestRateMonthly"`
	State               string                 `json:"state"`
	BaseSalary          *decimal.Decimal       `json:"baseSalary"`
	TotalMonthlyDebt    decimal.Decimal        `json:"totalMonthlyDebt"`
}
