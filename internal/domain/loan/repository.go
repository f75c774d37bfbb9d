package loan

import (
	"context"

	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Repository persists loan applications and serves their read models.
type Repository interface {
	Save(ctx context.Context, l *Loan) (*Loan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindAll(ctx context.Context) ([]*Loan, error)
	// FindApprovedByEmail returns the applicant's approved loans joined
	// with the rate and term of their products.
	FindApprovedByEmail(ctx context.Context, email valueobject.Email) ([]LoanApproved, error)
	// FindForManualReview returns the filtered, paginated review listing
	// together with the total row count before pagination.
	FindForManualReview(ctx context.Context, filter ManualReviewFilter) (shared.Paginated[LoanSummary], error)
}

// TypeRepository serves the loan product catalog.
type TypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TypeLoan, error)
	FindByName(ctx context.Context, name string) (*TypeLoan, error)
}

// StateRepository serves the loan state catalog.
type StateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StateLoan, error)
	FindByName(ctx context.Context, name string) (*StateLoan, error)
}

// DebtCapacityPublisher hands an automatically validated application to the
// capacity calculator. A failed publish must fail the surrounding work.
type DebtCapacityPublisher interface {
	Publish(ctx context.Context, capacity DebtCapacity) error
}

// StatusNotifier tells the applicant that the application changed state.
type StatusNotifier interface {
	Notify(ctx context.Context, changed LoanStatusChanged) error
}
