package loan

import (
	"context"

	"github.com/crediya/loans/internal/domain/loan"
)

// TxRepositories exposes the loan stores bound to one unit of work. Every
// call made through them joins the same transaction.
type TxRepositories interface {
	Loans() loan.Repository
	TypeLoans() loan.TypeRepository
	StateLoans() loan.StateRepository
}

// TxRunner opens a unit of work lazily, runs the function exactly once and
// commits or rolls back on its error. Errors from the function come back
// unchanged.
type TxRunner interface {
	// Required runs fn inside a read-write transaction.
	Required(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
	// ReadOnly runs fn inside a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
