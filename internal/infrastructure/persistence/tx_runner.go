package persistence

import (
	"context"
	"database/sql"

	apploan "github.com/crediya/loans/internal/application/loan"
	"github.com/crediya/loans/internal/domain/loan"
	"gorm.io/gorm"
)

// CatalogDecorator wraps the catalog repositories handed to a unit of work,
// typically with a cache. The loan repository is never decorated.
type CatalogDecorator interface {
	WrapStates(inner loan.StateRepository) loan.StateRepository
	WrapTypes(inner loan.TypeRepository) loan.TypeRepository
}

// GormTxRunner implements TxRunner using GORM transactions. The transaction
// opens when the function runs, commits on nil and rolls back on error. The
// function's error is passed through untouched.
type GormTxRunner struct {
	db      *gorm.DB
	catalog CatalogDecorator
}

// GormTxRunnerOption configures a GormTxRunner
type GormTxRunnerOption func(*GormTxRunner)

// WithCatalogDecorator decorates the state and type repositories of every
// unit of work, for example with a Redis cache.
func WithCatalogDecorator(decorator CatalogDecorator) GormTxRunnerOption {
	return func(r *GormTxRunner) {
		r.catalog = decorator
	}
}

// NewGormTxRunner creates a new GormTxRunner.
func NewGormTxRunner(db *gorm.DB, opts ...GormTxRunnerOption) *GormTxRunner {
	r := &GormTxRunner{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Required runs the given function within a read-write transaction.
func (r *GormTxRunner) Required(ctx context.Context, fn func(ctx context.Context, repos apploan.TxRepositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTxRepositories{tx: tx, catalog: r.catalog})
	})
}

// ReadOnly runs the given function within a read-only transaction.
func (r *GormTxRunner) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos apploan.TxRepositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTxRepositories{tx: tx, catalog: r.catalog})
	}, &sql.TxOptions{ReadOnly: true})
}

// gormTxRepositories provides access to all repositories within a transaction.
type gormTxRepositories struct {
	tx      *gorm.DB
	catalog CatalogDecorator
}

// Loans returns the loan repository scoped to the current transaction.
func (r *gormTxRepositories) Loans() loan.Repository {
	return NewGormLoanRepository(r.tx)
}

// TypeLoans returns the loan type repository scoped to the current transaction.
func (r *gormTxRepositories) TypeLoans() loan.TypeRepository {
	repo := NewGormTypeLoanRepository(r.tx)
	if r.catalog != nil {
		return r.catalog.WrapTypes(repo)
	}
	return repo
}

// StateLoans returns the loan state repository scoped to the current transaction.
func (r *gormTxRepositories) StateLoans() loan.StateRepository {
	repo := NewGormStateLoanRepository(r.tx)
	if r.catalog != nil {
		return r.catalog.WrapStates(repo)
	}
	return repo
}

// Ensure GormTxRunner implements TxRunner
var _ apploan.TxRunner = (*GormTxRunner)(nil)

// Ensure gormTxRepositories implements TxRepositories
var _ apploan.TxRepositories = (*gormTxRepositories)(nil)
