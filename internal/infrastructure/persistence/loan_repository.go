package persistence

import (
	"context"
	"errors"

	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLoanRepository implements loan.Repository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Save persists the loan, assigning an identity on first save
func (r *GormLoanRepository) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	saved := *l
	if saved.ID == uuid.Nil {
		saved.BaseEntity = shared.NewBaseEntity()
		if err := r.db.WithContext(ctx).Create(&saved).Error; err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err := r.db.WithContext(ctx).Save(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	var l loan.Loan
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrLoanNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindAll returns every loan, newest first
func (r *GormLoanRepository) FindAll(ctx context.Context) ([]*loan.Loan, error) {
	var loans []*loan.Loan
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// approvedRow is the scan target for the approved loans join
type approvedRow struct {
	Amount       decimal.Decimal
	TermMonths   int
	InterestRate decimal.Decimal
}

const approvedByEmailSQL = `
SELECT l.amount, l.term_months, t.annual_interest_percent AS interest_rate
FROM loan l
JOIN loan_type t ON t.id = l.id_type_loan
JOIN loan_state s ON s.id = l.id_state_loan
WHERE l.email = ? AND s.name = ?`

// FindApprovedByEmail returns the applicant's approved loans joined with
// the rate and term of their products
func (r *GormLoanRepository) FindApprovedByEmail(ctx context.Context, email valueobject.Email) ([]loan.LoanApproved, error) {
	var rows []approvedRow
	if err := r.db.WithContext(ctx).
		Raw(approvedByEmailSQL, email.Address(), loan.StateApproved).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	approved := make([]loan.LoanApproved, 0, len(rows))
	for _, row := range rows {
		entry, err := toLoanApproved(row)
		if err != nil {
			return nil, err
		}
		approved = append(approved, entry)
	}
	return approved, nil
}

func toLoanApproved(row approvedRow) (loan.LoanApproved, error) {
	amount, err := valueobject.NewMoney(row.Amount)
	if err != nil {
		return loan.LoanApproved{}, err
	}
	term, err := valueobject.NewTermMonths(row.TermMonths)
	if err != nil {
		return loan.LoanApproved{}, err
	}
	rate, err := valueobject.NewInterestRate(row.InterestRate)
	if err != nil {
		return loan.LoanApproved{}, err
	}
	return loan.LoanApproved{Amount: amount, TermMonths: term, InterestRate: rate}, nil
}

// manualReviewRow is the scan target for the review listing query
type manualReviewRow struct {
	ID                  uuid.UUID
	Amount              decimal.Decimal
	TermMonths          int
	Email               string
	TypeLoan            string
	InterestRateMonthly decimal.Decimal
	State               string
	TotalMonthlyDebt    decimal.Decimal
}

// The correlated subquery amortizes every approved loan of the same
// applicant. A zero rate degrades to a straight division so POWER never
// produces a zero denominator.
const manualReviewSQL = `
SELECT
	l.id,
	l.amount,
	l.term_months,
	l.email,
	t.name AS type_loan,
	(t.annual_interest_percent / 12.0 / 100.0)::numeric AS interest_rate_monthly,
	s.name AS state,
	(
		SELECT COALESCE(SUM(
			CASE WHEN t2.annual_interest_percent = 0
			THEN ROUND(l2.amount / l2.term_months, 2)
			ELSE ROUND(
				l2.amount * (t2.annual_interest_percent / 12 / 100)
				* POWER(1 + t2.annual_interest_percent / 12 / 100, l2.term_months)
				/ (POWER(1 + t2.annual_interest_percent / 12 / 100, l2.term_months) - 1), 2)
			END), 0)
		FROM loan l2
		JOIN loan_type t2 ON t2.id = l2.id_type_loan
		JOIN loan_state s2 ON s2.id = l2.id_state_loan
		WHERE l2.email = l.email AND s2.name = ?
	) AS total_monthly_debt
FROM loan l
JOIN loan_type t ON t.id = l.id_type_loan
JOIN loan_state s ON s.id = l.id_state_loan
WHERE s.name = ANY(?)
	AND (? = '' OR l.email ILIKE ?)
	AND (?::uuid IS NULL OR l.id_type_loan = ?::uuid)
	AND (?::numeric IS NULL OR l.amount >= ?::numeric)
	AND (?::numeric IS NULL OR l.amount <= ?::numeric)
ORDER BY l.created_at DESC
OFFSET ? LIMIT ?`

const manualReviewCountSQL = `
SELECT COUNT(*)
FROM loan l
JOIN loan_state s ON s.id = l.id_state_loan
WHERE s.name = ANY(?)
	AND (? = '' OR l.email ILIKE ?)
	AND (?::uuid IS NULL OR l.id_type_loan = ?::uuid)
	AND (?::numeric IS NULL OR l.amount >= ?::numeric)
	AND (?::numeric IS NULL OR l.amount <= ?::numeric)`

// FindForManualReview returns the filtered, paginated review listing with
// the total row count before pagination
func (r *GormLoanRepository) FindForManualReview(ctx context.Context, filter loan.ManualReviewFilter) (shared.Paginated[loan.LoanSummary], error) {
	states := pq.Array(filter.States)
	pattern := "%" + filter.Search + "%"

	var total int64
	if err := r.db.WithContext(ctx).
		Raw(manualReviewCountSQL,
			states, filter.Search, pattern,
			filter.TypeLoanID, filter.TypeLoanID,
			filter.MinAmount, filter.MinAmount,
			filter.MaxAmount, filter.MaxAmount).
		Scan(&total).Error; err != nil {
		return shared.Paginated[loan.LoanSummary]{}, err
	}

	var rows []manualReviewRow
	if err := r.db.WithContext(ctx).
		Raw(manualReviewSQL,
			loan.StateApproved, states, filter.Search, pattern,
			filter.TypeLoanID, filter.TypeLoanID,
			filter.MinAmount, filter.MinAmount,
			filter.MaxAmount, filter.MaxAmount,
			filter.Offset(), filter.Size).
		Scan(&rows).Error; err != nil {
		return shared.Paginated[loan.LoanSummary]{}, err
	}

	summaries := make([]loan.LoanSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := toLoanSummary(row)
		if err != nil {
			return shared.Paginated[loan.LoanSummary]{}, err
		}
		summaries = append(summaries, summary)
	}
	return shared.NewPaginated(summaries, total, filter.Page, filter.Size), nil
}

func toLoanSummary(row manualReviewRow) (loan.LoanSummary, error) {
	amount, err := valueobject.NewMoney(row.Amount)
	if err != nil {
		return loan.LoanSummary{}, err
	}
	term, err := valueobject.NewTermMonths(row.TermMonths)
	if err != nil {
		return loan.LoanSummary{}, err
	}
	email, err := valueobject.NewEmail(row.Email)
	if err != nil {
		return loan.LoanSummary{}, err
	}
	return loan.LoanSummary{
		LoanID:              row.ID,
		Amount:              amount,
		TermMonths:          term,
		Email:               email,
		TypeLoan:            row.TypeLoan,
		InterestRateMonthly: row.InterestRateMonthly,
		State:               row.State,
		TotalMonthlyDebt:    row.TotalMonthlyDebt,
	}, nil
}

// Ensure GormLoanRepository implements loan.Repository
var _ loan.Repository = (*GormLoanRepository)(nil)
