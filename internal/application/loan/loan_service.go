package loan

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/crediya/loans/internal/domain/customer"
	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// enrichmentConcurrency bounds the identity lookups per review page.
const enrichmentConcurrency = 8

// StatusChangeResult carries the updated loan together with the applicant
// notification. Publishing the notification is the caller's job so that a
// delivery failure cannot undo the persisted change.
type StatusChangeResult struct {
	Loan         *LoanResponse
	Notification loan.LoanStatusChanged
}

// LoanService orchestrates the loan application lifecycle
type LoanService struct {
	tx        TxRunner
	customers customer.Gateway
	capacity  loan.DebtCapacityPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(tx TxRunner, customers customer.Gateway, capacity loan.DebtCapacityPublisher) *LoanService {
	return &LoanService{
		tx:        tx,
		customers: customers,
		capacity:  capacity,
	}
}

// Create files a new application. The applicant must be registered, the
// amount must fall inside the product range and the loan starts in
// PENDING_REVIEW. Products with automatic validation are additionally
// handed to the capacity calculator; if that publish fails the save is
// rolled back.
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}
	amount, err := valueobject.NewMoney(req.Amount)
	if err != nil {
		return nil, err
	}
	term, err := valueobject.NewTermMonths(req.TermMonths)
	if err != nil {
		return nil, err
	}

	candidate, err := loan.NewLoan(amount, term, email, req.TypeLoanID)
	if err != nil {
		return nil, err
	}

	var saved *loan.Loan
	err = s.tx.Required(ctx, func(ctx context.Context, repos TxRepositories) error {
		exists, err := s.customers.ExistsByEmail(ctx, candidate.Email)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrCustomerNotFound
		}
		product, err := repos.TypeLoans().FindByID(ctx, candidate.TypeLoanID)
		if err != nil {
			return err
		}
		if !product.AllowsAmount(candidate.Amount) {
			return shared.NewDomainError("AMOUNT_OUT_OF_RANGE",
				fmt.Sprintf("amount must be between %s and %s", product.MinAmount, product.MaxAmount))
		}
		pending, err := repos.StateLoans().FindByName(ctx, loan.StatePendingReview)
		if err != nil {
			if errors.Is(err, shared.ErrStateLoanNotFound) {
				return shared.ErrStatePendingReviewNotFound
			}
			return err
		}
		candidate = candidate.WithState(pending.ID)

		if !product.AutomaticValidation {
			saved, err = repos.Loans().Save(ctx, candidate)
			return err
		}

		var (
			user     *customer.UserData
			approved []loan.LoanApproved
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = s.customers.FindByEmail(gctx, candidate.Email)
			return err
		})
		g.Go(func() error {
			var err error
			approved, err = repos.Loans().FindApprovedByEmail(gctx, candidate.Email)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		saved, err = repos.Loans().Save(ctx, candidate)
		if err != nil {
			return err
		}
		return s.capacity.Publish(ctx, loan.DebtCapacity{
			Loan:          saved,
			User:          *user,
			ApprovedLoans: approved,
		})
	})
	if err != nil {
		return nil, err
	}
	return toLoanResponse(saved), nil
}

// ChangeStatus moves a loan to another state. The target state resolves by
// id first and falls back to the name. The notification is returned, not
// published here.
func (s *LoanService) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*StatusChangeResult, error) {
	var result StatusChangeResult
	err := s.tx.Required(ctx, func(ctx context.Context, repos TxRepositories) error {
		current, err := repos.Loans().FindByID(ctx, req.LoanID)
		if err != nil {
			return err
		}
		state, err := s.resolveState(ctx, repos, req)
		if err != nil {
			return err
		}
		saved, err := repos.Loans().Save(ctx, current.WithState(state.ID))
		if err != nil {
			return err
		}

		var (
			product *loan.TypeLoan
			user    *customer.UserData
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = s.customers.FindByEmail(gctx, saved.Email)
			return err
		})
		g.Go(func() error {
			var err error
			product, err = repos.TypeLoans().FindByID(gctx, saved.TypeLoanID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		result = StatusChangeResult{
			Loan: toLoanResponse(saved),
			Notification: loan.LoanStatusChanged{
				Loan:     saved,
				State:    state.Name,
				TypeLoan: product.Name,
				Reason:   req.Reason,
				User:     *user,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// resolveState looks the target state up by id when one is given and falls
// back to the name when the id is absent or unknown.
func (s *LoanService) resolveState(ctx context.Context, repos TxRepositories, req ChangeStatusRequest) (*loan.StateLoan, error) {
	if req.StateID != uuid.Nil {
		state, err := repos.StateLoans().FindByID(ctx, req.StateID)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, shared.ErrStateLoanNotFound) {
			return nil, err
		}
	}
	if req.StateName == "" {
		return nil, shared.ErrStateLoanNotFound
	}
	return repos.StateLoans().FindByName(ctx, req.StateName)
}

// GetAll returns every application on record.
func (s *LoanService) GetAll(ctx context.Context) ([]*LoanResponse, error) {
	var loans []*loan.Loan
	err := s.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepositories) error {
		var err error
		loans, err = repos.Loans().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toLoanResponses(loans), nil
}

// ManualReview returns the filtered, paginated listing analysts work from,
// enriched with the applicant snapshot. An applicant unknown to the
// identity service leaves the row with a nil name and salary instead of
// failing the page; any other identity failure does fail it.
func (s *LoanService) ManualReview(ctx context.Context, query ManualReviewQuery) (shared.Paginated[loan.LoanSummary], error) {
	filter, err := query.toFilter()
	if err != nil {
		return shared.Paginated[loan.LoanSummary]{}, err
	}

	var page shared.Paginated[loan.LoanSummary]
	err = s.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepositories) error {
		var err error
		page, err = repos.Loans().FindForManualReview(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[loan.LoanSummary]{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)
	for i := range page.Content {
		row := &page.Content[i]
		g.Go(func() error {
			user, err := s.customers.FindByEmail(gctx, row.Email)
			if errors.Is(err, shared.ErrCustomerNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if user == nil {
				return nil
			}
			name := user.FullName()
			salary := user.Salary.Amount()
			row.FullName = &name
			row.BaseSalary = &salary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return shared.Paginated[loan.LoanSummary]{}, err
	}
	return page, nil
}
