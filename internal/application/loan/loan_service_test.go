package loan

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crediya/loans/internal/domain/customer"
	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// MockLoanRepository is a mock implementation of loan.Repository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindAll(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindApprovedByEmail(ctx context.Context, email valueobject.Email) ([]loan.LoanApproved, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.LoanApproved), args.Error(1)
}

func (m *MockLoanRepository) FindForManualReview(ctx context.Context, filter loan.ManualReviewFilter) (shared.Paginated[loan.LoanSummary], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[loan.LoanSummary]), args.Error(1)
}

// MockTypeRepository is a mock implementation of loan.TypeRepository
type MockTypeRepository struct {
	mock.Mock
}

func (m *MockTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.TypeLoan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.TypeLoan), args.Error(1)
}

func (m *MockTypeRepository) FindByName(ctx context.Context, name string) (*loan.TypeLoan, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.TypeLoan), args.Error(1)
}

// MockStateRepository is a mock implementation of loan.StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.StateLoan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.StateLoan), args.Error(1)
}

func (m *MockStateRepository) FindByName(ctx context.Context, name string) (*loan.StateLoan, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.StateLoan), args.Error(1)
}

// MockCustomerGateway is a mock implementation of customer.Gateway
type MockCustomerGateway struct {
	mock.Mock
}

func (m *MockCustomerGateway) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerGateway) FindByEmail(ctx context.Context, email valueobject.Email) (*customer.UserData, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.UserData), args.Error(1)
}

// MockCapacityPublisher is a mock implementation of loan.DebtCapacityPublisher
type MockCapacityPublisher struct {
	mock.Mock
}

func (m *MockCapacityPublisher) Publish(ctx context.Context, capacity loan.DebtCapacity) error {
	args := m.Called(ctx, capacity)
	return args.Error(0)
}

// stubTxRunner hands every unit of work the same repositories and reports
// the function's error unchanged, which is exactly the rollback contract.
type stubTxRunner struct {
	repos    TxRepositories
	required int
	readOnly int
}

type stubRepos struct {
	loans  *MockLoanRepository
	types  *MockTypeRepository
	states *MockStateRepository
}

func (r *stubRepos) Loans() loan.Repository           { return r.loans }
func (r *stubRepos) TypeLoans() loan.TypeRepository   { return r.types }
func (r *stubRepos) StateLoans() loan.StateRepository { return r.states }

func (s *stubTxRunner) Required(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	s.required++
	return fn(ctx, s.repos)
}

func (s *stubTxRunner) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	s.readOnly++
	return fn(ctx, s.repos)
}

var (
	_ loan.Repository            = (*MockLoanRepository)(nil)
	_ loan.TypeRepository        = (*MockTypeRepository)(nil)
	_ loan.StateRepository       = (*MockStateRepository)(nil)
	_ customer.Gateway           = (*MockCustomerGateway)(nil)
	_ loan.DebtCapacityPublisher = (*MockCapacityPublisher)(nil)
	_ TxRunner                   = (*stubTxRunner)(nil)
)

type serviceFixture struct {
	service   *LoanService
	runner    *stubTxRunner
	loans     *MockLoanRepository
	types     *MockTypeRepository
	states    *MockStateRepository
	customers *MockCustomerGateway
	capacity  *MockCapacityPublisher
}

func newFixture() *serviceFixture {
	loans := new(MockLoanRepository)
	types := new(MockTypeRepository)
	states := new(MockStateRepository)
	customers := new(MockCustomerGateway)
	capacity := new(MockCapacityPublisher)
	runner := &stubTxRunner{repos: &stubRepos{loans: loans, types: types, states: states}}
	return &serviceFixture{
		service:   NewLoanService(runner, customers, capacity),
		runner:    runner,
		loans:     loans,
		types:     types,
		states:    states,
		customers: customers,
		capacity:  capacity,
	}
}

func personalLoanType(automatic bool) *loan.TypeLoan {
	product := &loan.TypeLoan{
		Name:                "PERSONAL",
		MinAmount:           valueobject.MustMoney("1000"),
		MaxAmount:           valueobject.MustMoney("5000"),
		InterestRate:        valueobject.MustInterestRate("12"),
		AutomaticValidation: automatic,
	}
	product.ID = uuid.New()
	return product
}

func pendingState() *loan.StateLoan {
	state := &loan.StateLoan{Name: loan.StatePendingReview}
	state.ID = uuid.New()
	return state
}

func TestLoanServiceCreate(t *testing.T) {
	email := valueobject.MustEmail("maria@example.com")
	user := &customer.UserData{Name: "Maria", LastName: "Lopez", Email: email, Salary: valueobject.MustMoney("2500")}

	t.Run("unregistered applicant is rejected before any store access", func(t *testing.T) {
		f := newFixture()
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(false, nil)

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: uuid.New(), Email: email.Address(),
		})

		assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
		f.types.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("the identity check runs inside the unit of work", func(t *testing.T) {
		f := newFixture()
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(false, nil)

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: uuid.New(), Email: email.Address(),
		})

		require.Error(t, err)
		assert.Equal(t, 1, f.runner.required)
	})

	t.Run("unknown loan type", func(t *testing.T) {
		f := newFixture()
		typeID := uuid.New()
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.types.On("FindByID", mock.Anything, typeID).Return(nil, shared.ErrTypeLoanNotFound)

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: typeID, Email: email.Address(),
		})

		assert.ErrorIs(t, err, shared.ErrTypeLoanNotFound)
		f.loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("amount outside the product range", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(10000000), TermMonths: 12, TypeLoanID: product.ID, Email: email.Address(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_OUT_OF_RANGE", domainErr.Code)
		f.loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("pending review state missing from the catalog", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.states.On("FindByName", mock.Anything, loan.StatePendingReview).Return(nil, shared.ErrStateLoanNotFound)

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: product.ID, Email: email.Address(),
		})

		assert.ErrorIs(t, err, shared.ErrStatePendingReviewNotFound)
	})

	t.Run("manual product saves in pending review and publishes nothing", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		pending := pendingState()
		saved, _ := loan.NewLoan(valueobject.MustMoney("3000"), valueobject.MustTermMonths(12), email, product.ID)
		saved = saved.WithState(pending.ID)
		saved.ID = uuid.New()
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.states.On("FindByName", mock.Anything, loan.StatePendingReview).Return(pending, nil)
		f.loans.On("Save", mock.Anything, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.StateLoanID == pending.ID && l.Amount.String() == "3000.00"
		})).Return(saved, nil)

		resp, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: product.ID, Email: email.Address(),
		})

		require.NoError(t, err)
		assert.Equal(t, pending.ID, resp.StateID)
		f.capacity.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		f.customers.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("automatic product publishes the capacity request", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(true)
		pending := pendingState()
		approved := []loan.LoanApproved{{
			Amount:       valueobject.MustMoney("1000"),
			TermMonths:   valueobject.MustTermMonths(12),
			InterestRate: valueobject.MustInterestRate("12"),
		}}
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.customers.On("FindByEmail", mock.Anything, email).Return(user, nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.states.On("FindByName", mock.Anything, loan.StatePendingReview).Return(pending, nil)
		saved, _ := loan.NewLoan(valueobject.MustMoney("3000"), valueobject.MustTermMonths(12), email, product.ID)
		saved = saved.WithState(pending.ID)
		saved.ID = uuid.New()
		f.loans.On("FindApprovedByEmail", mock.Anything, email).Return(approved, nil)
		f.loans.On("Save", mock.Anything, mock.Anything).Return(saved, nil)
		f.capacity.On("Publish", mock.Anything, mock.MatchedBy(func(c loan.DebtCapacity) bool {
			return c.User.Name == "Maria" && len(c.ApprovedLoans) == 1 && c.Loan.StateLoanID == pending.ID
		})).Return(nil)

		resp, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: product.ID, Email: email.Address(),
		})

		require.NoError(t, err)
		assert.Equal(t, pending.ID, resp.StateID)
		f.capacity.AssertExpectations(t)
	})

	t.Run("publish failure fails the unit of work", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(true)
		pending := pendingState()
		f.customers.On("ExistsByEmail", mock.Anything, email).Return(true, nil)
		f.customers.On("FindByEmail", mock.Anything, email).Return(user, nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.states.On("FindByName", mock.Anything, loan.StatePendingReview).Return(pending, nil)
		saved, _ := loan.NewLoan(valueobject.MustMoney("3000"), valueobject.MustTermMonths(12), email, product.ID)
		saved = saved.WithState(pending.ID)
		f.loans.On("FindApprovedByEmail", mock.Anything, email).Return([]loan.LoanApproved{}, nil)
		f.loans.On("Save", mock.Anything, mock.Anything).Return(saved, nil)
		f.capacity.On("Publish", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(3000), TermMonths: 12, TypeLoanID: product.ID, Email: email.Address(),
		})

		assert.EqualError(t, err, "queue unavailable")
	})

	t.Run("invalid amount never reaches the identity service", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.Create(context.Background(), CreateLoanRequest{
			Amount: decimal.NewFromInt(-100), TermMonths: 12, TypeLoanID: uuid.New(), Email: email.Address(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
		f.customers.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestLoanServiceChangeStatus(t *testing.T) {
	email := valueobject.MustEmail("maria@example.com")
	user := &customer.UserData{Name: "Maria", LastName: "Lopez", Email: email, Salary: valueobject.MustMoney("2500")}

	existing := func(product *loan.TypeLoan) *loan.Loan {
		l, _ := loan.NewLoan(valueobject.MustMoney("3000"), valueobject.MustTermMonths(12), email, product.ID)
		l.ID = uuid.New()
		return l
	}

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture()
		loanID := uuid.New()
		f.loans.On("FindByID", mock.Anything, loanID).Return(nil, shared.ErrLoanNotFound)

		_, err := f.service.ChangeStatus(context.Background(), ChangeStatusRequest{LoanID: loanID, StateName: loan.StateApproved})

		assert.ErrorIs(t, err, shared.ErrLoanNotFound)
		f.loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("resolves the state by id first", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		current := existing(product)
		approved := &loan.StateLoan{Name: loan.StateApproved}
		approved.ID = uuid.New()

		f.loans.On("FindByID", mock.Anything, current.ID).Return(current, nil)
		f.states.On("FindByID", mock.Anything, approved.ID).Return(approved, nil)
		f.loans.On("Save", mock.Anything, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.StateLoanID == approved.ID
		})).Return(current.WithState(approved.ID), nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.customers.On("FindByEmail", mock.Anything, email).Return(user, nil)

		result, err := f.service.ChangeStatus(context.Background(), ChangeStatusRequest{LoanID: current.ID, StateID: approved.ID, Reason: "income verified"})

		require.NoError(t, err)
		assert.Equal(t, loan.StateApproved, result.Notification.State)
		assert.Equal(t, "PERSONAL", result.Notification.TypeLoan)
		assert.Equal(t, "Maria", result.Notification.User.Name)
		assert.Equal(t, "income verified", result.Notification.Reason)
		f.states.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the state name when the id is unknown", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		current := existing(product)
		rejected := &loan.StateLoan{Name: loan.StateRejected}
		rejected.ID = uuid.New()
		staleID := uuid.New()

		f.loans.On("FindByID", mock.Anything, current.ID).Return(current, nil)
		f.states.On("FindByID", mock.Anything, staleID).Return(nil, shared.ErrStateLoanNotFound)
		f.states.On("FindByName", mock.Anything, loan.StateRejected).Return(rejected, nil)
		f.loans.On("Save", mock.Anything, mock.Anything).Return(current.WithState(rejected.ID), nil)
		f.types.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.customers.On("FindByEmail", mock.Anything, email).Return(user, nil)

		result, err := f.service.ChangeStatus(context.Background(), ChangeStatusRequest{
			LoanID: current.ID, StateID: staleID, StateName: loan.StateRejected,
		})

		require.NoError(t, err)
		assert.Equal(t, loan.StateRejected, result.Notification.State)
	})

	t.Run("no id and no name", func(t *testing.T) {
		f := newFixture()
		product := personalLoanType(false)
		current := existing(product)
		f.loans.On("FindByID", mock.Anything, current.ID).Return(current, nil)

		_, err := f.service.ChangeStatus(context.Background(), ChangeStatusRequest{LoanID: current.ID})

		assert.ErrorIs(t, err, shared.ErrStateLoanNotFound)
		f.loans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestLoanServiceGetAll(t *testing.T) {
	f := newFixture()
	email := valueobject.MustEmail("maria@example.com")
	l, _ := loan.NewLoan(valueobject.MustMoney("3000"), valueobject.MustTermMonths(12), email, uuid.New())
	l.ID = uuid.New()
	f.loans.On("FindAll", mock.Anything).Return([]*loan.Loan{l}, nil)

	loans, err := f.service.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, l.ID, loans[0].ID)
	assert.Equal(t, 1, f.runner.readOnly)
}

func TestLoanServiceManualReview(t *testing.T) {
	mariaEmail := valueobject.MustEmail("maria@example.com")
	ghostEmail := valueobject.MustEmail("ghost@example.com")

	t.Run("applies the default states and floors the page", func(t *testing.T) {
		f := newFixture()
		f.loans.On("FindForManualReview", mock.Anything, mock.MatchedBy(func(filter loan.ManualReviewFilter) bool {
			return filter.Page == 0 && filter.Size == 1 &&
				assert.ObjectsAreEqual(loan.DefaultReviewStates(), filter.States)
		})).Return(shared.NewPaginated([]loan.LoanSummary{}, 0, 0, 1), nil)

		page, err := f.service.ManualReview(context.Background(), ManualReviewQuery{Page: -1, Size: 0})

		require.NoError(t, err)
		assert.Empty(t, page.Content)
		f.loans.AssertExpectations(t)
	})

	t.Run("enriches rows and tolerates unknown applicants", func(t *testing.T) {
		f := newFixture()
		rows := []loan.LoanSummary{
			{LoanID: uuid.New(), Email: mariaEmail, State: loan.StatePendingReview},
			{LoanID: uuid.New(), Email: ghostEmail, State: loan.StateRejected},
		}
		f.loans.On("FindForManualReview", mock.Anything, mock.Anything).
			Return(shared.NewPaginated(rows, 2, 0, 10), nil)
		f.customers.On("FindByEmail", mock.Anything, mariaEmail).
			Return(&customer.UserData{Name: "Maria", LastName: "Lopez", Email: mariaEmail, Salary: valueobject.MustMoney("2500")}, nil)
		f.customers.On("FindByEmail", mock.Anything, ghostEmail).
			Return(nil, shared.ErrCustomerNotFound)

		page, err := f.service.ManualReview(context.Background(), ManualReviewQuery{Size: 10})

		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		require.NotNil(t, page.Content[0].FullName)
		assert.Equal(t, "Maria Lopez", *page.Content[0].FullName)
		require.NotNil(t, page.Content[0].BaseSalary)
		assert.Equal(t, "2500.00", page.Content[0].BaseSalary.StringFixed(2))
		assert.Nil(t, page.Content[1].FullName, "unknown applicant stays unresolved")
		assert.Nil(t, page.Content[1].BaseSalary)
	})

	t.Run("an identity outage fails the page", func(t *testing.T) {
		f := newFixture()
		rows := []loan.LoanSummary{
			{LoanID: uuid.New(), Email: mariaEmail, State: loan.StatePendingReview},
		}
		f.loans.On("FindForManualReview", mock.Anything, mock.Anything).
			Return(shared.NewPaginated(rows, 1, 0, 10), nil)
		f.customers.On("FindByEmail", mock.Anything, mariaEmail).
			Return(nil, errors.New("identity service unavailable"))

		_, err := f.service.ManualReview(context.Background(), ManualReviewQuery{Size: 10})

		assert.EqualError(t, err, "identity service unavailable")
	})

	t.Run("parses the type and amount filters", func(t *testing.T) {
		f := newFixture()
		typeID := uuid.New()
		f.loans.On("FindForManualReview", mock.Anything, mock.MatchedBy(func(filter loan.ManualReviewFilter) bool {
			return filter.TypeLoanID != nil && *filter.TypeLoanID == typeID &&
				filter.MinAmount != nil && filter.MinAmount.Equal(decimal.NewFromInt(1000)) &&
				filter.MaxAmount != nil && filter.MaxAmount.Equal(decimal.NewFromInt(5000))
		})).Return(shared.NewPaginated([]loan.LoanSummary{}, 0, 0, 10), nil)

		_, err := f.service.ManualReview(context.Background(), ManualReviewQuery{
			TypeLoanID: typeID.String(), MinAmount: "1000", MaxAmount: "5000", Size: 10,
		})

		require.NoError(t, err)
		f.loans.AssertExpectations(t)
	})

	t.Run("rejects a malformed amount filter", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.ManualReview(context.Background(), ManualReviewQuery{MinAmount: "lots", Size: 10})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_FILTER", domainErr.Code)
		f.loans.AssertNotCalled(t, "FindForManualReview", mock.Anything, mock.Anything)
	})
}
