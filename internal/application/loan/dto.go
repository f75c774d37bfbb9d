package loan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// =============================================================================
// Commands
// =============================================================================

// CreateLoanRequest represents a request to file a loan application. The
// applicant email comes from the authenticated session, not the body.
type CreateLoanRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	TermMonths int             `json:"termMonths" binding:"required,min=1"`
	TypeLoanID uuid.UUID       `json:"typeLoanId" binding:"required"`
	Email      string          `json:"-"`
}

// ChangeStatusRequest represents a request to move a loan to another state.
// The state can be addressed by id, by name, or by both; the id wins when
// it resolves.
type ChangeStatusRequest struct {
	LoanID    uuid.UUID `json:"loanId" binding:"required"`
	StateID   uuid.UUID `json:"stateId"`
	StateName string    `json:"stateName" binding:"max=50"`
	Reason    string    `json:"reason" binding:"max=500"`
}

// ManualReviewQuery narrows and pages the manual review listing. The type
// and amount filters arrive as query strings and are parsed into the
// domain filter; an absent value means no restriction.
type ManualReviewQuery struct {
	Search     string   `form:"search" binding:"max=200"`
	States     []string `form:"states"`
	TypeLoanID string   `form:"typeLoanId" binding:"omitempty,uuid"`
	MinAmount  string   `form:"minAmount"`
	MaxAmount  string   `form:"maxAmount"`
	Page       int      `form:"page"`
	Size       int      `form:"size"`
}

func (q ManualReviewQuery) toFilter() (loan.ManualReviewFilter, error) {
	filter := loan.ManualReviewFilter{
		Search: q.Search,
		States: q.States,
		Page:   q.Page,
		Size:   q.Size,
	}
	if q.TypeLoanID != "" {
		typeID, err := uuid.Parse(q.TypeLoanID)
		if err != nil {
			return loan.ManualReviewFilter{}, shared.NewDomainError("INVALID_FILTER",
				fmt.Sprintf("typeLoanId is not a valid uuid: %s", q.TypeLoanID))
		}
		filter.TypeLoanID = &typeID
	}
	if q.MinAmount != "" {
		minAmount, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return loan.ManualReviewFilter{}, shared.NewDomainError("INVALID_FILTER",
				fmt.Sprintf("minAmount is not a valid amount: %s", q.MinAmount))
		}
		filter.MinAmount = &minAmount
	}
	if q.MaxAmount != "" {
		maxAmount, err := decimal.NewFromString(q.MaxAmount)
		if err != nil {
			return loan.ManualReviewFilter{}, shared.NewDomainError("INVALID_FILTER",
				fmt.Sprintf("maxAmount is not a valid amount: %s", q.MaxAmount))
		}
		filter.MaxAmount = &maxAmount
	}
	return filter.Normalize(), nil
}

// =============================================================================
// Responses
// =============================================================================

// LoanResponse represents a loan application in API responses
type LoanResponse struct {
	ID         uuid.UUID              `json:"id"`
	Amount     valueobject.Money      `json:"amount"`
	TermMonths valueobject.TermMonths `json:"termMonths"`
	Email      valueobject.Email      `json:"email"`
	StateID    uuid.UUID              `json:"stateId"`
	TypeID     uuid.UUID              `json:"typeId"`
	CreatedAt  string                 `json:"createdAt"`
}

func toLoanResponse(l *loan.Loan) *LoanResponse {
	return &LoanResponse{
		ID:         l.ID,
		Amount:     l.Amount,
		TermMonths: l.TermMonths,
		Email:      l.Email,
		StateID:    l.StateLoanID,
		TypeID:     l.TypeLoanID,
		CreatedAt:  l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toLoanResponses(loans []*loan.Loan) []*LoanResponse {
	responses := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		responses[i] = toLoanResponse(l)
	}
	return responses
}
