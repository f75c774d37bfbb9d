package loan

import (
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Loan represents a credit application. It is created in the PENDING_REVIEW
// state and mutated only through status changes; it is never deleted.
type Loan struct {
	shared.BaseEntity
	Amount      valueobject.Money      `gorm:"type:decimal(18,2);not null" json:"amount"`
	TermMonths  valueobject.TermMonths `gorm:"type:int;not null" json:"termMonths"`
	Email       valueobject.Email      `gorm:"type:varchar(200);not null;index" json:"email"`
	StateLoanID uuid.UUID              `gorm:"type:uuid;not null;column:id_state_loan;index" json:"stateLoanId"`
	TypeLoanID  uuid.UUID              `gorm:"type:uuid;not null;column:id_type_loan;index" json:"typeLoanId"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loan"
}

// NewLoan creates a candidate loan application. The identity is assigned by
// the store on first save and the state is assigned by the creation workflow.
func NewLoan(amount valueobject.Money, termMonths valueobject.TermMonths, email valueobject.Email, typeLoanID uuid.UUID) (*Loan, error) {
	if email.IsZero() {
		return nil, shared.NewDomainError("INVALID_EMAIL", "applicant email is required")
	}
	if typeLoanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TYPE_LOAN", "loan type is required")
	}
	return &Loan{
		Amount:     amount,
		TermMonths: termMonths,
		Email:      email,
		TypeLoanID: typeLoanID,
	}, nil
}

// WithState returns a copy of the loan carrying the given state id.
// Amount, term, email and type are preserved.
func (l *Loan) WithState(stateID uuid.UUID) *Loan {
	updated := *l
	updated.StateLoanID = stateID
	return &updated
}
