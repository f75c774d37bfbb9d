package loan

import (
	"github.com/crediya/loans/internal/domain/customer"
)

// DebtCapacity carries everything the capacity calculator needs to decide
// on an automatically validated application: the candidate loan, the
// applicant snapshot and the applicant's currently approved loans.
type DebtCapacity struct {
	Loan          *Loan             `json:"loan"`
	User          customer.UserData `json:"user"`
	ApprovedLoans []LoanApproved    `json:"approvedLoans"`
}

// LoanStatusChanged notifies the applicant that the application moved to a
// new state. State and type are carried by name, already resolved. Reason
// is free text supplied by the reviewer and may be empty.
type LoanStatusChanged struct {
	Loan     *Loan             `json:"loan"`
	State    string            `json:"state"`
	TypeLoan string            `json:"typeLoan"`
	Reason   string            `json:"reason,omitempty"`
	User     customer.UserData `json:"user"`
}
