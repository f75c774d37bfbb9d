package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                   = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput               = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrLoanNotFound               = NewDomainError("LOAN_NOT_FOUND", "Loan not found")
	ErrTypeLoanNotFound           = NewDomainError("TYPE_LOAN_NOT_FOUND", "Loan type not found")
	ErrStateLoanNotFound          = NewDomainError("STATE_LOAN_NOT_FOUND", "Loan state not found")
	ErrStatePendingReviewNotFound = NewDomainError("STATE_PENDING_REVIEW_NOT_FOUND", "PENDING_REVIEW state is missing from reference data")
	ErrCustomerNotFound           = NewDomainError("CUSTOMER_NOT_FOUND", "Applicant identity could not be verified")
)

// IsDomainError reports whether err is a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
