package loan

import (
	"github.com/crediya/loans/internal/domain/shared"
)

// Well known loan state names seeded by the migrations.
const (
	StatePendingReview = "PENDING_REVIEW"
	StateApproved      = "APPROVED"
	StateRejected      = "REJECTED"
	StateManualReview  = "MANUAL_REVIEW"
)

// StateLoan is a catalog entry naming a step of the loan lifecycle.
type StateLoan struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StateLoan) TableName() string {
	return "loan_state"
}
