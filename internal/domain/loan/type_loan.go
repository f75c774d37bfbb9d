package loan

import (
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
)

// TypeLoan is a catalog entry describing a credit product: the admissible
// amount range, the annual interest rate and whether approval is automated.
type TypeLoan struct {
	shared.BaseEntity
	Name                string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	MinAmount           valueobject.Money        `gorm:"type:decimal(18,2);not null;column:minimum_amount"`
	MaxAmount           valueobject.Money        `gorm:"type:decimal(18,2);not null;column:maximum_amount"`
	InterestRate        valueobject.InterestRate `gorm:"type:decimal(9,4);not null;column:annual_interest_percent"`
	AutomaticValidation bool                     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TypeLoan) TableName() string {
	return "loan_type"
}

// AllowsAmount reports whether the amount falls inside the product range,
// both bounds inclusive.
func (t *TypeLoan) AllowsAmount(amount valueobject.Money) bool {
	return amount.Between(t.MinAmount, t.MaxAmount)
}
