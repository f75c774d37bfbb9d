package loan

import (
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanApproved is a read projection of an approved loan joined with the
// rate and term of its product, enough to amortize its monthly payment.
type LoanApproved struct {
	Amount       valueobject.Money        `json:"amount"`
	TermMonths   valueobject.TermMonths   `json:"termMonths"`
	InterestRate valueobject.InterestRate `json:"interestRate"`
}

// MonthlyPayment amortizes the loan with the standard French system:
//
//	amount * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate and n the term in months. A zero rate
// degrades to a straight division of the principal over the term. The
// result is rounded to 2 decimal places.
func (a LoanApproved) MonthlyPayment() decimal.Decimal {
	principal := a.Amount.Amount()
	n := int64(a.TermMonths.Months())
	if a.InterestRate.IsZero() {
		return principal.DivRound(decimal.NewFromInt(n), 2)
	}
	r := a.InterestRate.Monthly()
	factor := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(n))
	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return payment.Round(2)
}

// TotalMonthlyDebt sums the amortized monthly payments of a set of
// approved loans.
func TotalMonthlyDebt(approved []LoanApproved) decimal.Decimal {
	total := decimal.Zero
	for _, a := range approved {
		total = total.Add(a.MonthlyPayment())
	}
	return total
}
