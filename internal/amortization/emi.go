package amortization

import (
	"fmt"
	"time"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	twelveHundred = decimal.NewFromInt(1200)
	one           = decimal.NewFromInt(1)
)

// Schedule is the result of an EMI calculation. All amounts are rounded to
// two decimal places, half away from zero.
type Schedule struct {
	EMI           decimal.Decimal
	TotalAmount   decimal.Decimal
	TotalInterest decimal.Decimal
}

// CalculateEMI returns the fixed monthly installment for a loan.
// TotalAmount is the rounded EMI times months, so it matches what the
// borrower actually pays.
func CalculateEMI(principal, annualRate decimal.Decimal, months int) (Schedule, error) {
	if !principal.IsPositive() || annualRate.IsNegative() || months <= 0 {
		return Schedule{}, fmt.Errorf("CalculateEMI: principal %s rate %s months %d: %w",
			principal, annualRate, months, domain.ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(months))
	r := annualRate.Div(twelveHundred)

	var emi decimal.Decimal
	if r.IsZero() {
		emi = principal.Div(n)
	} else {
		f := one.Add(r).Pow(n)
		emi = principal.Mul(r).Mul(f).Div(f.Sub(one))
	}
	emi = emi.Round(2)

	total := emi.Mul(n)
	return Schedule{
		EMI:           emi,
		TotalAmount:   total,
		TotalInterest: total.Sub(principal),
	}, nil
}

// NextDueDate advances a due date by one calendar month. Days past the end of
// the shorter month roll over into the following month (Jan 31 -> Mar 3).
func NextDueDate(due time.Time) time.Time {
	return due.AddDate(0, 1, 0)
}
