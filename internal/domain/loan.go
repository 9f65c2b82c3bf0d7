package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxInterestRate is an annual percentage.
var MaxInterestRate = decimal.NewFromInt(100)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusClosed    LoanStatus = "closed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

type Loan struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	LoanType        string
	Principal       decimal.Decimal
	Outstanding     decimal.Decimal
	EMIAmount       decimal.Decimal
	InterestRate    decimal.Decimal
	TenureMonths    int
	RemainingMonths int
	NextDueDate     time.Time
	Status          LoanStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NewLoanParams struct {
	AccountID    uuid.UUID
	LoanType     string
	Principal    decimal.Decimal
	EMIAmount    decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
	FirstDueDate time.Time
}

func NewLoan(p NewLoanParams, now time.Time) (*Loan, error) {
	if strings.TrimSpace(p.LoanType) == "" {
		return nil, fmt.Errorf("NewLoan: loan type required: %w", ErrInvalidInput)
	}
	if err := ValidateAmount(p.Principal); err != nil {
		return nil, fmt.Errorf("NewLoan: principal: %w", err)
	}
	if err := ValidateAmount(p.EMIAmount); err != nil {
		return nil, fmt.Errorf("NewLoan: emi: %w", err)
	}
	if p.InterestRate.IsNegative() || p.InterestRate.GreaterThan(MaxInterestRate) || p.TenureMonths <= 0 {
		return nil, fmt.Errorf("NewLoan: rate %s tenure %d: %w", p.InterestRate, p.TenureMonths, ErrInvalidInput)
	}

	return &Loan{
		ID:              uuid.New(),
		AccountID:       p.AccountID,
		LoanType:        strings.TrimSpace(p.LoanType),
		Principal:       p.Principal,
		Outstanding:     p.Principal,
		EMIAmount:       p.EMIAmount,
		InterestRate:    p.InterestRate,
		TenureMonths:    p.TenureMonths,
		RemainingMonths: p.TenureMonths,
		NextDueDate:     p.FirstDueDate,
		Status:          LoanStatusActive,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyPayment records one EMI against the loan and returns the due date the
// payment settled. Outstanding and remaining months never drop below zero.
func (l *Loan) ApplyPayment(nextDue, now time.Time) (time.Time, error) {
	if l.Status != LoanStatusActive {
		return time.Time{}, fmt.Errorf("ApplyPayment: loan %s is %s: %w", l.ID, l.Status, ErrInvalidState)
	}

	settled := l.NextDueDate

	l.Outstanding = l.Outstanding.Sub(l.EMIAmount)
	if l.Outstanding.IsNegative() {
		l.Outstanding = decimal.Zero
	}
	if l.RemainingMonths > 0 {
		l.RemainingMonths--
	}
	l.NextDueDate = nextDue
	if !l.Outstanding.IsPositive() {
		l.Status = LoanStatusClosed
	}
	l.Version++
	l.UpdatedAt = now

	return settled, nil
}

// EMIPayment links a paid installment to the loan and its ledger entry.
type EMIPayment struct {
	ID            uuid.UUID
	LoanID        uuid.UUID
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Amount        decimal.Decimal
	DueDate       time.Time
	PaidAt        time.Time
}

type LoanApplicationStatus string

const (
	LoanApplicationPending  LoanApplicationStatus = "pending"
	LoanApplicationApproved LoanApplicationStatus = "approved"
	LoanApplicationRejected LoanApplicationStatus = "rejected"
)

type LoanApplication struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	LoanType        string
	RequestedAmount decimal.Decimal
	MonthlyIncome   decimal.Decimal
	EmploymentType  string
	Purpose         string
	Status          LoanApplicationStatus
	CreatedAt       time.Time
}

type NewLoanApplicationParams struct {
	AccountID       uuid.UUID
	LoanType        string
	RequestedAmount decimal.Decimal
	MonthlyIncome   decimal.Decimal
	EmploymentType  string
	Purpose         string
}

func NewLoanApplication(p NewLoanApplicationParams, now time.Time) (*LoanApplication, error) {
	if err := ValidateAmount(p.RequestedAmount); err != nil {
		return nil, fmt.Errorf("NewLoanApplication: requested amount: %w", err)
	}
	if err := ValidateAmount(p.MonthlyIncome); err != nil {
		return nil, fmt.Errorf("NewLoanApplication: monthly income: %w", err)
	}
	for field, v := range map[string]string{
		"loan_type":       p.LoanType,
		"employment_type": p.EmploymentType,
		"purpose":         p.Purpose,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("NewLoanApplication: %s required: %w", field, ErrInvalidInput)
		}
	}

	return &LoanApplication{
		ID:              uuid.New(),
		AccountID:       p.AccountID,
		LoanType:        strings.TrimSpace(p.LoanType),
		RequestedAmount: p.RequestedAmount,
		MonthlyIncome:   p.MonthlyIncome,
		EmploymentType:  strings.TrimSpace(p.EmploymentType),
		Purpose:         strings.TrimSpace(p.Purpose),
		Status:          LoanApplicationPending,
		CreatedAt:       now,
	}, nil
}
