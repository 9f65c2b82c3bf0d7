// Package loan services existing loans: listing, EMI payment, applications,
// and the EMI calculator.
package loan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/amortization"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/shopspring/decimal"
)

type loanRepo interface {
	Create(ctx context.Context, loan *domain.Loan) error
	Get(ctx context.Context, id, accountID uuid.UUID) (*domain.Loan, error)
	ListActive(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id, accountID uuid.UUID) (*domain.Loan, error)
	Update(ctx context.Context, tx *sql.Tx, loan *domain.Loan) error
	CreatePayment(ctx context.Context, tx *sql.Tx, p *domain.EMIPayment) error
	ListPayments(ctx context.Context, loanID, accountID uuid.UUID) ([]domain.EMIPayment, error)
	CreateApplication(ctx context.Context, app *domain.LoanApplication) error
}

type debitor interface {
	Debit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
}

type Service struct {
	loans  loanRepo
	ledger debitor
	db     *sql.DB
	now    func() time.Time
}

func NewService(loans loanRepo, l debitor, db *sql.DB) *Service {
	return &Service{
		loans:  loans,
		ledger: l,
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, error) {
	loans, err := s.loans.ListActive(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	if loans == nil {
		loans = []domain.Loan{}
	}
	return loans, nil
}

func (s *Service) Get(ctx context.Context, accountID, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loans.Get(ctx, loanID, accountID)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return loan, nil
}

func (s *Service) ListEMIPayments(ctx context.Context, accountID, loanID uuid.UUID) ([]domain.EMIPayment, error) {
	if _, err := s.loans.Get(ctx, loanID, accountID); err != nil {
		return nil, fmt.Errorf("ListEMIPayments: %w", err)
	}
	payments, err := s.loans.ListPayments(ctx, loanID, accountID)
	if err != nil {
		return nil, fmt.Errorf("ListEMIPayments: %w", err)
	}
	if payments == nil {
		payments = []domain.EMIPayment{}
	}
	return payments, nil
}

func (s *Service) CalculateEMI(principal, annualRate decimal.Decimal, months int) (amortization.Schedule, error) {
	return amortization.CalculateEMI(principal, annualRate, months)
}

type OpenLoanRequest struct {
	AccountID    uuid.UUID
	LoanType     string
	Principal    decimal.Decimal
	AnnualRate   decimal.Decimal
	TenureMonths int
	FirstDueDate time.Time
}

// Open books a loan with an EMI derived from its terms. Disbursement is not
// modelled, so the account balance is untouched.
func (s *Service) Open(ctx context.Context, req OpenLoanRequest) (*domain.Loan, error) {
	sched, err := amortization.CalculateEMI(req.Principal, req.AnnualRate, req.TenureMonths)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	loan, err := domain.NewLoan(domain.NewLoanParams{
		AccountID:    req.AccountID,
		LoanType:     req.LoanType,
		Principal:    req.Principal,
		EMIAmount:    sched.EMI,
		InterestRate: req.AnnualRate,
		TenureMonths: req.TenureMonths,
		FirstDueDate: req.FirstDueDate,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	logging.FromContext(ctx).Info("loan opened",
		"loan_id", loan.ID,
		"account_id", loan.AccountID,
		"principal", loan.Principal,
		"emi", loan.EMIAmount,
	)
	return loan, nil
}

type ApplyRequest struct {
	AccountID       uuid.UUID
	LoanType        string
	RequestedAmount decimal.Decimal
	MonthlyIncome   decimal.Decimal
	EmploymentType  string
	Purpose         string
}

func (s *Service) Apply(ctx context.Context, req ApplyRequest) (*domain.LoanApplication, error) {
	app, err := domain.NewLoanApplication(domain.NewLoanApplicationParams{
		AccountID:       req.AccountID,
		LoanType:        req.LoanType,
		RequestedAmount: req.RequestedAmount,
		MonthlyIncome:   req.MonthlyIncome,
		EmploymentType:  req.EmploymentType,
		Purpose:         req.Purpose,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("Apply: %w", err)
	}

	if err := s.loans.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("Apply: %w", err)
	}

	logging.FromContext(ctx).Info("loan application submitted",
		"application_id", app.ID,
		"account_id", app.AccountID,
		"requested_amount", app.RequestedAmount,
	)
	return app, nil
}
