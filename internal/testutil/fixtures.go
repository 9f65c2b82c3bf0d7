package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "password123"

var accountSeq atomic.Int64

// SeedAccount inserts an active account holding balance. The balance is
// written directly, so no opening log entry exists for it.
func SeedAccount(t *testing.T, db *sql.DB, email string, balance string) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	a := &domain.Account{
		ID:            uuid.New(),
		Name:          "Test " + email,
		Email:         email,
		Phone:         "+15550100",
		PasswordHash:  string(hash),
		AccountNumber: fmt.Sprintf("ACC%010d", accountSeq.Add(1)),
		IFSCCode:      domain.DefaultIFSCCode,
		AccountType:   domain.AccountTypeSavings,
		Balance:       decimal.RequireFromString(balance),
		Version:       1,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = db.Exec(
		`INSERT INTO accounts (id, name, email, phone, password_hash, account_number,
			ifsc_code, account_type, balance, version, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.AccountNumber,
		a.IFSCCode, a.AccountType, a.Balance, a.Version, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", email, err)
	}
	return a
}

func SeedLoan(t *testing.T, db *sql.DB, accountID uuid.UUID, outstanding, emi string, remaining int, due time.Time) *domain.Loan {
	t.Helper()

	loan, err := domain.NewLoan(domain.NewLoanParams{
		AccountID:    accountID,
		LoanType:     "Personal Loan",
		Principal:    decimal.RequireFromString(outstanding),
		EMIAmount:    decimal.RequireFromString(emi),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: remaining,
		FirstDueDate: due,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("build loan: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO loans (id, account_id, loan_type, principal, outstanding, emi_amount,
			interest_rate, tenure_months, remaining_months, next_due_date, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		loan.ID, loan.AccountID, loan.LoanType, loan.Principal, loan.Outstanding, loan.EMIAmount,
		loan.InterestRate, loan.TenureMonths, loan.RemainingMonths, loan.NextDueDate, loan.Status,
		loan.Version, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loan
}

func SeedInvestment(t *testing.T, db *sql.DB, accountID uuid.UUID, amount, currentValue string) *domain.Investment {
	t.Helper()

	inv, err := domain.NewInvestment(domain.NewInvestmentParams{
		AccountID:      accountID,
		InvestmentType: "Mutual Fund",
		Name:           "Seeded Fund",
		Amount:         decimal.RequireFromString(amount),
		CurrentValue:   decimal.RequireFromString(currentValue),
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("build investment: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO investments (id, account_id, investment_type, name, amount, current_value,
			returns, returns_percent, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.AccountID, inv.InvestmentType, inv.Name, inv.Amount, inv.CurrentValue,
		inv.Returns, inv.ReturnsPercent, inv.Status, inv.Version, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}
	return inv
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", accountID, err)
	}
	return count
}
