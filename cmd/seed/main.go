// Command seed creates a demo account with history, loans and investments.
// Running it again is a no-op once the demo account exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/securebank/internal/config"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/pricing"
	"github.com/josh-kwaku/securebank/internal/repository"
	"github.com/josh-kwaku/securebank/internal/service"
	"github.com/josh-kwaku/securebank/internal/service/investment"
	"github.com/josh-kwaku/securebank/internal/service/loan"
	"github.com/josh-kwaku/securebank/migrations"
)

const demoEmail = "john@example.com"

type samplePosting struct {
	dir         domain.Direction
	amount      string
	description string
	category    string
}

// Oldest first. The opening transfer funds the investments below.
var samplePostings = []samplePosting{
	{domain.DirectionCredit, "80000", "Savings transfer", domain.CategoryDeposit},
	{domain.DirectionDebit, "300", "Electric Bill", "Bills"},
	{domain.DirectionCredit, "1000", "Freelance Payment", domain.CategoryIncome},
	{domain.DirectionDebit, "50", "Coffee Shop", "Food"},
	{domain.DirectionDebit, "150", "Grocery Store", "Shopping"},
	{domain.DirectionCredit, "2500", "Salary Credit", domain.CategoryIncome},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init("securebank-seed", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnectAttempts: cfg.DBConnectAttempts,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db, migrations.FS); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	if err := seed(ctx, db, cfg); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, db *sql.DB, cfg *config.Config) error {
	accounts := repository.NewAccountRepository(db)
	_, err := accounts.GetByEmail(ctx, demoEmail)
	if err == nil {
		slog.Info("demo account already exists, skipping seed", "email", demoEmail)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("seed: lookup: %w", err)
	}

	l := ledger.New(accounts, repository.NewTransactionRepository(db))
	accountSvc := service.NewAccountService(accounts, l, db, cfg.OpeningBalance)
	loanSvc := loan.NewService(repository.NewLoanRepository(db), l, db)
	investmentSvc := investment.NewService(
		repository.NewInvestmentRepository(db), l, pricing.NewMarkupPricer(cfg.InvestmentMarkups), db,
	)

	acct, err := accountSvc.Signup(ctx, service.SignupRequest{
		Name:     "John Doe",
		Email:    demoEmail,
		Phone:    "+1234567890",
		Password: "password123",
	})
	if err != nil {
		return fmt.Errorf("seed: signup: %w", err)
	}

	for _, p := range samplePostings {
		if err := post(ctx, db, l, acct.ID, p); err != nil {
			return fmt.Errorf("seed: posting %q: %w", p.description, err)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	loans := []loan.OpenLoanRequest{
		{
			AccountID:    acct.ID,
			LoanType:     "Home Loan",
			Principal:    decimal.NewFromInt(500000),
			AnnualRate:   decimal.RequireFromString("8.5"),
			TenureMonths: 240,
			FirstDueDate: today.AddDate(0, 0, 15),
		},
		{
			AccountID:    acct.ID,
			LoanType:     "Personal Loan",
			Principal:    decimal.NewFromInt(100000),
			AnnualRate:   decimal.RequireFromString("12.5"),
			TenureMonths: 60,
			FirstDueDate: today.AddDate(0, 0, 10),
		},
	}
	for _, req := range loans {
		if _, err := loanSvc.Open(ctx, req); err != nil {
			return fmt.Errorf("seed: loan %s: %w", req.LoanType, err)
		}
	}

	equityValue := decimal.NewFromInt(58500)
	equityUnits := decimal.RequireFromString("2340.5")
	fdValue := decimal.NewFromInt(27000)
	fdMaturity := today.AddDate(0, 0, 180)
	investments := []investment.CreateRequest{
		{
			AccountID:      acct.ID,
			InvestmentType: "Mutual Fund",
			Name:           "Equity Growth Fund",
			Amount:         decimal.NewFromInt(50000),
			CurrentValue:   &equityValue,
			Units:          &equityUnits,
		},
		{
			AccountID:      acct.ID,
			InvestmentType: "Fixed Deposit",
			Name:           "FD - 1 Year",
			Amount:         decimal.NewFromInt(25000),
			CurrentValue:   &fdValue,
			MaturityDate:   &fdMaturity,
		},
	}
	for _, req := range investments {
		if _, err := investmentSvc.Create(ctx, req); err != nil {
			return fmt.Errorf("seed: investment %s: %w", req.Name, err)
		}
	}

	balance, err := accountSvc.GetBalance(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("seed complete",
		"email", demoEmail,
		"account_number", acct.AccountNumber,
		"balance", balance,
		"transactions", len(samplePostings),
		"loans", len(loans),
		"investments", len(investments),
	)
	return nil
}

func post(ctx context.Context, db *sql.DB, l *ledger.Ledger, accountID uuid.UUID, p samplePosting) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	posting := ledger.Posting{Description: p.description, Category: p.category}
	amount := decimal.RequireFromString(p.amount)
	if p.dir == domain.DirectionDebit {
		_, err = l.Debit(ctx, tx, accountID, amount, posting)
	} else {
		_, err = l.Credit(ctx, tx, accountID, amount, posting)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}
