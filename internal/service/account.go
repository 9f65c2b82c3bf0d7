package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	accountNumberAttempts = 5
	minPasswordLength     = 6
)

type SignupRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type AccountService struct {
	accounts       accountRepository
	ledger         ledgerPoster
	db             *sql.DB
	openingBalance decimal.Decimal
	bcryptCost     int
}

func NewAccountService(accounts accountRepository, l ledgerPoster, db *sql.DB, openingBalance decimal.Decimal) *AccountService {
	return &AccountService{
		accounts:       accounts,
		ledger:         l,
		db:             db,
		openingBalance: openingBalance,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// WithBcryptCost lowers hashing cost for tests and seeding.
func (s *AccountService) WithBcryptCost(cost int) *AccountService {
	s.bcryptCost = cost
	return s
}

func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("Signup: password shorter than %d: %w", minPasswordLength, domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("Signup: hash password: %w", err)
	}

	acctNum, err := s.uniqueAccountNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}

	account, err := domain.NewAccount(domain.NewAccountParams{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PasswordHash:  string(hash),
		AccountNumber: acctNum,
	}, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Signup: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}

	if s.openingBalance.IsPositive() {
		entry, err := s.ledger.Credit(ctx, tx, account.ID, s.openingBalance, ledger.Posting{
			Description: "Opening balance",
			Category:    domain.CategoryIncome,
		})
		if err != nil {
			return nil, fmt.Errorf("Signup: opening balance: %w", err)
		}
		account.Balance = entry.BalanceAfter
		account.Version++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Signup: commit: %w", err)
	}

	log.Info("account opened",
		"account_id", account.ID,
		"account_number", account.AccountNumber,
		"opening_balance", account.Balance,
	)
	return account, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("Authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("Authenticate: %w", domain.ErrAccountInactive)
	}
	return account, nil
}

// Resolve maps a verified token subject to a live account.
func (s *AccountService) Resolve(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Resolve: %w", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("Resolve: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("Resolve: %w", domain.ErrUnauthenticated)
	}
	return account, nil
}

func (s *AccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	return account, nil
}

func (s *AccountService) GetBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("GetBalance: %w", err)
	}
	return account.Balance, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, update domain.ProfileUpdate) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}

	if err := account.ApplyProfileUpdate(update, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}
	return account, nil
}

// AdjustBalance posts a manual deposit (positive delta) or withdrawal
// (negative delta) through the ledger.
func (s *AccountService) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (*domain.Transaction, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("AdjustBalance: %w", domain.ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("AdjustBalance: begin tx: %w", err)
	}
	defer tx.Rollback()

	var entry *domain.Transaction
	if delta.IsPositive() {
		entry, err = s.ledger.Credit(ctx, tx, accountID, delta, ledger.Posting{
			Description: "Deposit",
			Category:    domain.CategoryDeposit,
		})
	} else {
		entry, err = s.ledger.Debit(ctx, tx, accountID, delta.Neg(), ledger.Posting{
			Description: "Withdrawal",
			Category:    domain.CategoryWithdrawal,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("AdjustBalance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("AdjustBalance: commit: %w", err)
	}

	logging.FromContext(ctx).Info("balance adjusted",
		"account_id", accountID,
		"transaction_id", entry.ID,
		"delta", delta,
		"balance_after", entry.BalanceAfter,
	)
	return entry, nil
}

func (s *AccountService) Deactivate(ctx context.Context, accountID uuid.UUID) error {
	if err := s.accounts.Deactivate(ctx, accountID); err != nil {
		return fmt.Errorf("Deactivate: %w", err)
	}
	logging.FromContext(ctx).Info("account deactivated", "account_id", accountID)
	return nil
}

func (s *AccountService) uniqueAccountNumber(ctx context.Context) (string, error) {
	for range accountNumberAttempts {
		num, err := generateAccountNumber()
		if err != nil {
			return "", err
		}
		exists, err := s.accounts.AccountNumberExists(ctx, num)
		if err != nil {
			return "", fmt.Errorf("uniqueAccountNumber: %w", err)
		}
		if !exists {
			return num, nil
		}
	}
	return "", fmt.Errorf("uniqueAccountNumber: no free number after %d attempts", accountNumberAttempts)
}

func generateAccountNumber() (string, error) {
	var b strings.Builder
	b.WriteString("ACC")
	for range 10 {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generateAccountNumber: %w", err)
		}
		b.WriteByte('0' + byte(n.Int64()))
	}
	return b.String(), nil
}
