// Package ledger owns account balances and the append-only transaction log.
// Every balance change goes through Debit or Credit, which lock the account
// row, apply the change under a version guard, and append exactly one log
// entry carrying the resulting balance, all inside the caller's transaction.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/shopspring/decimal"
)

type accountStore interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
}

type transactionStore interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	Page(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, after *domain.HistoryCursor, limit int) ([]domain.Transaction, error)
}

// Posting describes the log entry written alongside a balance change.
type Posting struct {
	Description  string
	Category     string
	Counterparty domain.Counterparty
}

type Ledger struct {
	accounts accountStore
	txns     transactionStore
	pageSize int
	now      func() time.Time
}

func New(accounts accountStore, txns transactionStore) *Ledger {
	return &Ledger{
		accounts: accounts,
		txns:     txns,
		pageSize: 100,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Debit subtracts amount from the account and returns the written log entry.
// It fails with domain.ErrInsufficientFunds, leaving no trace, when amount
// exceeds the balance.
func (l *Ledger) Debit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p Posting) (*domain.Transaction, error) {
	t, err := l.post(ctx, tx, accountID, domain.DirectionDebit, amount, p)
	if err != nil {
		return nil, fmt.Errorf("Debit: %w", err)
	}
	return t, nil
}

func (l *Ledger) Credit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p Posting) (*domain.Transaction, error) {
	t, err := l.post(ctx, tx, accountID, domain.DirectionCredit, amount, p)
	if err != nil {
		return nil, fmt.Errorf("Credit: %w", err)
	}
	return t, nil
}

// LockAccounts row-locks the given accounts in a stable order so that
// multi-account postings cannot deadlock against each other.
func (l *Ledger) LockAccounts(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	sorted = slices.Compact(sorted)

	locked := make(map[uuid.UUID]*domain.Account, len(sorted))
	for _, id := range sorted {
		acct, err := l.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("LockAccounts: %w", err)
		}
		locked[id] = acct
	}
	return locked, nil
}

func (l *Ledger) post(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, dir domain.Direction, amount decimal.Decimal, p Posting) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	acct, err := l.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAccountInactive)
	}

	var balance decimal.Decimal
	switch dir {
	case domain.DirectionDebit:
		if amount.GreaterThan(acct.Balance) {
			return nil, fmt.Errorf("account %s balance %s amount %s: %w",
				accountID, acct.Balance, amount, domain.ErrInsufficientFunds)
		}
		balance = acct.Balance.Sub(amount)
	case domain.DirectionCredit:
		balance = acct.Balance.Add(amount)
	}

	if err := l.accounts.UpdateBalance(ctx, tx, accountID, balance, acct.Version+1); err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		ID:           uuid.New(),
		AccountID:    accountID,
		Direction:    dir,
		Amount:       amount,
		Description:  p.Description,
		Category:     p.Category,
		Counterparty: p.Counterparty,
		BalanceAfter: balance,
		Status:       domain.TransactionStatusCompleted,
		CreatedAt:    l.now(),
	}
	if err := l.txns.Create(ctx, tx, t); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("ledger posting written",
		"transaction_id", t.ID,
		"account_id", accountID,
		"direction", dir,
		"amount", amount,
		"balance_after", balance,
	)
	return t, nil
}
