package ledger_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/repository"
	"github.com/josh-kwaku/securebank/internal/testutil"
)

func setupLedger(db *sql.DB) *ledger.Ledger {
	return ledger.New(repository.NewAccountRepository(db), repository.NewTransactionRepository(db))
}

func post(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func TestLedger_BalanceMatchesLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := setupLedger(db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "ledger@test.com", "1000")

	ops := []struct {
		dir    domain.Direction
		amount string
	}{
		{domain.DirectionDebit, "250.50"},
		{domain.DirectionCredit, "99.99"},
		{domain.DirectionDebit, "0.01"},
		{domain.DirectionCredit, "1500"},
		{domain.DirectionDebit, "1349.48"},
	}

	expected := decimal.RequireFromString("1000")
	var wantAfter []decimal.Decimal
	for _, op := range ops {
		amount := decimal.RequireFromString(op.amount)
		err := post(ctx, db, func(tx *sql.Tx) error {
			var err error
			if op.dir == domain.DirectionDebit {
				_, err = l.Debit(ctx, tx, acct.ID, amount, ledger.Posting{Description: "test", Category: domain.CategoryPayment})
			} else {
				_, err = l.Credit(ctx, tx, acct.ID, amount, ledger.Posting{Description: "test", Category: domain.CategoryDeposit})
			}
			return err
		})
		require.NoError(t, err)

		if op.dir == domain.DirectionDebit {
			expected = expected.Sub(amount)
		} else {
			expected = expected.Add(amount)
		}
		wantAfter = append(wantAfter, expected)
	}

	assert.True(t, expected.Equal(testutil.GetAccountBalance(t, db, acct.ID)))
	assert.Equal(t, len(ops), testutil.CountTransactions(t, db, acct.ID))

	history, err := ledger.Collect(l.History(ctx, acct.ID, domain.HistoryFilter{}, 0))
	require.NoError(t, err)
	require.Len(t, history, len(ops))
	for i, entry := range history {
		want := wantAfter[len(wantAfter)-1-i]
		assert.True(t, want.Equal(entry.BalanceAfter), "entry %d: want %s got %s", i, want, entry.BalanceAfter)
	}
}

func TestLedger_InsufficientFundsLeavesNoTrace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := setupLedger(db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "broke@test.com", "10")

	err := post(ctx, db, func(tx *sql.Tx) error {
		_, err := l.Debit(ctx, tx, acct.ID, decimal.RequireFromString("10.01"), ledger.Posting{Category: domain.CategoryPayment})
		return err
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "10", testutil.GetAccountBalance(t, db, acct.ID).String())
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestLedger_ConcurrentDebitsSerialize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := setupLedger(db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "race@test.com", "100")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = post(ctx, db, func(tx *sql.Tx) error {
				_, err := l.Debit(ctx, tx, acct.ID, decimal.NewFromInt(60), ledger.Posting{Category: domain.CategoryPayment})
				return err
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientFunds):
			insufficient++
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, "40", testutil.GetAccountBalance(t, db, acct.ID).String())
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))
}

func TestLedger_HistoryFiltersAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := setupLedger(db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "history@test.com", "500")

	for i := 0; i < 6; i++ {
		err := post(ctx, db, func(tx *sql.Tx) error {
			if i%2 == 0 {
				_, err := l.Debit(ctx, tx, acct.ID, decimal.NewFromInt(10), ledger.Posting{Category: domain.CategoryPayment})
				return err
			}
			_, err := l.Credit(ctx, tx, acct.ID, decimal.NewFromInt(5), ledger.Posting{Category: domain.CategoryDeposit})
			return err
		})
		require.NoError(t, err)
	}

	debits, err := ledger.Collect(l.History(ctx, acct.ID, domain.HistoryFilter{Direction: domain.DirectionDebit}, 0))
	require.NoError(t, err)
	assert.Len(t, debits, 3)

	deposits, err := ledger.Collect(l.History(ctx, acct.ID, domain.HistoryFilter{Category: domain.CategoryDeposit}, 2))
	require.NoError(t, err)
	assert.Len(t, deposits, 2)

	recent, err := ledger.Collect(l.History(ctx, acct.ID, domain.HistoryFilter{}, 5))
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, domain.DirectionCredit, recent[0].Direction)
}
