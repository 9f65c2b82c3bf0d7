package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/repository"
	"github.com/josh-kwaku/securebank/internal/service"
	"github.com/josh-kwaku/securebank/internal/testutil"
)

func setupAccountService(db *sql.DB, opening string) (*service.AccountService, *ledger.Ledger) {
	accounts := repository.NewAccountRepository(db)
	l := ledger.New(accounts, repository.NewTransactionRepository(db))
	svc := service.NewAccountService(accounts, l, db, decimal.RequireFromString(opening)).
		WithBcryptCost(bcrypt.MinCost)
	return svc, l
}

func TestSignup_PostsOpeningBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, l := setupAccountService(db, "10000")
	ctx := context.Background()

	acct, err := svc.Signup(ctx, service.SignupRequest{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Phone:    "+15550100",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", acct.Email)
	assert.Regexp(t, `^ACC\d{10}$`, acct.AccountNumber)
	assert.Equal(t, domain.DefaultIFSCCode, acct.IFSCCode)
	assert.Equal(t, domain.AccountTypeSavings, acct.AccountType)
	assert.Equal(t, "10000", acct.Balance.String())

	history, err := ledger.Collect(l.History(ctx, acct.ID, domain.HistoryFilter{}, 0))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.CategoryIncome, history[0].Category)
	assert.Equal(t, "Opening balance", history[0].Description)
	assert.True(t, acct.Balance.Equal(history[0].BalanceAfter))

	_, err = svc.Signup(ctx, service.SignupRequest{
		Name:     "Impostor",
		Email:    "john@example.com",
		Phone:    "+15550101",
		Password: "password123",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSignup_ZeroOpeningBalanceWritesNoEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupAccountService(db, "0")

	acct, err := svc.Signup(context.Background(), service.SignupRequest{
		Name: "Zero", Email: "zero@test.com", Phone: "+15550100", Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero())
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestSignup_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupAccountService(db, "0")

	tests := []struct {
		name string
		req  service.SignupRequest
	}{
		{name: "short password", req: service.SignupRequest{Name: "A", Email: "a@test.com", Phone: "1", Password: "123"}},
		{name: "bad email", req: service.SignupRequest{Name: "A", Email: "not-an-email", Phone: "1", Password: "secret1"}},
		{name: "blank name", req: service.SignupRequest{Name: " ", Email: "b@test.com", Phone: "1", Password: "secret1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupAccountService(db, "0")
	ctx := context.Background()

	seeded := testutil.SeedAccount(t, db, "login@test.com", "0")

	acct, err := svc.Authenticate(ctx, "LOGIN@test.com", testutil.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, acct.ID)

	_, err = svc.Authenticate(ctx, "login@test.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@test.com", testutil.DefaultPassword)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, svc.Deactivate(ctx, seeded.ID))

	_, err = svc.Authenticate(ctx, "login@test.com", testutil.DefaultPassword)
	require.ErrorIs(t, err, domain.ErrAccountInactive)

	_, err = svc.Resolve(ctx, seeded.ID)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.ErrorIs(t, svc.Deactivate(ctx, seeded.ID), domain.ErrNotFound)
}

func TestAdjustBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupAccountService(db, "0")
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "adjust@test.com", "100")

	deposit, err := svc.AdjustBalance(ctx, acct.ID, decimal.RequireFromString("50.50"))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDeposit, deposit.Category)
	assert.Equal(t, domain.DirectionCredit, deposit.Direction)

	withdrawal, err := svc.AdjustBalance(ctx, acct.ID, decimal.RequireFromString("-20"))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryWithdrawal, withdrawal.Category)
	assert.Equal(t, "20", withdrawal.Amount.String())

	_, err = svc.AdjustBalance(ctx, acct.ID, decimal.RequireFromString("-1000"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = svc.AdjustBalance(ctx, acct.ID, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	balance, err := svc.GetBalance(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "130.5", balance.String())
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupAccountService(db, "0")
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "profile@test.com", "0")
	testutil.SeedAccount(t, db, "taken@test.com", "0")

	name := "Renamed"
	updated, err := svc.UpdateProfile(ctx, acct.ID, domain.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "profile@test.com", updated.Email)

	taken := "taken@test.com"
	_, err = svc.UpdateProfile(ctx, acct.ID, domain.ProfileUpdate{Email: &taken})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	stored, err := svc.GetProfile(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, "profile@test.com", stored.Email)
}
