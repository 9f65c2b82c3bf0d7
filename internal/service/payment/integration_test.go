package payment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/config"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/repository"
	"github.com/josh-kwaku/securebank/internal/service/payment"
	"github.com/josh-kwaku/securebank/internal/testutil"
)

func setupPaymentService(t *testing.T, db *sql.DB) *payment.Service {
	t.Helper()
	l := ledger.New(repository.NewAccountRepository(db), repository.NewTransactionRepository(db))
	return payment.NewService(
		l,
		repository.NewPaymentRequestRepository(db),
		nil,
		db,
		&config.Config{
			PaymentRequestTTL:   time.Hour,
			PaymentLinkBase:     "https://securebank.test/pay/",
			HistoryDefaultLimit: 50,
			HistoryMaxLimit:     500,
		},
	)
}

func TestSendMoney_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "sender@test.com", "1000")

	entry, err := svc.SendMoney(ctx, payment.SendMoneyRequest{
		AccountID:        acct.ID,
		RecipientName:    "Jane Smith",
		RecipientAccount: "ACC9876543210",
		RecipientPhone:   "+15550199",
		Amount:           decimal.RequireFromString("250.75"),
		PIN:              "1234",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DirectionDebit, entry.Direction)
	assert.Equal(t, domain.CategoryTransfer, entry.Category)
	assert.Equal(t, "Transfer to Jane Smith", entry.Description)
	assert.Equal(t, "749.25", entry.BalanceAfter.String())
	assert.Equal(t, "749.25", testutil.GetAccountBalance(t, db, acct.ID).String())
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))
}

func TestSendMoney_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)

	acct := testutil.SeedAccount(t, db, "poor@test.com", "100")

	_, err := svc.SendMoney(context.Background(), payment.SendMoneyRequest{
		AccountID:        acct.ID,
		RecipientName:    "Jane",
		RecipientAccount: "ACC9876543210",
		Amount:           decimal.RequireFromString("100.01"),
		PIN:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "100", testutil.GetAccountBalance(t, db, acct.ID).String())
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestQRPayment_ByMerchant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)

	acct := testutil.SeedAccount(t, db, "shopper@test.com", "50")

	entry, err := svc.QRPayment(context.Background(), payment.QRPaymentRequest{
		AccountID:  acct.ID,
		MerchantID: "MERCHANT_42",
		Amount:     decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryPayment, entry.Category)
	assert.Equal(t, "QR Payment to MERCHANT_42", entry.Description)
	assert.Equal(t, "37.5", testutil.GetAccountBalance(t, db, acct.ID).String())
}

func TestPaymentRequest_PayMovesMoneyBothWays(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)
	ctx := context.Background()

	requester := testutil.SeedAccount(t, db, "requester@test.com", "0")
	payer := testutil.SeedAccount(t, db, "payer@test.com", "300")

	issued, err := svc.RequestMoney(ctx, payment.RequestMoneyRequest{
		AccountID:     requester.ID,
		RecipientName: "Payer",
		Amount:        decimal.RequireFromString("120.00"),
		Description:   "Dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://securebank.test/pay/"+issued.Request.ID.String(), issued.PaymentLink)
	assert.Equal(t, domain.PaymentRequestPending, issued.Request.Status)

	debit, err := svc.PayRequest(ctx, payer.ID, issued.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryRequest, debit.Category)

	assert.Equal(t, "180", testutil.GetAccountBalance(t, db, payer.ID).String())
	assert.Equal(t, "120", testutil.GetAccountBalance(t, db, requester.ID).String())
	assert.Equal(t, 1, testutil.CountTransactions(t, db, payer.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, requester.ID))

	reqs, err := svc.ListPaymentRequests(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.PaymentRequestCompleted, reqs[0].Status)
	require.NotNil(t, reqs[0].PaidBy)
	assert.Equal(t, payer.ID, *reqs[0].PaidBy)

	_, err = svc.PayRequest(ctx, payer.ID, issued.Request.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, "180", testutil.GetAccountBalance(t, db, payer.ID).String())
}

func TestPaymentRequest_PayRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)
	ctx := context.Background()

	requester := testutil.SeedAccount(t, db, "req2@test.com", "0")
	broke := testutil.SeedAccount(t, db, "broke2@test.com", "5")

	issued, err := svc.RequestMoney(ctx, payment.RequestMoneyRequest{
		AccountID:     requester.ID,
		RecipientName: "Someone",
		Amount:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.PayRequest(ctx, requester.ID, issued.Request.ID)
	require.ErrorIs(t, err, domain.ErrSelfPayment)

	_, err = svc.PayRequest(ctx, broke.ID, issued.Request.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "0", testutil.GetAccountBalance(t, db, requester.ID).String())

	_, err = svc.PayRequest(ctx, broke.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	reqs, err := svc.ListPaymentRequests(ctx, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRequestPending, reqs[0].Status)
}

func TestPaymentRequest_Cancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)
	ctx := context.Background()

	owner := testutil.SeedAccount(t, db, "owner@test.com", "0")
	other := testutil.SeedAccount(t, db, "other@test.com", "0")

	issued, err := svc.RequestMoney(ctx, payment.RequestMoneyRequest{
		AccountID:     owner.ID,
		RecipientName: "Someone",
		Amount:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.CancelPaymentRequest(ctx, other.ID, issued.Request.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	cancelled, err := svc.CancelPaymentRequest(ctx, owner.ID, issued.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRequestCancelled, cancelled.Status)

	_, err = svc.CancelPaymentRequest(ctx, owner.ID, issued.Request.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestHistoryAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupPaymentService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "hist@test.com", "1000")
	for range 7 {
		_, err := svc.QRPayment(ctx, payment.QRPaymentRequest{
			AccountID:  acct.ID,
			MerchantID: "MERCHANT_1",
			Amount:     decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "993", recent[0].BalanceAfter.String())

	all, err := svc.History(ctx, acct.ID, domain.HistoryFilter{Category: domain.CategoryPayment}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	none, err := svc.History(ctx, acct.ID, domain.HistoryFilter{Category: domain.CategoryTransfer}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
