package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/auth"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/service/payment"
)

// fakePayments implements only the calls a test sets; anything else panics
// through the nil embedded interface.
type fakePayments struct {
	paymentService
	sendMoney  func(payment.SendMoneyRequest) (*domain.Transaction, error)
	history    func(domain.HistoryFilter, int) ([]domain.Transaction, error)
	payRequest func(payerID, requestID uuid.UUID) (*domain.Transaction, error)
}

func (f *fakePayments) SendMoney(_ context.Context, req payment.SendMoneyRequest) (*domain.Transaction, error) {
	return f.sendMoney(req)
}

func (f *fakePayments) History(_ context.Context, _ uuid.UUID, filter domain.HistoryFilter, limit int) ([]domain.Transaction, error) {
	return f.history(filter, limit)
}

func (f *fakePayments) PayRequest(_ context.Context, payerID, requestID uuid.UUID) (*domain.Transaction, error) {
	return f.payRequest(payerID, requestID)
}

func authed(r *http.Request, accountID uuid.UUID) *http.Request {
	return r.WithContext(auth.ContextWithAccountID(r.Context(), accountID))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) (APIResponse, map[string]any) {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestSendMoney(t *testing.T) {
	accountID := uuid.New()
	var got payment.SendMoneyRequest
	svc := &fakePayments{sendMoney: func(req payment.SendMoneyRequest) (*domain.Transaction, error) {
		got = req
		return &domain.Transaction{
			ID:           uuid.New(),
			Direction:    domain.DirectionDebit,
			Amount:       req.Amount,
			BalanceAfter: decimal.RequireFromString("89.50"),
			Status:       domain.TransactionStatusCompleted,
			CreatedAt:    time.Now().UTC(),
		}, nil
	}}
	h := NewTransactionHandler(svc)

	body := `{"recipient_name":"Jane","recipient_account":"ACC0000000002","amount":10.5,"pin":"1234"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions/send-money", strings.NewReader(body)), accountID)
	rec := httptest.NewRecorder()
	h.SendMoney(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp, data := decodeBody(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "89.5", data["balance_after"])
	assert.Equal(t, "Jane", data["recipient"])

	assert.Equal(t, accountID, got.AccountID)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got.Amount))
	assert.Equal(t, "1234", got.PIN)
}

func TestSendMoney_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authed     bool
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "no caller", body: `{}`, wantStatus: http.StatusUnauthorized, wantCode: "MISSING_TOKEN"},
		{name: "malformed json", body: `{"amount":`, authed: true, wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{name: "bad pin", body: `{"recipient_name":"J","recipient_account":"A","amount":1,"pin":"12"}`, authed: true, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "insufficient funds", body: `{"recipient_name":"J","recipient_account":"A","amount":1,"pin":"1234"}`, authed: true, svcErr: domain.ErrInsufficientFunds, wantStatus: http.StatusUnprocessableEntity, wantCode: "INSUFFICIENT_FUNDS"},
		{name: "inactive", body: `{"recipient_name":"J","recipient_account":"A","amount":1,"pin":"1234"}`, authed: true, svcErr: domain.ErrAccountInactive, wantStatus: http.StatusForbidden, wantCode: "ACCOUNT_INACTIVE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakePayments{sendMoney: func(payment.SendMoneyRequest) (*domain.Transaction, error) {
				return nil, tc.svcErr
			}}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/send-money", strings.NewReader(tc.body))
			if tc.authed {
				req = authed(req, uuid.New())
			}
			rec := httptest.NewRecorder()
			NewTransactionHandler(svc).SendMoney(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp, _ := decodeBody(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestHistory_QueryParams(t *testing.T) {
	var gotFilter domain.HistoryFilter
	var gotLimit int
	svc := &fakePayments{history: func(f domain.HistoryFilter, limit int) ([]domain.Transaction, error) {
		gotFilter, gotLimit = f, limit
		return []domain.Transaction{}, nil
	}}
	h := NewTransactionHandler(svc)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/history?limit=20&category=EMI&type=debit", nil), uuid.New())
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, domain.HistoryFilter{Category: "EMI", Direction: domain.DirectionDebit}, gotFilter)
	assert.JSONEq(t, `{"success":true,"data":[],"error":null}`, rec.Body.String())

	req = authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/history?limit=abc", nil), uuid.New())
	rec = httptest.NewRecorder()
	h.History(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayRequest_PathID(t *testing.T) {
	payer, requestID := uuid.New(), uuid.New()
	svc := &fakePayments{payRequest: func(gotPayer, gotRequest uuid.UUID) (*domain.Transaction, error) {
		assert.Equal(t, payer, gotPayer)
		assert.Equal(t, requestID, gotRequest)
		return nil, domain.ErrInvalidState
	}}
	h := NewTransactionHandler(svc)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions/payment-requests/x/pay", nil), payer)
	req.SetPathValue("id", requestID.String())
	rec := httptest.NewRecorder()
	h.PayRequest(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions/payment-requests/x/pay", nil), payer)
	req.SetPathValue("id", "not-a-uuid")
	rec = httptest.NewRecorder()
	h.PayRequest(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
