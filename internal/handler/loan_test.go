package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/amortization"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/service/loan"
)

type fakeLoans struct {
	loanService
	payEMI func(accountID, loanID uuid.UUID) (*loan.EMIReceipt, error)
}

func (f *fakeLoans) CalculateEMI(principal, rate decimal.Decimal, months int) (amortization.Schedule, error) {
	return amortization.CalculateEMI(principal, rate, months)
}

func (f *fakeLoans) PayEMI(_ context.Context, accountID, loanID uuid.UUID) (*loan.EMIReceipt, error) {
	return f.payEMI(accountID, loanID)
}

func TestLoanCalculator(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantEMI    string
	}{
		{name: "standard", query: "principal=100000&rate=12&tenure=12", wantStatus: http.StatusOK, wantEMI: "8884.88"},
		{name: "zero rate", query: "principal=1200&rate=0&tenure=12", wantStatus: http.StatusOK, wantEMI: "100"},
		{name: "missing tenure", query: "principal=1000&rate=5", wantStatus: http.StatusBadRequest},
		{name: "non-numeric principal", query: "principal=lots&rate=5&tenure=12", wantStatus: http.StatusBadRequest},
		{name: "zero tenure", query: "principal=1000&rate=5&tenure=0", wantStatus: http.StatusBadRequest},
	}

	h := NewLoanHandler(&fakeLoans{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/loans/calculator?"+tc.query, nil), uuid.New())
			rec := httptest.NewRecorder()
			h.Calculator(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.wantEMI != "" {
				_, data := decodeBody(t, rec)
				assert.Equal(t, tc.wantEMI, data["emi"])
			}
		})
	}
}

func TestPayEMI_Receipt(t *testing.T) {
	accountID, loanID := uuid.New(), uuid.New()
	due := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := &fakeLoans{payEMI: func(a, l uuid.UUID) (*loan.EMIReceipt, error) {
		return &loan.EMIReceipt{
			Loan: &domain.Loan{
				ID: l, Outstanding: decimal.NewFromInt(3000), RemainingMonths: 2,
				NextDueDate: due, Status: domain.LoanStatusActive,
			},
			Payment:     &domain.EMIPayment{ID: uuid.New(), Amount: decimal.NewFromInt(1500)},
			Transaction: &domain.Transaction{ID: uuid.New(), BalanceAfter: decimal.NewFromInt(8500)},
		}, nil
	}}

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/loans/x/pay-emi", nil), accountID)
	req.SetPathValue("id", loanID.String())
	rec := httptest.NewRecorder()
	NewLoanHandler(svc).PayEMI(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeBody(t, rec)
	assert.Equal(t, "1500", data["amount_paid"])
	assert.Equal(t, "3000", data["remaining_balance"])
	assert.Equal(t, "2026-06-15", data["next_due_date"])
	assert.Equal(t, float64(2), data["remaining_months"])
}
