package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/service/payment"
)

func TestAppErrorFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "INVALID_TOKEN"},
		{domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{domain.ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{domain.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrInvalidPIN, http.StatusBadRequest, "INVALID_PIN"},
		{domain.ErrRequestExpired, http.StatusUnprocessableEntity, "REQUEST_EXPIRED"},
		{domain.ErrSelfPayment, http.StatusUnprocessableEntity, "SELF_PAYMENT_NOT_ALLOWED"},
		{domain.ErrQRCodeInvalid, http.StatusUnprocessableEntity, "QR_CODE_INVALID"},
		{payment.ErrQRCodesUnavailable, http.StatusServiceUnavailable, "QR_CODES_UNAVAILABLE"},
		{errors.New("driver: bad connection"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			wrapped := fmt.Errorf("PayEMI: Debit: %w", tc.err)
			got := appErrorFor(wrapped)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantCode, got.Code)
		})
	}
}

func TestRespondDomainError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("SendMoney: %w", domain.ErrInsufficientFunds))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body.Error.Code)
}
