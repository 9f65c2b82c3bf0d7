package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/service/payment"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

var domainErrors = []struct {
	err    error
	appErr *AppError
}{
	{domain.ErrUnauthenticated, ErrInvalidToken},
	{domain.ErrNotFound, ErrResourceNotFound},
	{domain.ErrInsufficientFunds, ErrInsufficientFunds},
	{domain.ErrInvalidAmount, ErrInvalidAmount},
	{domain.ErrInvalidInput, ErrInvalidInput},
	{domain.ErrConflict, ErrVersionConflict},
	{domain.ErrInvalidState, ErrInvalidState},
	{domain.ErrAccountInactive, ErrAccountInactive},
	{domain.ErrEmailTaken, ErrEmailTaken},
	{domain.ErrInvalidCredentials, ErrInvalidCredentials},
	{domain.ErrInvalidPIN, ErrInvalidPIN},
	{domain.ErrRequestExpired, ErrRequestExpired},
	{domain.ErrSelfPayment, ErrSelfPayment},
	{domain.ErrQRCodeInvalid, ErrQRCodeInvalid},
	{domain.ErrDuplicateIdempotencyKey, ErrIdempotencyConflict},
	{payment.ErrQRCodesUnavailable, ErrQRCodesUnavailable},
}

// appErrorFor maps a service error to its API error; unknown errors map to
// ErrInternalError.
func appErrorFor(err error) *AppError {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.appErr
		}
	}
	return ErrInternalError
}

func RespondDomainError(w http.ResponseWriter, err error) {
	appErr := appErrorFor(err)
	if appErr == ErrInternalError {
		slog.Error("unhandled domain error", "error", err)
	}
	RespondAppError(w, appErr, nil)
}
