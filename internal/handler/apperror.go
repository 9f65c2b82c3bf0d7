package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrMethodNotAllowed   = &AppError{http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInsufficientFunds   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive, within limits, with at most two decimal places"}
	ErrInvalidInput        = &AppError{http.StatusBadRequest, "INVALID_INPUT", "Invalid input"}
	ErrVersionConflict     = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrInvalidState        = &AppError{http.StatusConflict, "INVALID_STATE", "Operation not allowed in the resource's current state"}
	ErrAccountInactive     = &AppError{http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is inactive"}
	ErrEmailTaken          = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email is already registered"}
	ErrInvalidPIN          = &AppError{http.StatusBadRequest, "INVALID_PIN", "PIN must be exactly 4 digits"}
	ErrRequestExpired      = &AppError{http.StatusUnprocessableEntity, "REQUEST_EXPIRED", "Payment request has expired"}
	ErrSelfPayment         = &AppError{http.StatusUnprocessableEntity, "SELF_PAYMENT_NOT_ALLOWED", "Cannot pay your own payment request"}
	ErrQRCodeInvalid       = &AppError{http.StatusUnprocessableEntity, "QR_CODE_INVALID", "QR code is invalid, expired or already used"}
	ErrQRCodesUnavailable  = &AppError{http.StatusServiceUnavailable, "QR_CODES_UNAVAILABLE", "QR code service is not configured"}
	ErrIdempotencyConflict = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
