package domain

import "errors"

var (
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrNotFound                = errors.New("not found")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInvalidAmount           = errors.New("amount must be greater than zero, within limits, with at most two decimal places")
	ErrInvalidInput            = errors.New("invalid input")
	ErrConflict                = errors.New("concurrent modification conflict")
	ErrInvalidState            = errors.New("entity is not in a state that allows this operation")
	ErrAccountInactive         = errors.New("account inactive")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidPIN              = errors.New("invalid PIN")
	ErrRequestExpired          = errors.New("payment request expired")
	ErrSelfPayment             = errors.New("cannot pay your own payment request")
	ErrQRCodeInvalid           = errors.New("invalid or expired QR code")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
