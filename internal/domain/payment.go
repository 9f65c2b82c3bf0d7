package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentRequestStatus string

const (
	PaymentRequestPending   PaymentRequestStatus = "pending"
	PaymentRequestCompleted PaymentRequestStatus = "completed"
	PaymentRequestCancelled PaymentRequestStatus = "cancelled"
)

// PaymentRequest is an ask-for-money addressed to another person.
type PaymentRequest struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	RecipientName  string
	RecipientPhone *string
	Amount         decimal.Decimal
	Description    *string
	Status         PaymentRequestStatus
	PaidBy         *uuid.UUID
	CreatedAt      time.Time
	ExpiresAt      time.Time
	UpdatedAt      time.Time
}

type NewPaymentRequestParams struct {
	AccountID      uuid.UUID
	RecipientName  string
	RecipientPhone string
	Amount         decimal.Decimal
	Description    string
	TTL            time.Duration
}

func NewPaymentRequest(p NewPaymentRequestParams, now time.Time) (*PaymentRequest, error) {
	name := strings.TrimSpace(p.RecipientName)
	if name == "" {
		return nil, fmt.Errorf("NewPaymentRequest: recipient name required: %w", ErrInvalidInput)
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return nil, fmt.Errorf("NewPaymentRequest: %w", err)
	}
	if p.TTL <= 0 {
		return nil, fmt.Errorf("NewPaymentRequest: ttl %s: %w", p.TTL, ErrInvalidInput)
	}

	return &PaymentRequest{
		ID:             uuid.New(),
		AccountID:      p.AccountID,
		RecipientName:  name,
		RecipientPhone: StringPtr(strings.TrimSpace(p.RecipientPhone)),
		Amount:         p.Amount,
		Description:    StringPtr(strings.TrimSpace(p.Description)),
		Status:         PaymentRequestPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(p.TTL),
		UpdatedAt:      now,
	}, nil
}

func (r *PaymentRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Fulfil marks the request paid by payer.
func (r *PaymentRequest) Fulfil(payer uuid.UUID, now time.Time) error {
	if r.Status != PaymentRequestPending {
		return fmt.Errorf("Fulfil: request %s is %s: %w", r.ID, r.Status, ErrInvalidState)
	}
	if r.IsExpired(now) {
		return fmt.Errorf("Fulfil: request %s: %w", r.ID, ErrRequestExpired)
	}
	if payer == r.AccountID {
		return fmt.Errorf("Fulfil: %w", ErrSelfPayment)
	}
	r.Status = PaymentRequestCompleted
	r.PaidBy = &payer
	r.UpdatedAt = now
	return nil
}

func (r *PaymentRequest) Cancel(now time.Time) error {
	if r.Status != PaymentRequestPending {
		return fmt.Errorf("Cancel: request %s is %s: %w", r.ID, r.Status, ErrInvalidState)
	}
	r.Status = PaymentRequestCancelled
	r.UpdatedAt = now
	return nil
}
