package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings AccountType = "Savings"
	AccountTypeCurrent AccountType = "Current"
)

const DefaultIFSCCode = "BANK0001234"

// Account is the customer identity and the owner of a ledger balance.
// Balance is only ever changed through the ledger package.
type Account struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	PasswordHash  string
	AccountNumber string
	IFSCCode      string
	AccountType   AccountType
	Balance       decimal.Decimal
	Version       int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type NewAccountParams struct {
	Name          string
	Email         string
	Phone         string
	PasswordHash  string
	AccountNumber string
}

func NewAccount(p NewAccountParams, now time.Time) (*Account, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("NewAccount: name required: %w", ErrInvalidInput)
	}
	email, err := NormalizeEmail(p.Email)
	if err != nil {
		return nil, fmt.Errorf("NewAccount: %w", err)
	}
	if strings.TrimSpace(p.Phone) == "" {
		return nil, fmt.Errorf("NewAccount: phone required: %w", ErrInvalidInput)
	}
	if p.PasswordHash == "" || p.AccountNumber == "" {
		return nil, fmt.Errorf("NewAccount: credentials incomplete: %w", ErrInvalidInput)
	}

	return &Account{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(p.Phone),
		PasswordHash:  p.PasswordHash,
		AccountNumber: p.AccountNumber,
		IFSCCode:      DefaultIFSCCode,
		AccountType:   AccountTypeSavings,
		Balance:       decimal.Zero,
		Version:       1,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid email: %w", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

func (a *Account) ApplyProfileUpdate(u ProfileUpdate, now time.Time) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return fmt.Errorf("ApplyProfileUpdate: name: %w", ErrInvalidInput)
		}
		a.Name = name
	}
	if u.Email != nil {
		email, err := NormalizeEmail(*u.Email)
		if err != nil {
			return fmt.Errorf("ApplyProfileUpdate: %w", err)
		}
		a.Email = email
	}
	if u.Phone != nil {
		phone := strings.TrimSpace(*u.Phone)
		if phone == "" {
			return fmt.Errorf("ApplyProfileUpdate: phone: %w", ErrInvalidInput)
		}
		a.Phone = phone
	}
	a.UpdatedAt = now
	return nil
}
