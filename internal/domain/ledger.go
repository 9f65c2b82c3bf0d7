package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

func (d Direction) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Categories used by the money-moving use cases.
const (
	CategoryTransfer   = "Transfer"
	CategoryPayment    = "Payment"
	CategoryEMI        = "EMI"
	CategoryInvestment = "Investment"
	CategoryIncome     = "Income"
	CategoryDeposit    = "Deposit"
	CategoryWithdrawal = "Withdrawal"
	CategoryRequest    = "Request"
)

// Counterparty is the optional other side of a posting.
type Counterparty struct {
	Name    *string
	Account *string
	Phone   *string
}

// Transaction is one immutable entry of an account's transaction log.
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Direction    Direction
	Amount       decimal.Decimal
	Description  string
	Category     string
	Counterparty Counterparty
	BalanceAfter decimal.Decimal
	Status       TransactionStatus
	CreatedAt    time.Time
}

// HistoryFilter narrows a history query; zero values match everything.
type HistoryFilter struct {
	Category  string
	Direction Direction
}

// HistoryCursor marks the last entry of a history page; the next page starts
// strictly after it in (CreatedAt, ID) descending order.
type HistoryCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (f HistoryFilter) Validate() error {
	if f.Direction != "" && !f.Direction.IsValid() {
		return fmt.Errorf("direction %q: %w", f.Direction, ErrInvalidInput)
	}
	return nil
}

// MaxAmount is the largest single amount accepted. Balances are stored as
// NUMERIC(18,2), so capping each posting keeps sums well inside the column.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// ValidateAmount enforces a strictly positive amount with at most two decimal
// places, no larger than MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
