package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusActive  InvestmentStatus = "active"
	InvestmentStatusMatured InvestmentStatus = "matured"
	InvestmentStatusSold    InvestmentStatus = "sold"
)

var (
	hundred = decimal.NewFromInt(100)

	// returns_percent is NUMERIC(10,4).
	maxReturnsPercent = decimal.NewFromInt(1000000)
)

// Investment keeps CurrentValue = Amount + Returns and
// ReturnsPercent = Returns / Amount * 100 after every mutation.
type Investment struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	InvestmentType string
	Name           string
	Amount         decimal.Decimal
	CurrentValue   decimal.Decimal
	Returns        decimal.Decimal
	ReturnsPercent decimal.Decimal
	Units          *decimal.Decimal
	MaturityDate   *time.Time
	Status         InvestmentStatus
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NewInvestmentParams struct {
	AccountID      uuid.UUID
	InvestmentType string
	Name           string
	Amount         decimal.Decimal
	CurrentValue   decimal.Decimal
	Units          *decimal.Decimal
	MaturityDate   *time.Time
}

func NewInvestment(p NewInvestmentParams, now time.Time) (*Investment, error) {
	if strings.TrimSpace(p.InvestmentType) == "" || strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("NewInvestment: type and name required: %w", ErrInvalidInput)
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return nil, fmt.Errorf("NewInvestment: %w", err)
	}
	if p.Units != nil && !p.Units.IsPositive() {
		return nil, fmt.Errorf("NewInvestment: units must be positive: %w", ErrInvalidInput)
	}

	inv := &Investment{
		ID:             uuid.New(),
		AccountID:      p.AccountID,
		InvestmentType: strings.TrimSpace(p.InvestmentType),
		Name:           strings.TrimSpace(p.Name),
		Amount:         p.Amount,
		Units:          p.Units,
		MaturityDate:   p.MaturityDate,
		Status:         InvestmentStatusActive,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := inv.setCurrentValue(p.CurrentValue); err != nil {
		return nil, fmt.Errorf("NewInvestment: %w", err)
	}
	return inv, nil
}

// Revaluation sets exactly one of its fields.
type Revaluation struct {
	CurrentValue   *decimal.Decimal
	Returns        *decimal.Decimal
	ReturnsPercent *decimal.Decimal
}

func (r Revaluation) modes() int {
	n := 0
	for _, v := range []*decimal.Decimal{r.CurrentValue, r.Returns, r.ReturnsPercent} {
		if v != nil {
			n++
		}
	}
	return n
}

func (i *Investment) Revalue(r Revaluation, now time.Time) error {
	if i.Status != InvestmentStatusActive {
		return fmt.Errorf("Revalue: investment %s is %s: %w", i.ID, i.Status, ErrInvalidState)
	}
	if r.modes() != 1 {
		return fmt.Errorf("Revalue: exactly one of current_value, returns, returns_percent required: %w", ErrInvalidInput)
	}

	var err error
	switch {
	case r.CurrentValue != nil:
		err = i.setCurrentValue(*r.CurrentValue)
	case r.Returns != nil:
		err = i.setCurrentValue(i.Amount.Add(*r.Returns))
	case r.ReturnsPercent != nil:
		pct := r.ReturnsPercent.Round(4)
		if pct.Abs().GreaterThanOrEqual(maxReturnsPercent) {
			return fmt.Errorf("Revalue: returns percent %s: %w", pct, ErrInvalidInput)
		}
		returns := i.Amount.Mul(pct).Div(hundred).Round(2)
		if err = i.setCurrentValue(i.Amount.Add(returns)); err == nil {
			i.ReturnsPercent = pct
		}
	}
	if err != nil {
		return fmt.Errorf("Revalue: %w", err)
	}

	i.Version++
	i.UpdatedAt = now
	return nil
}

func (i *Investment) setCurrentValue(v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(MaxAmount) || !v.Equal(v.Round(2)) {
		return fmt.Errorf("current value %s: %w", v, ErrInvalidInput)
	}
	returns := v.Sub(i.Amount)
	pct := returns.Div(i.Amount).Mul(hundred).Round(4)
	if pct.Abs().GreaterThanOrEqual(maxReturnsPercent) {
		return fmt.Errorf("current value %s: returns percent %s: %w", v, pct, ErrInvalidInput)
	}
	i.CurrentValue = v
	i.Returns = returns
	i.ReturnsPercent = pct
	return nil
}

func (i *Investment) Sell(now time.Time) error {
	if i.Status != InvestmentStatusActive {
		return fmt.Errorf("Sell: investment %s is %s: %w", i.ID, i.Status, ErrInvalidState)
	}
	i.Status = InvestmentStatusSold
	i.Version++
	i.UpdatedAt = now
	return nil
}

type PortfolioSummary struct {
	TotalInvested       decimal.Decimal
	TotalCurrentValue   decimal.Decimal
	TotalReturns        decimal.Decimal
	TotalReturnsPercent decimal.Decimal
	InvestmentsCount    int
}

// SummarizePortfolio aggregates active investments only.
func SummarizePortfolio(investments []Investment) PortfolioSummary {
	s := PortfolioSummary{
		TotalInvested:       decimal.Zero,
		TotalCurrentValue:   decimal.Zero,
		TotalReturns:        decimal.Zero,
		TotalReturnsPercent: decimal.Zero,
	}
	for _, inv := range investments {
		if inv.Status != InvestmentStatusActive {
			continue
		}
		s.TotalInvested = s.TotalInvested.Add(inv.Amount)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(inv.CurrentValue)
		s.InvestmentsCount++
	}
	s.TotalReturns = s.TotalCurrentValue.Sub(s.TotalInvested)
	if s.TotalInvested.IsPositive() {
		s.TotalReturnsPercent = s.TotalReturns.Div(s.TotalInvested).Mul(hundred).Round(2)
	}
	return s
}
