package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
)

// Quote is the opening valuation of a new investment.
type Quote struct {
	InvestmentType string
	Amount         decimal.Decimal
	// Markup is a fraction of Amount: 0.05 values the investment 5% above it.
	Markup       decimal.Decimal
	CurrentValue decimal.Decimal
}

// MarkupPricer values a new investment at its amount plus a fixed markup per
// investment type. Types without a configured markup are valued at par.
type MarkupPricer struct {
	markups map[string]decimal.Decimal
}

func NewMarkupPricer(markups map[string]float64) *MarkupPricer {
	m := make(map[string]decimal.Decimal, len(markups))
	for k, v := range markups {
		m[normalize(k)] = decimal.NewFromFloat(v)
	}
	return &MarkupPricer{markups: m}
}

func normalize(investmentType string) string {
	return strings.ToLower(strings.TrimSpace(investmentType))
}

func (p *MarkupPricer) Price(_ context.Context, investmentType string, amount decimal.Decimal) (*Quote, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("Price: %w", err)
	}

	markup, ok := p.markups[normalize(investmentType)]
	if !ok {
		markup = decimal.Zero
	}

	value := amount.Mul(decimal.NewFromInt(1).Add(markup)).Round(2)
	if value.IsNegative() {
		value = decimal.Zero
	}

	return &Quote{
		InvestmentType: investmentType,
		Amount:         amount,
		Markup:         markup,
		CurrentValue:   value,
	}, nil
}
