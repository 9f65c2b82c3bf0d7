package pricing

import (
	"context"
	"testing"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	p := NewMarkupPricer(map[string]float64{"Stocks": 0.05, "Crypto": -0.1})
	ctx := context.Background()

	tests := []struct {
		name       string
		invType    string
		amount     string
		wantValue  string
		wantMarkup string
		wantErr    error
	}{
		{name: "configured markup", invType: "Stocks", amount: "1000", wantValue: "1050", wantMarkup: "0.05"},
		{name: "type lookup ignores case", invType: " stocks ", amount: "200.10", wantValue: "210.11", wantMarkup: "0.05"},
		{name: "negative markup", invType: "Crypto", amount: "500", wantValue: "450", wantMarkup: "-0.1"},
		{name: "unknown type at par", invType: "Gold", amount: "750.25", wantValue: "750.25", wantMarkup: "0"},
		{name: "zero amount", invType: "Stocks", amount: "0", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := p.Price(ctx, tc.invType, decimal.RequireFromString(tc.amount))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, q.CurrentValue.String())
			assert.Equal(t, tc.wantMarkup, q.Markup.String())
		})
	}
}

func TestPrice_Deterministic(t *testing.T) {
	p := NewMarkupPricer(map[string]float64{"Bonds": 0.0325})
	amount := decimal.RequireFromString("12345.67")

	first, err := p.Price(context.Background(), "Bonds", amount)
	require.NoError(t, err)
	second, err := p.Price(context.Background(), "Bonds", amount)
	require.NoError(t, err)

	assert.True(t, first.CurrentValue.Equal(second.CurrentValue))
}
