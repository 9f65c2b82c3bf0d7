package amortization

import (
	"testing"
	"time"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name         string
		principal    string
		rate         string
		months       int
		wantEMI      string
		wantTotal    string
		wantInterest string
	}{
		{
			name:         "one percent monthly",
			principal:    "100000",
			rate:         "12",
			months:       12,
			wantEMI:      "8884.88",
			wantTotal:    "106618.56",
			wantInterest: "6618.56",
		},
		{
			name:         "zero rate divides evenly",
			principal:    "120000",
			rate:         "0",
			months:       12,
			wantEMI:      "10000",
			wantTotal:    "120000",
			wantInterest: "0",
		},
		{
			name:         "zero rate rounds half up",
			principal:    "100.05",
			rate:         "0",
			months:       2,
			wantEMI:      "50.03",
			wantTotal:    "100.06",
			wantInterest: "0.01",
		},
		{
			name:         "single month",
			principal:    "5000",
			rate:         "12",
			months:       1,
			wantEMI:      "5050",
			wantTotal:    "5050",
			wantInterest: "50",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := CalculateEMI(
				decimal.RequireFromString(tc.principal),
				decimal.RequireFromString(tc.rate),
				tc.months,
			)

			require.NoError(t, err)
			assert.Equal(t, tc.wantEMI, s.EMI.String())
			assert.Equal(t, tc.wantTotal, s.TotalAmount.String())
			assert.Equal(t, tc.wantInterest, s.TotalInterest.String())
		})
	}
}

func TestCalculateEMI_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
	}{
		{"zero principal", "0", "10", 12},
		{"negative rate", "1000", "-1", 12},
		{"zero months", "1000", "10", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateEMI(decimal.RequireFromString(tc.principal), decimal.RequireFromString(tc.rate), tc.months)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"short month overflows", time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextDueDate(tc.in))
		})
	}
}
