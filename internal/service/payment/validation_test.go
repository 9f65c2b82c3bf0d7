package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/config"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceWithConfig() *Service {
	return &Service{
		config: &config.Config{
			HistoryDefaultLimit: 50,
			HistoryMaxLimit:     500,
		},
	}
}

func TestValidateSendMoney(t *testing.T) {
	valid := SendMoneyRequest{
		AccountID:        uuid.New(),
		RecipientName:    "Jane Smith",
		RecipientAccount: "ACC9876543210",
		Amount:           decimal.RequireFromString("250.00"),
		PIN:              "1234",
	}

	tests := []struct {
		name    string
		mutate  func(r *SendMoneyRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*SendMoneyRequest) {}},
		{name: "zero amount", mutate: func(r *SendMoneyRequest) { r.Amount = decimal.Zero }, wantErr: domain.ErrInvalidAmount},
		{name: "negative amount", mutate: func(r *SendMoneyRequest) { r.Amount = decimal.NewFromInt(-1) }, wantErr: domain.ErrInvalidAmount},
		{name: "fractional cents", mutate: func(r *SendMoneyRequest) { r.Amount = decimal.RequireFromString("1.005") }, wantErr: domain.ErrInvalidAmount},
		{name: "missing recipient name", mutate: func(r *SendMoneyRequest) { r.RecipientName = "  " }, wantErr: domain.ErrInvalidInput},
		{name: "missing recipient account", mutate: func(r *SendMoneyRequest) { r.RecipientAccount = "" }, wantErr: domain.ErrInvalidInput},
		{name: "short pin", mutate: func(r *SendMoneyRequest) { r.PIN = "123" }, wantErr: domain.ErrInvalidPIN},
		{name: "long pin", mutate: func(r *SendMoneyRequest) { r.PIN = "12345" }, wantErr: domain.ErrInvalidPIN},
		{name: "non-digit pin", mutate: func(r *SendMoneyRequest) { r.PIN = "12a4" }, wantErr: domain.ErrInvalidPIN},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := validateSendMoney(req)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestClampLimit(t *testing.T) {
	svc := newServiceWithConfig()

	tests := []struct {
		name    string
		limit   int
		want    int
		wantErr bool
	}{
		{name: "zero uses default", limit: 0, want: 50},
		{name: "within range", limit: 20, want: 20},
		{name: "at max", limit: 500, want: 500},
		{name: "above max capped", limit: 10_000, want: 500},
		{name: "negative rejected", limit: -1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.clampLimit(tc.limit)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
