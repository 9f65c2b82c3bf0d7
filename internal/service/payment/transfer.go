package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/shopspring/decimal"
)

type SendMoneyRequest struct {
	AccountID        uuid.UUID
	RecipientName    string
	RecipientAccount string
	RecipientPhone   string
	Amount           decimal.Decimal
	Description      string
	PIN              string
}

// SendMoney debits the caller for a transfer to an external recipient.
func (s *Service) SendMoney(ctx context.Context, req SendMoneyRequest) (*domain.Transaction, error) {
	if err := validateSendMoney(req); err != nil {
		return nil, fmt.Errorf("SendMoney: %w", err)
	}

	name := strings.TrimSpace(req.RecipientName)
	description := "Transfer to " + name
	if d := strings.TrimSpace(req.Description); d != "" {
		description += " - " + d
	}

	var entry *domain.Transaction
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		entry, err = s.ledger.Debit(ctx, tx, req.AccountID, req.Amount, ledger.Posting{
			Description: description,
			Category:    domain.CategoryTransfer,
			Counterparty: domain.Counterparty{
				Name:    domain.StringPtr(name),
				Account: domain.StringPtr(strings.TrimSpace(req.RecipientAccount)),
				Phone:   domain.StringPtr(strings.TrimSpace(req.RecipientPhone)),
			},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("SendMoney: %w", err)
	}

	logging.FromContext(ctx).Info("money sent",
		"transaction_id", entry.ID,
		"account_id", req.AccountID,
		"recipient_account", req.RecipientAccount,
		"amount", req.Amount,
		"balance_after", entry.BalanceAfter,
	)
	return entry, nil
}

func validateSendMoney(req SendMoneyRequest) error {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(req.RecipientName) == "" || strings.TrimSpace(req.RecipientAccount) == "" {
		return fmt.Errorf("recipient name and account required: %w", domain.ErrInvalidInput)
	}
	if !validPIN(req.PIN) {
		return domain.ErrInvalidPIN
	}
	return nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
