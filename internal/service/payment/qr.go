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
	"github.com/josh-kwaku/securebank/internal/qr"
	"github.com/shopspring/decimal"
)

// QRPaymentRequest pays a merchant either directly (MerchantID and Amount)
// or by redeeming a previously issued Code, whose payload then supplies the
// merchant, amount and description.
type QRPaymentRequest struct {
	AccountID   uuid.UUID
	MerchantID  string
	Amount      decimal.Decimal
	Description string
	Code        string
}

func (s *Service) QRPayment(ctx context.Context, req QRPaymentRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	var claimed *qr.Payload
	req.Code = strings.TrimSpace(req.Code)
	if code := req.Code; code != "" {
		if s.codes == nil {
			return nil, fmt.Errorf("QRPayment: %w", ErrQRCodesUnavailable)
		}
		p, err := s.codes.Claim(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("QRPayment: %w", err)
		}
		claimed = p
		req.MerchantID, req.Amount, req.Description = p.MerchantID, p.Amount, p.Description
	}

	entry, err := s.payMerchant(ctx, req)
	if err != nil {
		if claimed != nil {
			if rerr := s.codes.Release(ctx, req.Code, claimed); rerr != nil {
				log.Error("failed to release qr code after failed payment", "error", rerr)
			}
		}
		return nil, fmt.Errorf("QRPayment: %w", err)
	}

	log.Info("qr payment completed",
		"transaction_id", entry.ID,
		"account_id", req.AccountID,
		"merchant_id", req.MerchantID,
		"amount", req.Amount,
		"via_code", claimed != nil,
	)
	return entry, nil
}

func (s *Service) payMerchant(ctx context.Context, req QRPaymentRequest) (*domain.Transaction, error) {
	merchant := strings.TrimSpace(req.MerchantID)
	if merchant == "" {
		return nil, fmt.Errorf("merchant id required: %w", domain.ErrInvalidInput)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "QR Payment to " + merchant
	}

	var entry *domain.Transaction
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		entry, err = s.ledger.Debit(ctx, tx, req.AccountID, req.Amount, ledger.Posting{
			Description: description,
			Category:    domain.CategoryPayment,
			Counterparty: domain.Counterparty{
				Name:    domain.StringPtr(merchant),
				Account: domain.StringPtr(merchant),
			},
		})
		return err
	})
	return entry, err
}

func (s *Service) IssueQRCode(ctx context.Context, merchantID string, amount decimal.Decimal, description string) (*qr.Issued, error) {
	if s.codes == nil {
		return nil, fmt.Errorf("IssueQRCode: %w", ErrQRCodesUnavailable)
	}
	if strings.TrimSpace(merchantID) == "" {
		return nil, fmt.Errorf("IssueQRCode: merchant id required: %w", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("IssueQRCode: %w", err)
	}

	issued, err := s.codes.Issue(ctx, strings.TrimSpace(merchantID), amount, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("IssueQRCode: %w", err)
	}
	return issued, nil
}
