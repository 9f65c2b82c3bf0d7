package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/shopspring/decimal"
)

type RequestMoneyRequest struct {
	AccountID      uuid.UUID
	RecipientName  string
	RecipientPhone string
	Amount         decimal.Decimal
	Description    string
}

// IssuedRequest is a newly created payment request plus the link the
// requester shares with the payer.
type IssuedRequest struct {
	Request     *domain.PaymentRequest
	PaymentLink string
}

func (s *Service) RequestMoney(ctx context.Context, req RequestMoneyRequest) (*IssuedRequest, error) {
	pr, err := domain.NewPaymentRequest(domain.NewPaymentRequestParams{
		AccountID:      req.AccountID,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Amount:         req.Amount,
		Description:    req.Description,
		TTL:            s.config.PaymentRequestTTL,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("RequestMoney: %w", err)
	}

	if err := s.requests.Create(ctx, pr); err != nil {
		return nil, fmt.Errorf("RequestMoney: %w", err)
	}

	logging.FromContext(ctx).Info("payment request created",
		"request_id", pr.ID,
		"account_id", req.AccountID,
		"amount", pr.Amount,
		"expires_at", pr.ExpiresAt,
	)
	return &IssuedRequest{Request: pr, PaymentLink: s.config.PaymentLinkBase + pr.ID.String()}, nil
}

func (s *Service) ListPaymentRequests(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentRequest, error) {
	reqs, err := s.requests.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ListPaymentRequests: %w", err)
	}
	if reqs == nil {
		reqs = []domain.PaymentRequest{}
	}
	return reqs, nil
}

// PayRequest fulfils a pending request: the payer is debited, the requester
// credited, and the request marked completed in one transaction.
func (s *Service) PayRequest(ctx context.Context, payerID, requestID uuid.UUID) (*domain.Transaction, error) {
	var debit *domain.Transaction
	var pr *domain.PaymentRequest

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		pr, err = s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := pr.Fulfil(payerID, s.now()); err != nil {
			return err
		}

		accts, err := s.ledger.LockAccounts(ctx, tx, payerID, pr.AccountID)
		if err != nil {
			return err
		}
		payer, requester := accts[payerID], accts[pr.AccountID]

		debit, err = s.ledger.Debit(ctx, tx, payerID, pr.Amount, ledger.Posting{
			Description: "Payment request from " + requester.Name,
			Category:    domain.CategoryRequest,
			Counterparty: domain.Counterparty{
				Name:    domain.StringPtr(requester.Name),
				Account: domain.StringPtr(requester.AccountNumber),
				Phone:   domain.StringPtr(requester.Phone),
			},
		})
		if err != nil {
			return err
		}

		if _, err := s.ledger.Credit(ctx, tx, pr.AccountID, pr.Amount, ledger.Posting{
			Description: "Payment received from " + payer.Name,
			Category:    domain.CategoryRequest,
			Counterparty: domain.Counterparty{
				Name:    domain.StringPtr(payer.Name),
				Account: domain.StringPtr(payer.AccountNumber),
				Phone:   domain.StringPtr(payer.Phone),
			},
		}); err != nil {
			return err
		}

		return s.requests.UpdateStatus(ctx, tx, pr)
	})
	if err != nil {
		return nil, fmt.Errorf("PayRequest: %w", err)
	}

	logging.FromContext(ctx).Info("payment request paid",
		"request_id", pr.ID,
		"payer_account", payerID,
		"requester_account", pr.AccountID,
		"amount", pr.Amount,
		"transaction_id", debit.ID,
	)
	return debit, nil
}

// CancelPaymentRequest withdraws a pending request. Requests owned by other
// accounts are reported as not found.
func (s *Service) CancelPaymentRequest(ctx context.Context, accountID, requestID uuid.UUID) (*domain.PaymentRequest, error) {
	var pr *domain.PaymentRequest
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		pr, err = s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if pr.AccountID != accountID {
			return domain.ErrNotFound
		}
		if err := pr.Cancel(s.now()); err != nil {
			return err
		}
		return s.requests.UpdateStatus(ctx, tx, pr)
	})
	if err != nil {
		return nil, fmt.Errorf("CancelPaymentRequest: %w", err)
	}

	logging.FromContext(ctx).Info("payment request cancelled", "request_id", pr.ID, "account_id", accountID)
	return pr, nil
}
