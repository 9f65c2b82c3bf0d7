// Package payment orchestrates caller-initiated money movement: transfers,
// payment requests, QR payments, and transaction history. Each use case runs
// as one database transaction over the ledger.
package payment

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/config"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/qr"
	"github.com/shopspring/decimal"
)

// ErrQRCodesUnavailable is returned by code-based QR operations when no
// code store is configured.
var ErrQRCodesUnavailable = errors.New("qr codes unavailable")

type ledgerService interface {
	Debit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
	Credit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
	LockAccounts(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error)
	History(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, limit int) iter.Seq2[domain.Transaction, error]
}

type requestRepo interface {
	Create(ctx context.Context, req *domain.PaymentRequest) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentRequest, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.PaymentRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, req *domain.PaymentRequest) error
}

// QRCodeStore issues and redeems single-use merchant QR codes.
type QRCodeStore interface {
	Issue(ctx context.Context, merchantID string, amount decimal.Decimal, description string) (*qr.Issued, error)
	Claim(ctx context.Context, code string) (*qr.Payload, error)
	Release(ctx context.Context, code string, p *qr.Payload) error
}

type Service struct {
	ledger   ledgerService
	requests requestRepo
	codes    QRCodeStore
	db       *sql.DB
	config   *config.Config
	now      func() time.Time
}

// NewService wires the payment use cases. codes may be nil, in which case
// merchant-id QR payments still work but code issuance and redemption fail
// with ErrQRCodesUnavailable.
func NewService(
	l ledgerService,
	requests requestRepo,
	codes QRCodeStore,
	db *sql.DB,
	cfg *config.Config,
) *Service {
	return &Service{
		ledger:   l,
		requests: requests,
		codes:    codes,
		db:       db,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
