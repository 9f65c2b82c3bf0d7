package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/shopspring/decimal"
)

type accountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
	Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error
	UpdateProfile(ctx context.Context, account *domain.Account) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type ledgerPoster interface {
	Debit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
	Credit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
}

type paymentRequestExpirer interface {
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}

type idempotencyCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}
