// Package investment manages an account's investments from purchase through
// revaluation to sale.
package investment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/pricing"
	"github.com/shopspring/decimal"
)

type investmentRepo interface {
	Create(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error
	Get(ctx context.Context, id, accountID uuid.UUID) (*domain.Investment, error)
	ListActive(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error)
	GetActiveForUpdate(ctx context.Context, tx *sql.Tx, id, accountID uuid.UUID) (*domain.Investment, error)
	Update(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error
}

type ledgerService interface {
	Debit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
	Credit(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, amount decimal.Decimal, p ledger.Posting) (*domain.Transaction, error)
}

// Pricer values a new purchase when the caller supplies no valuation.
type Pricer interface {
	Price(ctx context.Context, investmentType string, amount decimal.Decimal) (*pricing.Quote, error)
}

type Service struct {
	investments investmentRepo
	ledger      ledgerService
	pricer      Pricer
	db          *sql.DB
	now         func() time.Time
}

func NewService(investments investmentRepo, l ledgerService, pricer Pricer, db *sql.DB) *Service {
	return &Service{
		investments: investments,
		ledger:      l,
		pricer:      pricer,
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error) {
	invs, err := s.investments.ListActive(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	if invs == nil {
		invs = []domain.Investment{}
	}
	return invs, nil
}

func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Investment, error) {
	inv, err := s.investments.Get(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return inv, nil
}

func (s *Service) Portfolio(ctx context.Context, accountID uuid.UUID) (domain.PortfolioSummary, error) {
	invs, err := s.investments.ListActive(ctx, accountID)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("Portfolio: %w", err)
	}
	return domain.SummarizePortfolio(invs), nil
}

type CreateRequest struct {
	AccountID      uuid.UUID
	InvestmentType string
	Name           string
	Amount         decimal.Decimal
	CurrentValue   *decimal.Decimal
	Units          *decimal.Decimal
	MaturityDate   *time.Time
}

type Purchase struct {
	Investment  *domain.Investment
	Transaction *domain.Transaction
}

// Create buys an investment, debiting its amount from the account.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Purchase, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	value, err := s.valuation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	inv, err := domain.NewInvestment(domain.NewInvestmentParams{
		AccountID:      req.AccountID,
		InvestmentType: req.InvestmentType,
		Name:           req.Name,
		Amount:         req.Amount,
		CurrentValue:   value,
		Units:          req.Units,
		MaturityDate:   req.MaturityDate,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Create: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.ledger.Debit(ctx, tx, req.AccountID, inv.Amount, ledger.Posting{
		Description: "Investment in " + inv.Name,
		Category:    domain.CategoryInvestment,
	})
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	if err := s.investments.Create(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Create: commit: %w", err)
	}

	logging.FromContext(ctx).Info("investment purchased",
		"investment_id", inv.ID,
		"account_id", req.AccountID,
		"type", inv.InvestmentType,
		"amount", inv.Amount,
		"current_value", inv.CurrentValue,
		"transaction_id", entry.ID,
	)
	return &Purchase{Investment: inv, Transaction: entry}, nil
}

func (s *Service) valuation(ctx context.Context, req CreateRequest) (decimal.Decimal, error) {
	if req.CurrentValue != nil {
		return *req.CurrentValue, nil
	}
	q, err := s.pricer.Price(ctx, req.InvestmentType, req.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	return q.CurrentValue, nil
}

// Revalue applies a single valuation update to an active investment.
func (s *Service) Revalue(ctx context.Context, accountID, id uuid.UUID, r domain.Revaluation) (*domain.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Revalue: begin tx: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.investments.GetActiveForUpdate(ctx, tx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("Revalue: %w", err)
	}
	if err := inv.Revalue(r, s.now()); err != nil {
		return nil, fmt.Errorf("Revalue: %w", err)
	}
	if err := s.investments.Update(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("Revalue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Revalue: commit: %w", err)
	}

	logging.FromContext(ctx).Info("investment revalued",
		"investment_id", inv.ID,
		"current_value", inv.CurrentValue,
		"returns_percent", inv.ReturnsPercent,
	)
	return inv, nil
}

type Sale struct {
	Investment *domain.Investment
	// Transaction is nil when the investment was worth nothing.
	Transaction *domain.Transaction
}

// Sell credits the current value back to the account and retires the
// investment. Selling twice reports not found.
func (s *Service) Sell(ctx context.Context, accountID, id uuid.UUID) (*Sale, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Sell: begin tx: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.investments.GetActiveForUpdate(ctx, tx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}
	if err := inv.Sell(s.now()); err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	var entry *domain.Transaction
	if inv.CurrentValue.IsPositive() {
		entry, err = s.ledger.Credit(ctx, tx, accountID, inv.CurrentValue, ledger.Posting{
			Description: "Investment sold - " + inv.Name,
			Category:    domain.CategoryInvestment,
		})
		if err != nil {
			return nil, fmt.Errorf("Sell: %w", err)
		}
	}

	if err := s.investments.Update(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Sell: commit: %w", err)
	}

	logging.FromContext(ctx).Info("investment sold",
		"investment_id", inv.ID,
		"account_id", accountID,
		"proceeds", inv.CurrentValue,
	)
	return &Sale{Investment: inv, Transaction: entry}, nil
}
