package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
)

const investmentColumns = `id, account_id, investment_type, name, amount, current_value,
	returns, returns_percent, units, maturity_date, status, version, created_at, updated_at`

type InvestmentRepository struct {
	db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	var units decimal.NullDecimal
	if inv.Units != nil {
		units = decimal.NewNullDecimal(*inv.Units)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO investments (`+investmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inv.ID, inv.AccountID, inv.InvestmentType, inv.Name, inv.Amount, inv.CurrentValue,
		inv.Returns, inv.ReturnsPercent, units, inv.MaturityDate, inv.Status, inv.Version,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) ListActive(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments
		WHERE account_id = $1 AND status = $2 ORDER BY created_at DESC, id DESC`,
		accountID, domain.InvestmentStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer rows.Close()

	var investments []domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: scan: %w", err)
		}
		investments = append(investments, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: rows: %w", err)
	}
	return investments, nil
}

func (r *InvestmentRepository) Get(ctx context.Context, id, accountID uuid.UUID) (*domain.Investment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1 AND account_id = $2`, id, accountID,
	)
	inv, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return inv, nil
}

// GetActiveForUpdate locks an active investment owned by accountID. Sold or
// matured investments are reported as not found.
func (r *InvestmentRepository) GetActiveForUpdate(ctx context.Context, tx *sql.Tx, id, accountID uuid.UUID) (*domain.Investment, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments
		WHERE id = $1 AND account_id = $2 AND status = $3 FOR UPDATE`,
		id, accountID, domain.InvestmentStatusActive,
	)
	inv, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetActiveForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetActiveForUpdate: %w", err)
	}
	return inv, nil
}

func (r *InvestmentRepository) Update(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE investments SET current_value = $1, returns = $2, returns_percent = $3,
			status = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8`,
		inv.CurrentValue, inv.Returns, inv.ReturnsPercent,
		inv.Status, inv.Version, inv.UpdatedAt,
		inv.ID, inv.Version-1,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrConflict)
	}
	return nil
}

func scanInvestment(s scanner) (*domain.Investment, error) {
	var inv domain.Investment
	var units decimal.NullDecimal
	var maturity sql.NullTime

	err := s.Scan(
		&inv.ID, &inv.AccountID, &inv.InvestmentType, &inv.Name, &inv.Amount, &inv.CurrentValue,
		&inv.Returns, &inv.ReturnsPercent, &units, &maturity, &inv.Status, &inv.Version,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if units.Valid {
		inv.Units = &units.Decimal
	}
	if maturity.Valid {
		inv.MaturityDate = &maturity.Time
	}
	return &inv, nil
}
