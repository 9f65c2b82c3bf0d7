package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
)

const transactionColumns = `id, account_id, direction, amount, description, category,
	counterparty_name, counterparty_account, counterparty_phone,
	balance_after, status, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, account_id, direction, amount, description, category,
			counterparty_name, counterparty_account, counterparty_phone,
			balance_after, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.AccountID, t.Direction, t.Amount, t.Description, t.Category,
		t.Counterparty.Name, t.Counterparty.Account, t.Counterparty.Phone,
		t.BalanceAfter, t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Page returns up to limit entries for the account, newest first, starting
// after the cursor when one is given.
func (r *TransactionRepository) Page(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, after *domain.HistoryCursor, limit int) ([]domain.Transaction, error) {
	var afterAt sql.NullTime
	var afterID uuid.NullUUID
	if after != nil {
		afterAt = sql.NullTime{Time: after.CreatedAt, Valid: true}
		afterID = uuid.NullUUID{UUID: after.ID, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1
			AND ($2 = '' OR category = $2)
			AND ($3 = '' OR direction = $3)
			AND ($4::timestamptz IS NULL OR (created_at, id) < ($4, $5::uuid))
		ORDER BY created_at DESC, id DESC
		LIMIT $6`,
		accountID, filter.Category, string(filter.Direction), afterAt, afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("Page: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("Page: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Page: rows: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountByAccount: %w", err)
	}
	return n, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.AccountID, &t.Direction, &t.Amount, &t.Description, &t.Category,
		&t.Counterparty.Name, &t.Counterparty.Account, &t.Counterparty.Phone,
		&t.BalanceAfter, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
