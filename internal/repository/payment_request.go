package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
)

const paymentRequestColumns = `id, account_id, recipient_name, recipient_phone, amount,
	description, status, paid_by, created_at, expires_at, updated_at`

type PaymentRequestRepository struct {
	db *sql.DB
}

func NewPaymentRequestRepository(db *sql.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{db: db}
}

func (r *PaymentRequestRepository) Create(ctx context.Context, req *domain.PaymentRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_requests (`+paymentRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		req.ID, req.AccountID, req.RecipientName, req.RecipientPhone, req.Amount,
		req.Description, req.Status, uuidOrNil(req.PaidBy), req.CreatedAt, req.ExpiresAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *PaymentRequestRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests
		WHERE account_id = $1 ORDER BY created_at DESC, id DESC`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	var reqs []domain.PaymentRequest
	for rows.Next() {
		req, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return reqs, nil
}

func (r *PaymentRequestRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.PaymentRequest, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests WHERE id = $1 FOR UPDATE`, id,
	)
	req, err := scanPaymentRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return req, nil
}

func (r *PaymentRequestRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, req *domain.PaymentRequest) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE payment_requests SET status = $1, paid_by = $2, updated_at = $3 WHERE id = $4`,
		req.Status, uuidOrNil(req.PaidBy), req.UpdatedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// CancelExpired cancels every pending request whose expiry is at or before now.
func (r *PaymentRequestRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_requests SET status = $1, updated_at = $2
		WHERE status = $3 AND expires_at <= $2`,
		domain.PaymentRequestCancelled, now, domain.PaymentRequestPending,
	)
	if err != nil {
		return 0, fmt.Errorf("CancelExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CancelExpired: rows affected: %w", err)
	}
	return n, nil
}

func uuidOrNil(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func scanPaymentRequest(s scanner) (*domain.PaymentRequest, error) {
	var req domain.PaymentRequest
	var paidBy uuid.NullUUID

	err := s.Scan(
		&req.ID, &req.AccountID, &req.RecipientName, &req.RecipientPhone, &req.Amount,
		&req.Description, &req.Status, &paidBy, &req.CreatedAt, &req.ExpiresAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidBy.Valid {
		req.PaidBy = &paidBy.UUID
	}
	return &req, nil
}
