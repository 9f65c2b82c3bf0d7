package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
)

const loanColumns = `id, account_id, loan_type, principal, outstanding, emi_amount,
	interest_rate, tenure_months, remaining_months, next_due_date, status,
	version, created_at, updated_at`

const emiPaymentColumns = `id, loan_id, account_id, transaction_id, amount, due_date, paid_at`

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (
			id, account_id, loan_type, principal, outstanding, emi_amount,
			interest_rate, tenure_months, remaining_months, next_due_date, status,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		loan.ID, loan.AccountID, loan.LoanType, loan.Principal, loan.Outstanding, loan.EMIAmount,
		loan.InterestRate, loan.TenureMonths, loan.RemainingMonths, loan.NextDueDate, loan.Status,
		loan.Version, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Get returns the loan only when it belongs to accountID.
func (r *LoanRepository) Get(ctx context.Context, id, accountID uuid.UUID) (*domain.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND account_id = $2`, id, accountID,
	)
	l, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return l, nil
}

func (r *LoanRepository) ListActive(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans
		WHERE account_id = $1 AND status = $2 ORDER BY next_due_date, id`,
		accountID, domain.LoanStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: scan: %w", err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: rows: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id, accountID uuid.UUID) (*domain.Loan, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND account_id = $2 FOR UPDATE`, id, accountID,
	)
	l, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return l, nil
}

// Update persists a mutated loan whose Version was bumped by exactly one.
func (r *LoanRepository) Update(ctx context.Context, tx *sql.Tx, loan *domain.Loan) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE loans SET outstanding = $1, remaining_months = $2, next_due_date = $3,
			status = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8`,
		loan.Outstanding, loan.RemainingMonths, loan.NextDueDate,
		loan.Status, loan.Version, loan.UpdatedAt,
		loan.ID, loan.Version-1,
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

func (r *LoanRepository) CreatePayment(ctx context.Context, tx *sql.Tx, p *domain.EMIPayment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO emi_payments (`+emiPaymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.LoanID, p.AccountID, p.TransactionID, p.Amount, p.DueDate, p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("CreatePayment: %w", err)
	}
	return nil
}

func (r *LoanRepository) ListPayments(ctx context.Context, loanID, accountID uuid.UUID) ([]domain.EMIPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+emiPaymentColumns+` FROM emi_payments
		WHERE loan_id = $1 AND account_id = $2 ORDER BY paid_at DESC, id DESC`,
		loanID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPayments: %w", err)
	}
	defer rows.Close()

	var payments []domain.EMIPayment
	for rows.Next() {
		var p domain.EMIPayment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.AccountID, &p.TransactionID, &p.Amount, &p.DueDate, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("ListPayments: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPayments: rows: %w", err)
	}
	return payments, nil
}

func (r *LoanRepository) CreateApplication(ctx context.Context, app *domain.LoanApplication) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loan_applications (
			id, account_id, loan_type, requested_amount, monthly_income,
			employment_type, purpose, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.AccountID, app.LoanType, app.RequestedAmount, app.MonthlyIncome,
		app.EmploymentType, app.Purpose, app.Status, app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateApplication: %w", err)
	}
	return nil
}

func scanLoan(s scanner) (*domain.Loan, error) {
	var l domain.Loan
	err := s.Scan(
		&l.ID, &l.AccountID, &l.LoanType, &l.Principal, &l.Outstanding, &l.EMIAmount,
		&l.InterestRate, &l.TenureMonths, &l.RemainingMonths, &l.NextDueDate, &l.Status,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
