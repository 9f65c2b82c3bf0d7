package loan

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/amortization"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
)

type EMIReceipt struct {
	Loan        *domain.Loan
	Payment     *domain.EMIPayment
	Transaction *domain.Transaction
}

// PayEMI debits one installment and advances the loan's schedule. The loan
// row is locked before the account so concurrent payments on the same loan
// serialize.
func (s *Service) PayEMI(ctx context.Context, accountID, loanID uuid.UUID) (*EMIReceipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("PayEMI: begin tx: %w", err)
	}
	defer tx.Rollback()

	loan, err := s.loans.GetForUpdate(ctx, tx, loanID, accountID)
	if err != nil {
		return nil, fmt.Errorf("PayEMI: %w", err)
	}

	now := s.now()
	emi := loan.EMIAmount
	settled, err := loan.ApplyPayment(amortization.NextDueDate(loan.NextDueDate), now)
	if err != nil {
		return nil, fmt.Errorf("PayEMI: %w", err)
	}

	entry, err := s.ledger.Debit(ctx, tx, accountID, emi, ledger.Posting{
		Description: "EMI Payment - " + loan.LoanType,
		Category:    domain.CategoryEMI,
	})
	if err != nil {
		return nil, fmt.Errorf("PayEMI: %w", err)
	}

	if err := s.loans.Update(ctx, tx, loan); err != nil {
		return nil, fmt.Errorf("PayEMI: %w", err)
	}

	payment := &domain.EMIPayment{
		ID:            uuid.New(),
		LoanID:        loan.ID,
		AccountID:     accountID,
		TransactionID: entry.ID,
		Amount:        emi,
		DueDate:       settled,
		PaidAt:        now,
	}
	if err := s.loans.CreatePayment(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("PayEMI: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("PayEMI: commit: %w", err)
	}

	logging.FromContext(ctx).Info("emi paid",
		"loan_id", loan.ID,
		"account_id", accountID,
		"amount", emi,
		"outstanding", loan.Outstanding,
		"status", loan.Status,
		"transaction_id", entry.ID,
	)
	return &EMIReceipt{Loan: loan, Payment: payment, Transaction: entry}, nil
}
