package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/shopspring/decimal"
)

type accountDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	AccountNumber string          `json:"account_number"`
	IFSCCode      string          `json:"ifsc_code"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		AccountNumber: a.AccountNumber,
		IFSCCode:      a.IFSCCode,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

type transactionDTO struct {
	ID               uuid.UUID       `json:"id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	RecipientName    *string         `json:"recipient_name,omitempty"`
	RecipientAccount *string         `json:"recipient_account,omitempty"`
	RecipientPhone   *string         `json:"recipient_phone,omitempty"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:               t.ID,
		Type:             string(t.Direction),
		Amount:           t.Amount,
		Description:      t.Description,
		Category:         t.Category,
		RecipientName:    t.Counterparty.Name,
		RecipientAccount: t.Counterparty.Account,
		RecipientPhone:   t.Counterparty.Phone,
		BalanceAfter:     t.BalanceAfter,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
	}
}

func toTransactionDTOs(ts []domain.Transaction) []transactionDTO {
	out := make([]transactionDTO, len(ts))
	for i := range ts {
		out[i] = toTransactionDTO(&ts[i])
	}
	return out
}

type paymentRequestDTO struct {
	ID             uuid.UUID       `json:"id"`
	RecipientName  string          `json:"recipient_name"`
	RecipientPhone *string         `json:"recipient_phone,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Description    *string         `json:"description,omitempty"`
	Status         string          `json:"status"`
	PaidBy         *uuid.UUID      `json:"paid_by,omitempty"`
	PaymentLink    string          `json:"payment_link,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

func toPaymentRequestDTO(r *domain.PaymentRequest) paymentRequestDTO {
	return paymentRequestDTO{
		ID:             r.ID,
		RecipientName:  r.RecipientName,
		RecipientPhone: r.RecipientPhone,
		Amount:         r.Amount,
		Description:    r.Description,
		Status:         string(r.Status),
		PaidBy:         r.PaidBy,
		CreatedAt:      r.CreatedAt,
		ExpiresAt:      r.ExpiresAt,
	}
}

type loanDTO struct {
	ID              uuid.UUID       `json:"id"`
	LoanType        string          `json:"loan_type"`
	Principal       decimal.Decimal `json:"principal"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	EMIAmount       decimal.Decimal `json:"emi_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TenureMonths    int             `json:"tenure_months"`
	RemainingMonths int             `json:"remaining_months"`
	NextDueDate     string          `json:"next_due_date"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toLoanDTO(l *domain.Loan) loanDTO {
	return loanDTO{
		ID:              l.ID,
		LoanType:        l.LoanType,
		Principal:       l.Principal,
		Outstanding:     l.Outstanding,
		EMIAmount:       l.EMIAmount,
		InterestRate:    l.InterestRate,
		TenureMonths:    l.TenureMonths,
		RemainingMonths: l.RemainingMonths,
		NextDueDate:     l.NextDueDate.Format(time.DateOnly),
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt,
	}
}

type emiPaymentDTO struct {
	ID            uuid.UUID       `json:"id"`
	LoanID        uuid.UUID       `json:"loan_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	PaidAt        time.Time       `json:"paid_at"`
}

func toEMIPaymentDTO(p *domain.EMIPayment) emiPaymentDTO {
	return emiPaymentDTO{
		ID:            p.ID,
		LoanID:        p.LoanID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		DueDate:       p.DueDate.Format(time.DateOnly),
		PaidAt:        p.PaidAt,
	}
}

type investmentDTO struct {
	ID             uuid.UUID        `json:"id"`
	InvestmentType string           `json:"investment_type"`
	Name           string           `json:"name"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrentValue   decimal.Decimal  `json:"current_value"`
	Returns        decimal.Decimal  `json:"returns"`
	ReturnsPercent decimal.Decimal  `json:"returns_percent"`
	Units          *decimal.Decimal `json:"units,omitempty"`
	MaturityDate   *string          `json:"maturity_date,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

func toInvestmentDTO(i *domain.Investment) investmentDTO {
	dto := investmentDTO{
		ID:             i.ID,
		InvestmentType: i.InvestmentType,
		Name:           i.Name,
		Amount:         i.Amount,
		CurrentValue:   i.CurrentValue,
		Returns:        i.Returns,
		ReturnsPercent: i.ReturnsPercent,
		Units:          i.Units,
		Status:         string(i.Status),
		CreatedAt:      i.CreatedAt,
	}
	if i.MaturityDate != nil {
		d := i.MaturityDate.Format(time.DateOnly)
		dto.MaturityDate = &d
	}
	return dto
}
