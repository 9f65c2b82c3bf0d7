package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/securebank/internal/amortization"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/service/loan"
)

type loanService interface {
	List(ctx context.Context, accountID uuid.UUID) ([]domain.Loan, error)
	Get(ctx context.Context, accountID, loanID uuid.UUID) (*domain.Loan, error)
	ListEMIPayments(ctx context.Context, accountID, loanID uuid.UUID) ([]domain.EMIPayment, error)
	Apply(ctx context.Context, req loan.ApplyRequest) (*domain.LoanApplication, error)
	PayEMI(ctx context.Context, accountID, loanID uuid.UUID) (*loan.EMIReceipt, error)
	CalculateEMI(principal, annualRate decimal.Decimal, months int) (amortization.Schedule, error)
}

type LoanHandler struct {
	loans loanService
}

func NewLoanHandler(loans loanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type applyLoanRequest struct {
	LoanType        string          `json:"loan_type" validate:"required,max=50"`
	RequestedAmount decimal.Decimal `json:"requested_amount" validate:"required,gt=0"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income" validate:"required,gt=0"`
	EmploymentType  string          `json:"employment_type" validate:"required,max=50"`
	Purpose         string          `json:"purpose" validate:"required,max=255"`
}

type loanApplicationDTO struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
}

type emiReceiptDTO struct {
	PaymentID        uuid.UUID       `json:"payment_id"`
	TransactionID    uuid.UUID       `json:"transaction_id"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	RemainingMonths  int             `json:"remaining_months"`
	NextDueDate      string          `json:"next_due_date"`
	LoanStatus       string          `json:"loan_status"`
}

type emiScheduleDTO struct {
	EMI           decimal.Decimal `json:"emi"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	loans, err := h.loans.List(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]loanDTO, len(loans))
	for i := range loans {
		out[i] = toLoanDTO(&loans[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, loanID, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	l, err := h.loans.Get(r.Context(), accountID, loanID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLoanDTO(l))
}

func (h *LoanHandler) Payments(w http.ResponseWriter, r *http.Request) {
	accountID, loanID, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	payments, err := h.loans.ListEMIPayments(r.Context(), accountID, loanID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]emiPaymentDTO, len(payments))
	for i := range payments {
		out[i] = toEMIPaymentDTO(&payments[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req applyLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	app, err := h.loans.Apply(r.Context(), loan.ApplyRequest{
		AccountID:       accountID,
		LoanType:        req.LoanType,
		RequestedAmount: req.RequestedAmount,
		MonthlyIncome:   req.MonthlyIncome,
		EmploymentType:  req.EmploymentType,
		Purpose:         req.Purpose,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("loan application failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, loanApplicationDTO{
		ApplicationID: app.ID,
		Status:        string(app.Status),
		Message:       "Loan application submitted successfully",
	})
}

func (h *LoanHandler) PayEMI(w http.ResponseWriter, r *http.Request) {
	accountID, loanID, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	receipt, err := h.loans.PayEMI(r.Context(), accountID, loanID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("emi payment failed", "loan_id", loanID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, emiReceiptDTO{
		PaymentID:        receipt.Payment.ID,
		TransactionID:    receipt.Transaction.ID,
		AmountPaid:       receipt.Payment.Amount,
		BalanceAfter:     receipt.Transaction.BalanceAfter,
		RemainingBalance: receipt.Loan.Outstanding,
		RemainingMonths:  receipt.Loan.RemainingMonths,
		NextDueDate:      receipt.Loan.NextDueDate.Format(time.DateOnly),
		LoanStatus:       string(receipt.Loan.Status),
	})
}

// Calculator serves GET /loans/calculator?principal=&rate=&tenure=.
func (h *LoanHandler) Calculator(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var fields []FieldError
	principal, err := decimal.NewFromString(q.Get("principal"))
	if err != nil {
		fields = append(fields, FieldError{Field: "principal", Message: "must be a decimal number"})
	}
	rate, err := decimal.NewFromString(q.Get("rate"))
	if err != nil {
		fields = append(fields, FieldError{Field: "rate", Message: "must be a decimal number"})
	}
	tenure, err := strconv.Atoi(q.Get("tenure"))
	if err != nil {
		fields = append(fields, FieldError{Field: "tenure", Message: "must be an integer number of months"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	sched, err := h.loans.CalculateEMI(principal, rate, tenure)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, emiScheduleDTO{
		EMI:           sched.EMI,
		TotalAmount:   sched.TotalAmount,
		TotalInterest: sched.TotalInterest,
	})
}
