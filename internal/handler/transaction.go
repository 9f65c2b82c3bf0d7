package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/qr"
	"github.com/josh-kwaku/securebank/internal/service/payment"
)

type paymentService interface {
	SendMoney(ctx context.Context, req payment.SendMoneyRequest) (*domain.Transaction, error)
	RequestMoney(ctx context.Context, req payment.RequestMoneyRequest) (*payment.IssuedRequest, error)
	ListPaymentRequests(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentRequest, error)
	PayRequest(ctx context.Context, payerID, requestID uuid.UUID) (*domain.Transaction, error)
	CancelPaymentRequest(ctx context.Context, accountID, requestID uuid.UUID) (*domain.PaymentRequest, error)
	QRPayment(ctx context.Context, req payment.QRPaymentRequest) (*domain.Transaction, error)
	IssueQRCode(ctx context.Context, merchantID string, amount decimal.Decimal, description string) (*qr.Issued, error)
	History(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, limit int) ([]domain.Transaction, error)
	Recent(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	payments paymentService
}

func NewTransactionHandler(payments paymentService) *TransactionHandler {
	return &TransactionHandler{payments: payments}
}

type sendMoneyRequest struct {
	RecipientName    string          `json:"recipient_name" validate:"required,max=100"`
	RecipientAccount string          `json:"recipient_account" validate:"required,max=34"`
	RecipientPhone   string          `json:"recipient_phone" validate:"omitempty,max=20"`
	Amount           decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description      string          `json:"description" validate:"omitempty,max=255"`
	PIN              string          `json:"pin" validate:"required,pin"`
}

type sendMoneyResponse struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Recipient     string          `json:"recipient"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

type requestMoneyRequest struct {
	RecipientName  string          `json:"recipient_name" validate:"required,max=100"`
	RecipientPhone string          `json:"recipient_phone" validate:"omitempty,max=20"`
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description    string          `json:"description" validate:"omitempty,max=255"`
}

type qrPaymentRequest struct {
	MerchantID  string          `json:"merchant_id" validate:"required_without=Code,max=64"`
	Amount      decimal.Decimal `json:"amount" validate:"required_without=Code"`
	Description string          `json:"description" validate:"omitempty,max=255"`
	Code        string          `json:"code" validate:"omitempty,max=64"`
}

type issueQRCodeRequest struct {
	MerchantID  string          `json:"merchant_id" validate:"required,max=64"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description string          `json:"description" validate:"omitempty,max=255"`
}

type qrCodeResponse struct {
	Code      string    `json:"code"`
	ImagePNG  string    `json:"image_png_base64"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *TransactionHandler) SendMoney(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req sendMoneyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.payments.SendMoney(r.Context(), payment.SendMoneyRequest{
		AccountID:        accountID,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		RecipientPhone:   req.RecipientPhone,
		Amount:           req.Amount,
		Description:      req.Description,
		PIN:              req.PIN,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("send money failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, sendMoneyResponse{
		TransactionID: entry.ID,
		Amount:        entry.Amount,
		Recipient:     req.RecipientName,
		BalanceAfter:  entry.BalanceAfter,
		Status:        string(entry.Status),
		Timestamp:     entry.CreatedAt,
	})
}

func (h *TransactionHandler) RequestMoney(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req requestMoneyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	issued, err := h.payments.RequestMoney(r.Context(), payment.RequestMoneyRequest{
		AccountID:      accountID,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Amount:         req.Amount,
		Description:    req.Description,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("request money failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := toPaymentRequestDTO(issued.Request)
	dto.PaymentLink = issued.PaymentLink
	RespondSuccess(w, http.StatusCreated, dto)
}

func (h *TransactionHandler) ListPaymentRequests(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	reqs, err := h.payments.ListPaymentRequests(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]paymentRequestDTO, len(reqs))
	for i := range reqs {
		out[i] = toPaymentRequestDTO(&reqs[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *TransactionHandler) PayRequest(w http.ResponseWriter, r *http.Request) {
	accountID, requestID, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entry, err := h.payments.PayRequest(r.Context(), accountID, requestID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("pay request failed", "request_id", requestID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(entry))
}

func (h *TransactionHandler) CancelPaymentRequest(w http.ResponseWriter, r *http.Request) {
	accountID, requestID, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	pr, err := h.payments.CancelPaymentRequest(r.Context(), accountID, requestID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("cancel request failed", "request_id", requestID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPaymentRequestDTO(pr))
}

func (h *TransactionHandler) QRPayment(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req qrPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.payments.QRPayment(r.Context(), payment.QRPaymentRequest{
		AccountID:   accountID,
		MerchantID:  req.MerchantID,
		Amount:      req.Amount,
		Description: req.Description,
		Code:        req.Code,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("qr payment failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(entry))
}

func (h *TransactionHandler) IssueQRCode(w http.ResponseWriter, r *http.Request) {
	if _, appErr := callerID(r); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req issueQRCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	issued, err := h.payments.IssueQRCode(r.Context(), req.MerchantID, req.Amount, req.Description)
	if err != nil {
		logging.FromContext(r.Context()).Warn("qr code issue failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, qrCodeResponse{
		Code:      issued.Code,
		ImagePNG:  issued.ImagePNG,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a positive integer"}})
			return
		}
		limit = n
	}

	filter := domain.HistoryFilter{
		Category:  q.Get("category"),
		Direction: domain.Direction(q.Get("type")),
	}

	txns, err := h.payments.History(r.Context(), accountID, filter, limit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(txns))
}

func (h *TransactionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	txns, err := h.payments.Recent(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(txns))
}
