package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
)

type accountService interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, update domain.ProfileUpdate) (*domain.Account, error)
	GetBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (*domain.Transaction, error)
	Deactivate(ctx context.Context, accountID uuid.UUID) error
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=1,max=20"`
}

type adjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetProfile(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), accountID, domain.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("profile update failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	balance, err := h.accounts.GetBalance(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (h *AccountHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req adjustBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.accounts.AdjustBalance(r.Context(), accountID, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance adjustment failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(entry))
}

func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.accounts.Deactivate(r.Context(), accountID); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "account deactivated"})
}
