package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/service"
)

type accountAuthenticator interface {
	Signup(ctx context.Context, req service.SignupRequest) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Account, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

type tokenIssuer interface {
	Issue(accountID uuid.UUID, email string) (string, time.Time, error)
}

type AuthHandler struct {
	accounts accountAuthenticator
	tokens   tokenIssuer
}

func NewAuthHandler(accounts accountAuthenticator, tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Account     accountDTO `json:"account"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accounts.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("signup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	h.respondToken(w, r, http.StatusCreated, account)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		logging.FromContext(r.Context()).Warn("login failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	h.respondToken(w, r, http.StatusOK, account)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
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

func (h *AuthHandler) respondToken(w http.ResponseWriter, r *http.Request, status int, account *domain.Account) {
	token, expiresAt, err := h.tokens.Issue(account.ID, account.Email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to issue token", "account_id", account.ID, "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Account:     toAccountDTO(account),
	})
}
