package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/service/investment"
)

type investmentService interface {
	List(ctx context.Context, accountID uuid.UUID) ([]domain.Investment, error)
	Portfolio(ctx context.Context, accountID uuid.UUID) (domain.PortfolioSummary, error)
	Create(ctx context.Context, req investment.CreateRequest) (*investment.Purchase, error)
	Revalue(ctx context.Context, accountID, id uuid.UUID, r domain.Revaluation) (*domain.Investment, error)
	Sell(ctx context.Context, accountID, id uuid.UUID) (*investment.Sale, error)
}

type InvestmentHandler struct {
	investments investmentService
}

func NewInvestmentHandler(investments investmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

type createInvestmentRequest struct {
	InvestmentType string           `json:"investment_type" validate:"required,max=50"`
	Name           string           `json:"name" validate:"required,max=100"`
	Amount         decimal.Decimal  `json:"amount" validate:"required,gt=0"`
	CurrentValue   *decimal.Decimal `json:"current_value" validate:"omitempty,gte=0"`
	Units          *decimal.Decimal `json:"units" validate:"omitempty,gt=0"`
	MaturityDate   string           `json:"maturity_date" validate:"omitempty,datetime=2006-01-02"`
}

type revalueRequest struct {
	CurrentValue   *decimal.Decimal `json:"current_value"`
	Returns        *decimal.Decimal `json:"returns"`
	ReturnsPercent *decimal.Decimal `json:"returns_percent"`
}

type portfolioDTO struct {
	TotalInvested       decimal.Decimal `json:"total_invested"`
	TotalCurrentValue   decimal.Decimal `json:"total_current_value"`
	TotalReturns        decimal.Decimal `json:"total_returns"`
	TotalReturnsPercent decimal.Decimal `json:"total_returns_percent"`
	InvestmentsCount    int             `json:"investments_count"`
}

type saleDTO struct {
	InvestmentID  uuid.UUID       `json:"investment_id"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	Status        string          `json:"status"`
}

func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	invs, err := h.investments.List(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]investmentDTO, len(invs))
	for i := range invs {
		out[i] = toInvestmentDTO(&invs[i])
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *InvestmentHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	s, err := h.investments.Portfolio(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, portfolioDTO{
		TotalInvested:       s.TotalInvested,
		TotalCurrentValue:   s.TotalCurrentValue,
		TotalReturns:        s.TotalReturns,
		TotalReturnsPercent: s.TotalReturnsPercent,
		InvestmentsCount:    s.InvestmentsCount,
	})
}

func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var maturity *time.Time
	if req.MaturityDate != "" {
		d, _ := time.Parse(time.DateOnly, req.MaturityDate)
		maturity = &d
	}

	p, err := h.investments.Create(r.Context(), investment.CreateRequest{
		AccountID:      accountID,
		InvestmentType: req.InvestmentType,
		Name:           req.Name,
		Amount:         req.Amount,
		CurrentValue:   req.CurrentValue,
		Units:          req.Units,
		MaturityDate:   maturity,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("investment purchase failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toInvestmentDTO(p.Investment))
}

func (h *InvestmentHandler) Revalue(w http.ResponseWriter, r *http.Request) {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req revalueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.investments.Revalue(r.Context(), accountID, id, domain.Revaluation{
		CurrentValue:   req.CurrentValue,
		Returns:        req.Returns,
		ReturnsPercent: req.ReturnsPercent,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("investment revaluation failed", "investment_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toInvestmentDTO(inv))
}

func (h *InvestmentHandler) Sell(w http.ResponseWriter, r *http.Request) {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	sale, err := h.investments.Sell(r.Context(), accountID, id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("investment sale failed", "investment_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := saleDTO{
		InvestmentID: sale.Investment.ID,
		Proceeds:     sale.Investment.CurrentValue,
		Status:       string(sale.Investment.Status),
	}
	if sale.Transaction != nil {
		dto.TransactionID = &sale.Transaction.ID
	}
	RespondSuccess(w, http.StatusOK, dto)
}
