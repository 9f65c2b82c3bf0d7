package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/ledger"
)

const recentLimit = 5

// History returns the account's log newest first. A zero limit selects the
// configured default; larger limits are capped at the configured maximum.
func (s *Service) History(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, limit int) ([]domain.Transaction, error) {
	n, err := s.clampLimit(limit)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	txns, err := ledger.Collect(s.ledger.History(ctx, accountID, filter, n))
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return txns, nil
}

func (s *Service) Recent(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := ledger.Collect(s.ledger.History(ctx, accountID, domain.HistoryFilter{}, recentLimit))
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	return txns, nil
}

func (s *Service) clampLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidInput)
	case limit == 0:
		return s.config.HistoryDefaultLimit, nil
	case limit > s.config.HistoryMaxLimit:
		return s.config.HistoryMaxLimit, nil
	}
	return limit, nil
}
