package service

import (
	"context"
	"log/slog"
	"time"
)

// Maintenance periodically expires stale payment requests and purges
// idempotency cache entries past their TTL.
type Maintenance struct {
	requests    paymentRequestExpirer
	idempotency idempotencyCleaner
	logger      *slog.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewMaintenance(requests paymentRequestExpirer, idempotency idempotencyCleaner, logger *slog.Logger, interval time.Duration) *Maintenance {
	return &Maintenance{
		requests:    requests,
		idempotency: idempotency,
		logger:      logger,
		interval:    interval,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (m *Maintenance) Start(ctx context.Context) {
	m.logger.Info("maintenance worker started", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("maintenance worker stopped")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Maintenance) sweep(ctx context.Context) {
	cancelled, err := m.requests.CancelExpired(ctx, m.now())
	if err != nil {
		m.logger.Error("failed to expire payment requests", "error", err)
	} else if cancelled > 0 {
		m.logger.Info("expired payment requests cancelled", "count", cancelled)
	}

	if m.idempotency == nil {
		return
	}
	purged, err := m.idempotency.CleanExpired(ctx)
	if err != nil {
		m.logger.Error("failed to purge idempotency cache", "error", err)
		return
	}
	if purged > 0 {
		m.logger.Debug("idempotency cache purged", "count", purged)
	}
}
