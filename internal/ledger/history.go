package ledger

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/domain"
)

// History yields the account's log entries newest first, at most limit of
// them (no cap when limit <= 0). Pages are fetched lazily as the caller
// ranges, and every range over the returned sequence starts from the top.
func (l *Ledger) History(ctx context.Context, accountID uuid.UUID, filter domain.HistoryFilter, limit int) iter.Seq2[domain.Transaction, error] {
	return func(yield func(domain.Transaction, error) bool) {
		if err := filter.Validate(); err != nil {
			yield(domain.Transaction{}, fmt.Errorf("History: %w", err))
			return
		}

		var after *domain.HistoryCursor
		emitted := 0
		for {
			size := l.pageSize
			if limit > 0 {
				size = min(size, limit-emitted)
			}

			page, err := l.txns.Page(ctx, accountID, filter, after, size)
			if err != nil {
				yield(domain.Transaction{}, fmt.Errorf("History: %w", err))
				return
			}

			for _, t := range page {
				if !yield(t, nil) {
					return
				}
				emitted++
			}

			if len(page) < size || (limit > 0 && emitted >= limit) {
				return
			}
			last := page[len(page)-1]
			after = &domain.HistoryCursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
	}
}

// Collect drains a history sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[domain.Transaction, error]) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for t, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
