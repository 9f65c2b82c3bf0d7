package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/domain"
)

func newMockIdempotency(t *testing.T) (*IdempotencyRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewIdempotencyRepository(db), mock
}

func TestIdempotencySet(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "stored", affected: 1},
		{name: "live entry already holds key", affected: 0, wantErr: domain.ErrDuplicateIdempotencyKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockIdempotency(t)
			now := time.Now().UTC()
			entry := &IdempotencyCacheEntry{
				Key: "k1", AccountID: uuid.New(), RequestHash: "abc", StatusCode: 201,
				ResponseBody: []byte(`{}`), CreatedAt: now, ExpiresAt: now.Add(time.Hour),
			}

			mock.ExpectExec(`INSERT INTO idempotency_cache`).
				WithArgs(entry.Key, entry.AccountID, entry.RequestHash, entry.StatusCode, entry.ResponseBody, entry.CreatedAt, entry.ExpiresAt).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			err := repo.Set(context.Background(), entry)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdempotencyGet_Miss(t *testing.T) {
	repo, mock := newMockIdempotency(t)
	accountID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM idempotency_cache`).
		WithArgs("k1", accountID).
		WillReturnError(sql.ErrNoRows)

	entry, err := repo.Get(context.Background(), "k1", accountID)
	require.NoError(t, err)
	assert.Nil(t, entry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(sql.ErrNoRows, ""))
}
