package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/securebank/internal/auth"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/handler"
	"github.com/josh-kwaku/securebank/internal/middleware"
)

type noAccounts struct{}

func (noAccounts) Resolve(context.Context, uuid.UUID) (*domain.Account, error) {
	return nil, domain.ErrUnauthenticated
}

func passThrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectPing()

	return New(
		Config{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			AllowedOrigins: []string{"https://app.securebank.com"},
			RequestTimeout: 5 * time.Second,
			OpenAPISpec:    []byte("openapi: 3.0.3\n"),
		},
		Handlers{Health: handler.NewHealthHandler(db, nil)},
		middleware.Auth(auth.NewIssuer("secret", time.Hour), noAccounts{}),
		passThrough,
	)
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health/live", wantStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/health/ready", wantStatus: http.StatusOK},
		{name: "openapi document", method: http.MethodGet, path: "/docs/openapi.yaml", wantStatus: http.StatusOK},
		{name: "protected without token", method: http.MethodGet, path: "/api/v1/user/balance", wantStatus: http.StatusUnauthorized},
		{name: "loan route without token", method: http.MethodPost, path: "/api/v1/loans/" + uuid.NewString() + "/pay-emi", wantStatus: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPatch, path: "/health/live", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions/send-money", nil)
	req.Header.Set("Origin", "https://app.securebank.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Idempotency-Key")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.securebank.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}
