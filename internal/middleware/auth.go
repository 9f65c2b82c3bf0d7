package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/securebank/internal/auth"
	"github.com/josh-kwaku/securebank/internal/domain"
	"github.com/josh-kwaku/securebank/internal/handler"
	"github.com/josh-kwaku/securebank/internal/logging"
)

type tokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type accountResolver interface {
	Resolve(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

// Auth resolves the bearer token to a live account. Tokens for deleted or
// deactivated accounts are rejected the same way as bad signatures.
func Auth(tokens tokenValidator, accounts accountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			account, err := accounts.Resolve(r.Context(), claims.AccountID)
			if err != nil {
				logging.FromContext(r.Context()).Warn("token rejected", "account_id", claims.AccountID, "error", err)
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			recordAccount(r.Context(), account.ID)
			ctx := auth.ContextWithAccountID(r.Context(), account.ID)
			ctx = logging.With(ctx, "account_id", account.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
