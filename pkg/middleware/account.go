package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/fkhayef/suitekeep/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AccountIDKey is the context key for the calling account ID
	AccountIDKey ContextKey = "account_id"

	// AccountHeader names the header identifying the calling account.
	// TODO: replace with signed session tokens once the app ships sign-in.
	AccountHeader = "X-Account-ID"
)

// Account reads the calling account from AccountHeader and stores it in the
// request context. Requests without a valid header pass through anonymously.
func Account(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AccountHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		accountID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || accountID <= 0 {
			response.Unauthorized(w, "Invalid "+AccountHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
	})
}

// RequireAccount rejects anonymous requests
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetAccountID(r.Context()); !ok {
			response.Unauthorized(w, AccountHeader+" header required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithAccountID returns a copy of ctx carrying accountID
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// GetAccountID extracts the account ID from the request context
func GetAccountID(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(int64)
	return accountID, ok
}
