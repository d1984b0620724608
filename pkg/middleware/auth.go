package middleware

import (
	"context"
	"net/http"
)

type contextKey string

// accountIDKey is the request-context key holding the caller's account id.
const accountIDKey contextKey = "accountID"

// AccountIdHeader carries the caller identity established by the upstream
// identity provider. The gateway strips any client-supplied value before it
// reaches us, so the header is trusted here.
const AccountIdHeader = "X-Account-Id"

// RequireAccount rejects requests without a caller identity and stashes the
// account id in the request context for handlers.
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := r.Header.Get(AccountIdHeader)
		if accountID == "" {
			http.Error(w, "Missing "+AccountIdHeader+" header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountID returns the caller's account id from the request context, or ""
// when the request did not pass through RequireAccount.
func AccountID(ctx context.Context) string {
	accountID, _ := ctx.Value(accountIDKey).(string)
	return accountID
}
