package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stablevault/custodial-wallet-ledger/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRequireAccount(t *testing.T) {
	var gotAccountID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID = middleware.AccountID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Passes Account Id Through Context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		req.Header.Set(middleware.AccountIdHeader, "acct-1")
		rr := httptest.NewRecorder()

		middleware.RequireAccount(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "acct-1", gotAccountID)
	})

	t.Run("Rejects Missing Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		rr := httptest.NewRecorder()

		middleware.RequireAccount(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
