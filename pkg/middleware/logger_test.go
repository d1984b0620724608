package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stablevault/custodial-wallet-ledger/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

func loggedRequest(t *testing.T, status int, accountID string) string {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	if accountID != "" {
		req.Header.Set(middleware.AccountIdHeader, accountID)
	}
	rr := httptest.NewRecorder()

	middleware.NewStructuredLogger(logger)(next).ServeHTTP(rr, req)
	return buf.String()
}

func TestStructuredLogger(t *testing.T) {
	t.Run("Tags Caller Identity", func(t *testing.T) {
		out := loggedRequest(t, http.StatusCreated, "acct-1")

		assert.Contains(t, out, "request served")
		assert.Contains(t, out, "status=201")
		assert.Contains(t, out, "path=/transfers")
		assert.Contains(t, out, "accountId=acct-1")
	})

	t.Run("Warns On Client Errors", func(t *testing.T) {
		out := loggedRequest(t, http.StatusUnprocessableEntity, "")

		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "request rejected")
		assert.NotContains(t, out, "accountId")
	})

	t.Run("Errors On Server Errors", func(t *testing.T) {
		out := loggedRequest(t, http.StatusInternalServerError, "")

		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "request failed")
	})
}
