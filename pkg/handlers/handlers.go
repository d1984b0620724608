// Package handlers implements the HTTP surface of the ledger service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stablevault/custodial-wallet-ledger/pkg/api"
	"github.com/stablevault/custodial-wallet-ledger/pkg/ledger"
	"github.com/stablevault/custodial-wallet-ledger/pkg/mapping"
	"github.com/stablevault/custodial-wallet-ledger/pkg/middleware"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
)

// Engine is the slice of the ledger engine the HTTP layer drives. Crediting
// deposits is deliberately absent: only the reconciler moves deposit money.
type Engine interface {
	Transfer(ctx context.Context, fromAccountID, toWalletID string, amount int64) (*models.Transaction, int64, error)
	Withdraw(ctx context.Context, accountID string, amount int64, destination string) (*models.Transaction, int64, error)
	RequestDeposit(ctx context.Context, accountID string, amount int64) (*models.PendingDeposit, error)
}

// ApiHandler holds the application's HTTP dependencies.
type ApiHandler struct {
	Store  storage.ApiStore
	Engine Engine
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(store storage.ApiStore, engine Engine) *ApiHandler {
	return &ApiHandler{Store: store, Engine: engine}
}

// Routes mounts every handler on a router. Balance-mutating and
// transaction-reading routes require a caller identity.
func (h *ApiHandler) Routes(r chi.Router) {
	r.Post("/accounts", h.CreateAccount)
	r.Get("/accounts", h.ListAccounts)
	r.Get("/accounts/{accountId}", h.GetAccountById)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccount)
		r.Post("/transfers", h.CreateTransfer)
		r.Post("/withdrawals", h.CreateWithdrawal)
		r.Post("/deposits", h.CreateDeposit)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{transactionId}", h.GetTransactionById)
	})
}

// CreateAccount handles the logic for registering a new account.
func (h *ApiHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var newAcct api.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&newAcct); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if newAcct.AccountId == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	domainAcct := mapping.ToDomainNewAccount(&newAcct)

	createdAcct, err := h.Store.CreateAccount(r.Context(), domainAcct)
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			http.Error(w, "Account already exists", http.StatusConflict)
		} else {
			http.Error(w, fmt.Sprintf("Failed to create account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, mapping.ToApiAccount(createdAcct))
}

// ListAccounts handles the logic for retrieving all accounts.
func (h *ApiHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	domainAccts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve accounts: %v", err), http.StatusInternalServerError)
		return
	}

	apiAccts := make([]*api.Account, len(domainAccts))
	for i, acct := range domainAccts {
		apiAccts[i] = mapping.ToApiAccount(&acct)
	}

	writeJSON(w, http.StatusOK, apiAccts)
}

// GetAccountById handles the logic for retrieving one account.
func (h *ApiHandler) GetAccountById(w http.ResponseWriter, r *http.Request) {
	accountId := chi.URLParam(r, "accountId")

	domainAcct, err := h.Store.GetAccount(r.Context(), accountId)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiAccount(domainAcct))
}

// CreateTransfer handles the logic for an internal transfer from the caller's
// account.
func (h *ApiHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountID(r.Context())

	var newTransfer api.NewTransfer
	if err := json.NewDecoder(r.Body).Decode(&newTransfer); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, newBalance, err := h.Engine.Transfer(r.Context(), accountID, newTransfer.ToWalletId, newTransfer.Amount)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeOperationResult(w, "transfer completed", tx, newBalance)
}

// CreateWithdrawal handles the logic for an external withdrawal from the
// caller's account.
func (h *ApiHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountID(r.Context())

	var newWithdrawal api.NewWithdrawal
	if err := json.NewDecoder(r.Body).Decode(&newWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, newBalance, err := h.Engine.Withdraw(r.Context(), accountID, newWithdrawal.Amount, newWithdrawal.Destination)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeOperationResult(w, "withdrawal accepted, payout in progress", tx, newBalance)
}

// CreateDeposit handles the logic for declaring a deposit intent. No balance
// moves here; the response carries the reference tag to attach to the
// real-world transfer.
func (h *ApiHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountID(r.Context())

	var newDeposit api.NewDeposit
	if err := json.NewDecoder(r.Body).Decode(&newDeposit); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	dep, err := h.Engine.RequestDeposit(r.Context(), accountID, newDeposit.Amount)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapping.ToApiDepositIntent(dep))
}

// ListTransactions handles the logic for retrieving the caller's recent
// transactions, newest first.
func (h *ApiHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountID(r.Context())

	acct, err := h.Store.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	domainTxs, err := h.Store.ListTransactionsByWalletID(r.Context(), acct.WalletId, 50)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := make([]*api.Transaction, len(domainTxs))
	for i, tx := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&tx)
	}

	writeJSON(w, http.StatusOK, apiTxs)
}

// GetTransactionById handles the logic for retrieving one transaction.
func (h *ApiHandler) GetTransactionById(w http.ResponseWriter, r *http.Request) {
	transactionId := chi.URLParam(r, "transactionId")

	domainTx, err := h.Store.GetTransaction(r.Context(), transactionId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transaction: %v", err), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiTransaction(domainTx))
}

// writeOperationError maps engine and storage errors onto HTTP statuses.
func writeOperationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidDestination):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrBelowMinimum),
		errors.Is(err, ledger.ErrSelfTransfer):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrConflict):
		http.Error(w, "Operation contended, please retry", http.StatusConflict)
	default:
		http.Error(w, fmt.Sprintf("Operation failed: %v", err), http.StatusInternalServerError)
	}
}

func writeOperationResult(w http.ResponseWriter, message string, tx *models.Transaction, newBalance int64) {
	apiTx := mapping.ToApiTransaction(tx)
	txId := apiTx.Id
	writeJSON(w, http.StatusCreated, &api.OperationResult{
		Success:       true,
		Message:       message,
		NewBalance:    &newBalance,
		TransactionId: &txId,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
