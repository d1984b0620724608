package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stablevault/custodial-wallet-ledger/pkg/api"
	"github.com/stablevault/custodial-wallet-ledger/pkg/handlers"
	"github.com/stablevault/custodial-wallet-ledger/pkg/ledger"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockEngine is a hand-rolled mock of the engine slice the handlers use.
type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Transfer(ctx context.Context, fromAccountID, toWalletID string, amount int64) (*models.Transaction, int64, error) {
	args := m.Called(ctx, fromAccountID, toWalletID, amount)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockEngine) Withdraw(ctx context.Context, accountID string, amount int64, destination string) (*models.Transaction, int64, error) {
	args := m.Called(ctx, accountID, amount, destination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockEngine) RequestDeposit(ctx context.Context, accountID string, amount int64) (*models.PendingDeposit, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingDeposit), args.Error(1)
}

func newTestRouter(store *mocks.Storage, engine *mockEngine) *chi.Mux {
	h := handlers.NewApiHandler(store, engine)
	router := chi.NewRouter()
	h.Routes(router)
	return router
}

func doJSON(router http.Handler, method, path, accountID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if accountID != "" {
		req.Header.Set("X-Account-Id", accountID)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
			return a.AccountId == "acct-1" && a.Balance == 0 && a.Version == 1 && a.WalletId != ""
		})).Return(func(ctx context.Context, a *models.Account) *models.Account { return a }, nil)

		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodPost, "/accounts", "", api.NewAccount{AccountId: "acct-1"})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var created api.Account
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "acct-1", created.AccountId)
		assert.NotEmpty(t, created.WalletId)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Already Exists", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, storage.ErrAccountExists)

		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodPost, "/accounts", "", api.NewAccount{AccountId: "acct-1"})

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Missing Account Id", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodPost, "/accounts", "", api.NewAccount{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})
}

func TestGetAccountById(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 100, Version: 1, CreatedAt: time.Now()}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetAccount", mock.Anything, "acct-1").Return(account, nil)

		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodGet, "/accounts/acct-1", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got api.Account
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, int64(100), got.Balance)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetAccount", mock.Anything, "acct-missing").Return(nil, storage.ErrAccountNotFound)

		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodGet, "/accounts/acct-missing", "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreateTransfer(t *testing.T) {
	tx := &models.Transaction{Id: "8d1c3f0a-4b5f-4a1e-9f80-0a3c1f9f6b01", Amount: 60, Type: models.TRANSFER, CreatedAt: time.Now()}

	t.Run("Success", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Transfer", mock.Anything, "acct-1", "wallet-2", int64(60)).Return(tx, int64(40), nil)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/transfers", "acct-1", api.NewTransfer{ToWalletId: "wallet-2", Amount: 60})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var result api.OperationResult
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.NotNil(t, result.TransactionId)
		if assert.NotNil(t, result.NewBalance) {
			assert.Equal(t, int64(40), *result.NewBalance)
		}
		engine.AssertExpectations(t)
	})

	t.Run("Missing Identity", func(t *testing.T) {
		engine := new(mockEngine)
		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/transfers", "", api.NewTransfer{ToWalletId: "wallet-2", Amount: 60})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		engine.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Transfer", mock.Anything, "acct-1", "wallet-2", int64(60)).Return(nil, int64(0), ledger.ErrInsufficientBalance)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/transfers", "acct-1", api.NewTransfer{ToWalletId: "wallet-2", Amount: 60})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Contended", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Transfer", mock.Anything, "acct-1", "wallet-2", int64(60)).Return(nil, int64(0), storage.ErrConflict)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/transfers", "acct-1", api.NewTransfer{ToWalletId: "wallet-2", Amount: 60})

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCreateWithdrawal(t *testing.T) {
	destination := "0xde709f2102306220921060314715629080e2fb77"

	t.Run("Success", func(t *testing.T) {
		tx := &models.Transaction{Id: "8d1c3f0a-4b5f-4a1e-9f80-0a3c1f9f6b02", Amount: 19, Fee: 1, Type: models.WITHDRAWAL, CreatedAt: time.Now()}

		engine := new(mockEngine)
		engine.On("Withdraw", mock.Anything, "acct-1", int64(20_000_000), destination).Return(tx, int64(30_000_000), nil)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/withdrawals", "acct-1", api.NewWithdrawal{Amount: 20_000_000, Destination: destination})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var result api.OperationResult
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		if assert.NotNil(t, result.NewBalance) {
			assert.Equal(t, int64(30_000_000), *result.NewBalance)
		}
		engine.AssertExpectations(t)
	})

	t.Run("Below Minimum", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Withdraw", mock.Anything, "acct-1", int64(5), destination).Return(nil, int64(0), ledger.ErrBelowMinimum)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/withdrawals", "acct-1", api.NewWithdrawal{Amount: 5, Destination: destination})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Invalid Destination", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Withdraw", mock.Anything, "acct-1", int64(20_000_000), "garbage").Return(nil, int64(0), ledger.ErrInvalidDestination)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/withdrawals", "acct-1", api.NewWithdrawal{Amount: 20_000_000, Destination: "garbage"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreateDeposit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		dep := &models.PendingDeposit{
			DepositId:       "dep-1",
			AccountId:       "acct-1",
			RequestedAmount: 50,
			Reference:       "DEP-AAAA111122",
			Status:          models.DepositPending,
			TTL:             time.Now().Add(24 * time.Hour).Unix(),
		}

		engine := new(mockEngine)
		engine.On("RequestDeposit", mock.Anything, "acct-1", int64(50)).Return(dep, nil)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/deposits", "acct-1", api.NewDeposit{Amount: 50})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var intent api.DepositIntent
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &intent))
		assert.Equal(t, "DEP-AAAA111122", intent.Reference)
		assert.Equal(t, int64(50), intent.Amount)
		engine.AssertExpectations(t)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("RequestDeposit", mock.Anything, "acct-1", int64(0)).Return(nil, ledger.ErrInvalidAmount)

		router := newTestRouter(new(mocks.Storage), engine)

		rr := doJSON(router, http.MethodPost, "/deposits", "acct-1", api.NewDeposit{Amount: 0})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListTransactions(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 100, Version: 1}
	txs := []models.Transaction{
		{Id: "8d1c3f0a-4b5f-4a1e-9f80-0a3c1f9f6b03", ToWalletId: "wallet-1", Amount: 50, Type: models.DEPOSIT, CreatedAt: time.Now()},
		{Id: "8d1c3f0a-4b5f-4a1e-9f80-0a3c1f9f6b04", FromWalletId: "wallet-1", Amount: 19, Fee: 1, Type: models.WITHDRAWAL, CreatedAt: time.Now().Add(-time.Hour)},
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetAccount", mock.Anything, "acct-1").Return(account, nil)
		mockStorage.On("ListTransactionsByWalletID", mock.Anything, "wallet-1", int32(50)).Return(txs, nil)

		router := newTestRouter(mockStorage, new(mockEngine))

		rr := doJSON(router, http.MethodGet, "/transactions", "acct-1", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got []api.Transaction
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 2)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Identity", func(t *testing.T) {
		router := newTestRouter(new(mocks.Storage), new(mockEngine))

		rr := doJSON(router, http.MethodGet, "/transactions", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
