package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// AccountStore defines the interface for managing account records.
// Balance mutations never go through this interface; they are the ledger
// engine's job via LedgerStore.
type AccountStore interface {
	// GetAccount retrieves an account by its identity-provider account id.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// GetAccountByWalletID resolves a routable wallet id to its account.
	GetAccountByWalletID(ctx context.Context, walletID string) (*models.Account, error)

	// CreateAccount creates a new account record.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// ListAccounts retrieves all accounts from the storage.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}
