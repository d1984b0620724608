package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// TransactionReader defines the interface for reading the append-only
// transaction log. There is deliberately no writer interface here: rows are
// only ever created inside LedgerStore's atomic operations.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByWalletID retrieves the most recent transactions
	// touching a wallet, newest first.
	ListTransactionsByWalletID(ctx context.Context, walletID string, limit int32) ([]models.Transaction, error)
}
