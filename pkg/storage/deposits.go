package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// DepositStore defines the interface for the pending deposit registry.
type DepositStore interface {
	// CreatePendingDeposit records a new deposit intent.
	CreatePendingDeposit(ctx context.Context, dep *models.PendingDeposit) (*models.PendingDeposit, error)

	// GetPendingDeposit retrieves a deposit intent by id.
	GetPendingDeposit(ctx context.Context, depositID string) (*models.PendingDeposit, error)

	// ListPendingDeposits retrieves all still-PENDING deposit intents,
	// oldest first.
	ListPendingDeposits(ctx context.Context) ([]models.PendingDeposit, error)

	// GetDepositByExternalTxID retrieves the deposit credited from the given
	// external transaction, or ErrDepositNotFound if that transaction never
	// credited one. The external id is stamped onto the deposit at credit
	// time.
	GetDepositByExternalTxID(ctx context.Context, externalTxID string) (*models.PendingDeposit, error)

	// ExpireDeposit transitions a deposit from PENDING to EXPIRED.
	// Returns ErrDepositNotPending if the deposit already left PENDING.
	ExpireDeposit(ctx context.Context, depositID string) error
}
