package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// PayoutStore defines the interface for the payout outbox consumed by the
// payout worker.
type PayoutStore interface {
	// GetPayout retrieves a payout outbox row by id.
	GetPayout(ctx context.Context, payoutID string) (*models.Payout, error)

	// AcquirePayout atomically increments the attempt counter of a
	// PENDING payout and returns the updated row. Returns
	// ErrPayoutNotPending if the payout was already resolved.
	AcquirePayout(ctx context.Context, payoutID string) (*models.Payout, error)

	// ResolvePayout marks a payout SENT or FAILED and mirrors the outcome
	// onto the originating transaction's payout_status in the same atomic
	// write. The internal debit is never reverted here.
	ResolvePayout(ctx context.Context, payout *models.Payout, status models.PayoutStatus) error
}
