package outbox

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// Enqueuer defines the interface for handing a committed payout outbox row to
// the asynchronous payout worker. The row is already durable when this is
// called; enqueueing is a delivery hint, not the source of truth.
type Enqueuer interface {
	// EnqueuePayout enqueues a payout reference for asynchronous submission.
	EnqueuePayout(ctx context.Context, payout *models.Payout) error
}
