package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// ReconcileStore defines the interface for the reconciler's bookkeeping:
// the feed high-water mark and the record of unattributed inbound funds.
type ReconcileStore interface {
	// GetCursor retrieves the reconciliation cursor. A missing cursor is
	// returned as a zero-valued cursor, not an error.
	GetCursor(ctx context.Context) (*models.ReconcileCursor, error)

	// AdvanceCursor persists a new high-water mark.
	AdvanceCursor(ctx context.Context, cursor *models.ReconcileCursor) error

	// RecordUnattributed records an observed inbound amount that matched
	// no pending deposit. Keyed by external transaction id; returns
	// ErrAlreadyRecorded on a repeat observation.
	RecordUnattributed(ctx context.Context, dep *models.UnattributedDeposit) error
}
