package storage

import (
	"context"

	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// LedgerStore defines the highly-privileged interface for balance-mutating
// writes. Each operation is a single atomic multi-item write: the balance
// change, the appended transaction row, and any lifecycle transition either
// all commit or none do. Accounts are guarded by version conditions; a
// condition failure surfaces as ErrConflict and the caller re-reads and
// retries. Only the ledger engine should hold this interface.
type LedgerStore interface {
	// ExecuteTransfer atomically debits the sender, credits the receiver
	// and appends the TRANSFER transaction. The passed accounts carry the
	// versions the caller validated against.
	ExecuteTransfer(ctx context.Context, from, to *models.Account, tx *models.Transaction) error

	// ExecuteWithdrawal atomically debits the account by the full amount,
	// appends the WITHDRAWAL transaction (payout_status PENDING) and
	// writes the payout outbox row.
	ExecuteWithdrawal(ctx context.Context, account *models.Account, tx *models.Transaction, payout *models.Payout) error

	// CreditDeposit atomically credits the account, transitions the
	// deposit PENDING -> MATCHED and appends the DEPOSIT transaction.
	// Returns ErrDuplicateCredit if the deposit is no longer PENDING; the
	// balance is untouched in that case.
	CreditDeposit(ctx context.Context, deposit *models.PendingDeposit, account *models.Account, tx *models.Transaction) error
}
