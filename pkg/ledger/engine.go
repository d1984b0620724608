// Package ledger implements the balance-mutating engine. It is the sole
// writer of account balances and the sole creator of transaction rows; every
// mutation is a read-validate-write round against the storage layer's atomic
// conditional writes, retried on conflict.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/notify"
	"github.com/stablevault/custodial-wallet-ledger/pkg/outbox"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
)

// Policy holds the injected policy constants governing the engine.
type Policy struct {
	// FeeRate is the withdrawal fee rate, e.g. 0.05 for 5%.
	FeeRate decimal.Decimal
	// MinWithdrawal is the smallest accepted withdrawal in minor units.
	MinWithdrawal int64
	// DepositTTL bounds how long a deposit intent stays matchable.
	DepositTTL time.Duration
	// MaxRetries bounds optimistic-lock retries per operation.
	MaxRetries int
	// Asset is the custodial asset symbol payouts are denominated in.
	Asset string
}

// Engine executes balance-mutating operations under the consistency contract.
type Engine struct {
	store    storage.EngineStore
	outbox   outbox.Enqueuer
	notifier notify.Publisher
	policy   Policy
}

// New creates a new Engine. The notifier may be nil, in which case no
// balance events are published.
func New(store storage.EngineStore, enqueuer outbox.Enqueuer, notifier notify.Publisher, policy Policy) *Engine {
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = 3
	}
	return &Engine{
		store:    store,
		outbox:   enqueuer,
		notifier: notifier,
		policy:   policy,
	}
}

// Transfer atomically moves amount from the sender's account to the wallet
// identified by toWalletID and appends one TRANSFER transaction. Returns the
// transaction and the sender's balance as committed. On a version conflict
// the read-validate-write round is retried so no commit is ever based on a
// stale balance.
func (e *Engine) Transfer(ctx context.Context, fromAccountID, toWalletID string, amount int64) (*models.Transaction, int64, error) {
	if amount <= 0 {
		return nil, 0, ErrInvalidAmount
	}

	for attempt := 0; attempt < e.policy.MaxRetries; attempt++ {
		from, err := e.store.GetAccount(ctx, fromAccountID)
		if err != nil {
			return nil, 0, err
		}

		to, err := e.store.GetAccountByWalletID(ctx, toWalletID)
		if err != nil {
			return nil, 0, err
		}

		if from.AccountId == to.AccountId {
			return nil, 0, ErrSelfTransfer
		}

		if from.Balance < amount {
			return nil, 0, ErrInsufficientBalance
		}

		tx := &models.Transaction{
			Id:           uuid.New().String(),
			FromWalletId: from.WalletId,
			ToWalletId:   to.WalletId,
			Amount:       amount,
			Type:         models.TRANSFER,
			CreatedAt:    time.Now(),
		}

		if err := e.store.ExecuteTransfer(ctx, from, to, tx); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			return nil, 0, err
		}

		newBalance := from.Balance - amount
		e.publish(ctx, from.AccountId, notify.Event{WalletId: from.WalletId, Amount: -amount, Type: models.TRANSFER, NewBalance: newBalance})
		e.publish(ctx, to.AccountId, notify.Event{WalletId: to.WalletId, Amount: amount, Type: models.TRANSFER, NewBalance: to.Balance + amount})

		return tx, newBalance, nil
	}

	return nil, 0, fmt.Errorf("transfer from %s contended beyond retry budget: %w", fromAccountID, storage.ErrConflict)
}

// Withdraw debits the full amount from the account, records a WITHDRAWAL
// transaction carrying the net payout and the fee, and commits a payout
// outbox row in the same atomic write. Returns the transaction and the
// balance as committed. The external submission happens asynchronously; it
// never holds up or rolls back the internal debit.
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount int64, destination string) (*models.Transaction, int64, error) {
	if amount <= 0 {
		return nil, 0, ErrInvalidAmount
	}
	if amount < e.policy.MinWithdrawal {
		return nil, 0, ErrBelowMinimum
	}

	kind, err := ClassifyDestination(destination)
	if err != nil {
		return nil, 0, err
	}

	fee, payoutAmount := SplitFee(amount, e.policy.FeeRate)

	for attempt := 0; attempt < e.policy.MaxRetries; attempt++ {
		account, err := e.store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, 0, err
		}

		if account.Balance < amount {
			return nil, 0, ErrInsufficientBalance
		}

		now := time.Now()
		tx := &models.Transaction{
			Id:           uuid.New().String(),
			FromWalletId: account.WalletId,
			Amount:       payoutAmount,
			Fee:          fee,
			Type:         models.WITHDRAWAL,
			PayoutStatus: models.PayoutPending,
			CreatedAt:    now,
		}
		payout := &models.Payout{
			PayoutId:        uuid.New().String(),
			TransactionId:   tx.Id,
			AccountId:       account.AccountId,
			Asset:           e.policy.Asset,
			Destination:     destination,
			DestinationKind: string(kind),
			Amount:          payoutAmount,
			Status:          models.PayoutPending,
			IdempotencyKey:  uuid.New().String(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := e.store.ExecuteWithdrawal(ctx, account, tx, payout); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			return nil, 0, err
		}

		// The debit is durable at this point. A failed enqueue is recoverable:
		// the outbox row stays PENDING and a sweep can re-enqueue it.
		if e.outbox != nil {
			if err := e.outbox.EnqueuePayout(ctx, payout); err != nil {
				slog.Error("payout committed but failed to enqueue", "payoutId", payout.PayoutId, "error", err)
			}
		}

		newBalance := account.Balance - amount
		e.publish(ctx, account.AccountId, notify.Event{WalletId: account.WalletId, Amount: -amount, Type: models.WITHDRAWAL, NewBalance: newBalance})

		return tx, newBalance, nil
	}

	return nil, 0, fmt.Errorf("withdrawal from %s contended beyond retry budget: %w", accountID, storage.ErrConflict)
}

// RequestDeposit records a deposit intent and returns it together with the
// unique reference tag the user must attach to the real-world transfer.
// Deposits are never self-credited: the balance only moves when the
// reconciler pairs the intent with an observed custodial inflow.
func (e *Engine) RequestDeposit(ctx context.Context, accountID string, amount int64) (*models.PendingDeposit, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := e.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	now := time.Now()
	dep := &models.PendingDeposit{
		DepositId:       uuid.New().String(),
		AccountId:       accountID,
		RequestedAmount: amount,
		Reference:       newDepositReference(),
		Status:          models.DepositPending,
		CreatedAt:       now,
		TTL:             now.Add(e.policy.DepositTTL).Unix(),
	}

	return e.store.CreatePendingDeposit(ctx, dep)
}

// CreditDeposit credits an observed custodial inflow to the account behind a
// pending deposit. Called only by the reconciler. The external transaction
// id of the observed inflow is stamped onto the deposit inside the same
// write. Idempotent: the PENDING -> MATCHED transition guards the balance
// increment inside the same atomic write, so a second call for the same
// deposit returns ErrDuplicateCredit and credits nothing.
func (e *Engine) CreditDeposit(ctx context.Context, deposit *models.PendingDeposit, observedAmount int64, externalTxID string) (*models.Transaction, error) {
	if observedAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if deposit.Status != models.DepositPending {
		return nil, storage.ErrDuplicateCredit
	}
	if observedAmount != deposit.RequestedAmount {
		return nil, ErrAmountMismatch
	}

	deposit.ExternalTxId = externalTxID

	for attempt := 0; attempt < e.policy.MaxRetries; attempt++ {
		account, err := e.store.GetAccount(ctx, deposit.AccountId)
		if err != nil {
			return nil, err
		}

		tx := &models.Transaction{
			Id:         uuid.New().String(),
			ToWalletId: account.WalletId,
			Amount:     observedAmount,
			Type:       models.DEPOSIT,
			CreatedAt:  time.Now(),
		}

		if err := e.store.CreditDeposit(ctx, deposit, account, tx); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			return nil, err
		}

		e.publish(ctx, account.AccountId, notify.Event{WalletId: account.WalletId, Amount: observedAmount, Type: models.DEPOSIT, NewBalance: account.Balance + observedAmount})

		return tx, nil
	}

	return nil, fmt.Errorf("deposit credit for %s contended beyond retry budget: %w", deposit.DepositId, storage.ErrConflict)
}

// publish pushes a balance event to the account's live sessions,
// best-effort.
func (e *Engine) publish(ctx context.Context, accountID string, event notify.Event) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Publish(ctx, accountID, event); err != nil {
		slog.Error("failed to publish balance event", "accountId", accountID, "error", err)
	}
}

// newDepositReference generates the short memo tag users attach to the
// real-world transfer so the reconciler can attribute it unambiguously.
func newDepositReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "DEP-" + strings.ToUpper(raw[:10])
}
