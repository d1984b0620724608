// Package reconcile matches observed custodial-account inflows against
// pending deposit intents and drives the ledger engine to credit each one
// exactly once.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stablevault/custodial-wallet-ledger/pkg/exchange"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
)

// Engine is the slice of the ledger engine the reconciler drives.
type Engine interface {
	CreditDeposit(ctx context.Context, deposit *models.PendingDeposit, observedAmount int64, externalTxID string) (*models.Transaction, error)
}

// Store is the storage surface the reconciler needs.
type Store interface {
	storage.DepositStore
	storage.ReconcileStore
}

// Options holds the reconciler's timing policy.
type Options struct {
	// Interval is the fixed cadence between cycles.
	Interval time.Duration
	// Timeout bounds one cycle's external query so a slow exchange never
	// blocks the next scheduled tick indefinitely.
	Timeout time.Duration
	// Backoff is how long to stand down after a rate-limit response.
	Backoff time.Duration
	// Lookback is the initial feed window when no cursor exists yet.
	Lookback time.Duration
}

// Reconciler runs the deposit reconciliation loop.
type Reconciler struct {
	store  Store
	engine Engine
	feed   exchange.Feed
	opts   Options

	// notBefore gates cycles while backing off after a rate limit.
	notBefore time.Time
}

// New creates a new Reconciler.
func New(store Store, engine Engine, feed exchange.Feed, opts Options) *Reconciler {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = opts.Interval
	}
	if opts.Backoff <= 0 {
		opts.Backoff = opts.Interval
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 6 * time.Hour
	}
	return &Reconciler{
		store:  store,
		engine: engine,
		feed:   feed,
		opts:   opts,
	}
}

// Run executes cycles on the fixed cadence until the context is cancelled.
// Errors are contained per cycle: a failed cycle is logged and abandoned,
// and the next tick proceeds. A rate-limited cycle additionally pushes the
// next attempt out by the backoff; there are no inline retries.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().Before(r.notBefore) {
				continue
			}

			cctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
			err := r.RunCycle(cctx)
			cancel()

			if err != nil {
				if errors.Is(err, exchange.ErrRateLimited) {
					r.notBefore = time.Now().Add(r.opts.Backoff)
					slog.Warn("exchange rate limited, backing off", "until", r.notBefore)
				} else {
					slog.Error("reconciliation cycle failed", "error", err)
				}
			}
		}
	}
}

// RunCycle performs one reconciliation pass: query the feed past the
// high-water mark, credit matches, record everything else as unattributed,
// then advance the mark. The mark only moves after a cycle with no feed
// errors, so nothing observed is ever skipped.
func (r *Reconciler) RunCycle(ctx context.Context) error {
	cursor, err := r.store.GetCursor(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cursor: %w", err)
	}

	since := cursor.LastSeenAt
	if since.IsZero() {
		since = time.Now().Add(-r.opts.Lookback)
	}

	events, err := r.feed.ListDeposits(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to query deposit feed: %w", err)
	}

	pending, err := r.store.ListPendingDeposits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending deposits: %w", err)
	}

	pending = r.expireStale(ctx, pending)

	maxSeen := cursor.LastSeenAt
	lastId := cursor.LastTxId

	for _, ev := range events {
		// The feed window starts at the previous mark, so the last
		// processed event can reappear at the boundary.
		if ev.Id == cursor.LastTxId {
			continue
		}

		if err := r.attribute(ctx, ev, &pending); err != nil {
			return err
		}

		if ev.CreatedAt.After(maxSeen) {
			maxSeen = ev.CreatedAt
			lastId = ev.Id
		}
	}

	if maxSeen.After(cursor.LastSeenAt) {
		if err := r.store.AdvanceCursor(ctx, &models.ReconcileCursor{LastSeenAt: maxSeen, LastTxId: lastId}); err != nil {
			return fmt.Errorf("failed to advance cursor: %w", err)
		}
	}

	return nil
}

// attribute pairs one observed inbound event with a pending deposit, or
// records it as unattributed. An event whose external id is already stamped
// on a credited deposit is accounted for and recorded nowhere: the cursor can
// lag a successful credit, so the feed redelivers events whose intents have
// left the pending set. It never guesses an account.
func (r *Reconciler) attribute(ctx context.Context, ev exchange.DepositEvent, pending *[]models.PendingDeposit) error {
	idx := matchDeposit(ev, *pending)
	if idx < 0 {
		credited, err := r.store.GetDepositByExternalTxID(ctx, ev.Id)
		if err == nil {
			slog.Debug("observed deposit already credited", "externalTxId", ev.Id, "depositId", credited.DepositId)
			return nil
		}
		if !errors.Is(err, storage.ErrDepositNotFound) {
			return fmt.Errorf("failed to look up deposit for external tx %s: %w", ev.Id, err)
		}

		err = r.store.RecordUnattributed(ctx, &models.UnattributedDeposit{
			Id:         ev.Id,
			Amount:     ev.Amount,
			Reference:  ev.Reference,
			ObservedAt: ev.CreatedAt,
		})
		if errors.Is(err, storage.ErrAlreadyRecorded) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to record unattributed deposit %s: %w", ev.Id, err)
		}
		slog.Warn("observed deposit matched no pending intent",
			"externalTxId", ev.Id, "amount", ev.Amount, "reference", ev.Reference)
		return nil
	}

	dep := (*pending)[idx]
	if _, err := r.engine.CreditDeposit(ctx, &dep, ev.Amount, ev.Id); err != nil {
		// A duplicate credit means a previous cycle already paid this
		// deposit out; the event is accounted for.
		if !errors.Is(err, storage.ErrDuplicateCredit) {
			return fmt.Errorf("failed to credit deposit %s: %w", dep.DepositId, err)
		}
	} else {
		slog.Info("credited deposit", "depositId", dep.DepositId, "accountId", dep.AccountId, "amount", ev.Amount)
	}

	// Consume the intent locally so a second equal-amount event in the same
	// cycle matches the next oldest intent, not this one again.
	*pending = append((*pending)[:idx], (*pending)[idx+1:]...)
	return nil
}

// matchDeposit selects the pending deposit for an observed event. A usable
// reference tag identifies the deposit outright (the amount must still agree
// exactly); without one, the oldest pending intent with exactly the observed
// amount wins, as a documented best-effort FIFO policy.
func matchDeposit(ev exchange.DepositEvent, pending []models.PendingDeposit) int {
	if ev.Reference != "" {
		for i, dep := range pending {
			if dep.Reference == ev.Reference {
				if dep.RequestedAmount != ev.Amount {
					return -1
				}
				return i
			}
		}
		// An unknown reference is not matchable by amount: the sender
		// tagged the transfer for something we don't know about.
		return -1
	}

	for i, dep := range pending {
		if dep.RequestedAmount == ev.Amount {
			return i
		}
	}
	return -1
}

// expireStale flips deposits past their TTL window to EXPIRED and drops them
// from the matchable set.
func (r *Reconciler) expireStale(ctx context.Context, pending []models.PendingDeposit) []models.PendingDeposit {
	now := time.Now().Unix()
	kept := pending[:0]

	for _, dep := range pending {
		if dep.TTL > 0 && now > dep.TTL {
			if err := r.store.ExpireDeposit(ctx, dep.DepositId); err != nil && !errors.Is(err, storage.ErrDepositNotPending) {
				slog.Error("failed to expire deposit", "depositId", dep.DepositId, "error", err)
				continue
			}
			slog.Info("expired deposit intent", "depositId", dep.DepositId, "accountId", dep.AccountId)
			continue
		}
		kept = append(kept, dep)
	}

	return kept
}
