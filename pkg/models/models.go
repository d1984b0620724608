package models

import (
	"time"
)

// TransactionType defines the kind of a completed ledger transaction.
type TransactionType string

const (
	TRANSFER   TransactionType = "TRANSFER"
	WITHDRAWAL TransactionType = "WITHDRAWAL"
	DEPOSIT    TransactionType = "DEPOSIT"
)

// DepositStatus defines the lifecycle states of a pending deposit.
type DepositStatus string

const (
	DepositPending DepositStatus = "PENDING"
	DepositMatched DepositStatus = "MATCHED"
	DepositExpired DepositStatus = "EXPIRED"
)

// PayoutStatus defines the lifecycle states of an outbound payout.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "PENDING"
	PayoutSent    PayoutStatus = "SENT"
	PayoutFailed  PayoutStatus = "FAILED"
)

// Account represents the internal domain model for a user account.
// Balance is an integer amount in minor units and is only ever written by the
// ledger engine. Version is the optimistic locking counter.
type Account struct {
	AccountId     string    `json:"account_id" dynamodbav:"account_id"`
	WalletId      string    `json:"wallet_id" dynamodbav:"wallet_id"`
	Balance       int64     `json:"balance" dynamodbav:"balance"`
	PayoutAddress string    `json:"payout_address,omitempty" dynamodbav:"payout_address,omitempty"`
	Version       int64     `json:"version" dynamodbav:"version"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// PendingDeposit records a user's declared intent to deposit funds into the
// custodial account. The reconciler is the only writer of Status.
// ExternalTxId is stamped at credit time with the id of the observed inbound
// transaction that paid the deposit, so a redelivered feed event can be
// recognized as already accounted for.
type PendingDeposit struct {
	DepositId       string        `dynamodbav:"deposit_id"`
	AccountId       string        `dynamodbav:"account_id"`
	RequestedAmount int64         `dynamodbav:"requested_amount"`
	Reference       string        `dynamodbav:"reference"`
	Status          DepositStatus `dynamodbav:"status"`
	ExternalTxId    string        `dynamodbav:"external_tx_id,omitempty"`
	CreatedAt       time.Time     `dynamodbav:"created_at"`
	TTL             int64         `dynamodbav:"ttl,omitempty"`
}

// Transaction is an append-only record of a completed balance mutation.
// FromWalletId is empty for deposits, ToWalletId is empty for withdrawals.
// For withdrawals Amount is the net payout; the debited total is Amount+Fee.
// Never the source of truth for a current balance.
type Transaction struct {
	Id           string          `dynamodbav:"id"`
	FromWalletId string          `dynamodbav:"from_wallet_id,omitempty"`
	ToWalletId   string          `dynamodbav:"to_wallet_id,omitempty"`
	Amount       int64           `dynamodbav:"amount"`
	Fee          int64           `dynamodbav:"fee,omitempty"`
	Type         TransactionType `dynamodbav:"type"`
	PayoutStatus PayoutStatus    `dynamodbav:"payout_status,omitempty"`
	CreatedAt    time.Time       `dynamodbav:"created_at"`
	GSI1PK       string          `dynamodbav:"gsi1pk"`
}

// Payout is a durable outbox row for an external withdrawal submission.
// The row commits atomically with the internal debit; a separate worker
// consumes it and talks to the exchange.
type Payout struct {
	PayoutId        string       `dynamodbav:"payout_id"`
	TransactionId   string       `dynamodbav:"transaction_id"`
	AccountId       string       `dynamodbav:"account_id"`
	Asset           string       `dynamodbav:"asset"`
	Destination     string       `dynamodbav:"destination"`
	DestinationKind string       `dynamodbav:"destination_kind"`
	Amount          int64        `dynamodbav:"amount"`
	Status          PayoutStatus `dynamodbav:"status"`
	Attempts        int64        `dynamodbav:"attempts"`
	IdempotencyKey  string       `dynamodbav:"idempotency_key"`
	CreatedAt       time.Time    `dynamodbav:"created_at"`
	UpdatedAt       time.Time    `dynamodbav:"updated_at"`
}

// UnattributedDeposit records an observed inbound amount that matched no
// pending deposit. Keyed by the external transaction id so it is recorded at
// most once; kept for manual reconciliation.
type UnattributedDeposit struct {
	Id         string    `dynamodbav:"id"`
	Amount     int64     `dynamodbav:"amount"`
	Reference  string    `dynamodbav:"reference,omitempty"`
	ObservedAt time.Time `dynamodbav:"observed_at"`
}

// ReconcileCursor is the reconciler's high-water mark over the exchange
// deposit feed. A single item, advanced only after a fully successful cycle.
type ReconcileCursor struct {
	Id         string    `dynamodbav:"id"`
	LastSeenAt time.Time `dynamodbav:"last_seen_at"`
	LastTxId   string    `dynamodbav:"last_tx_id,omitempty"`
}

// CursorId is the fixed key of the singleton ReconcileCursor item.
const CursorId = "CURSOR"
