// Package api defines the wire types exchanged with clients.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// NewAccount is the request body for creating an account.
type NewAccount struct {
	AccountId     string `json:"account_id"`
	PayoutAddress string `json:"payout_address,omitempty"`
}

// Account is the wire representation of an account.
type Account struct {
	AccountId     string    `json:"account_id"`
	WalletId      string    `json:"wallet_id"`
	Balance       int64     `json:"balance"`
	PayoutAddress string    `json:"payout_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTransfer is the request body for an internal transfer.
type NewTransfer struct {
	ToWalletId string `json:"to_wallet_id"`
	Amount     int64  `json:"amount"`
}

// NewWithdrawal is the request body for an external withdrawal.
type NewWithdrawal struct {
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
}

// NewDeposit is the request body for declaring a deposit intent.
type NewDeposit struct {
	Amount int64 `json:"amount"`
}

// Transaction is the wire representation of a completed ledger transaction.
type Transaction struct {
	Id           openapi_types.UUID `json:"id"`
	FromWalletId string             `json:"from_wallet_id,omitempty"`
	ToWalletId   string             `json:"to_wallet_id,omitempty"`
	Amount       int64              `json:"amount"`
	Fee          int64              `json:"fee,omitempty"`
	Type         string             `json:"type"`
	PayoutStatus string             `json:"payout_status,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// OperationResult is the common envelope for mutating operations.
type OperationResult struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	NewBalance    *int64              `json:"new_balance,omitempty"`
	TransactionId *openapi_types.UUID `json:"transaction_id,omitempty"`
	// Reference is the memo tag the user must attach to the real-world
	// transfer so the deposit can be reconciled.
	Reference string `json:"reference,omitempty"`
}

// DepositIntent is the response to a declared deposit intent.
type DepositIntent struct {
	DepositId string    `json:"deposit_id"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	ExpiresAt time.Time `json:"expires_at"`
}
