package notify

import "github.com/stablevault/custodial-wallet-ledger/pkg/models"

// MessageType defines the type of a session message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is for messages announcing a balance change.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
)

// Message represents a generic session message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event is the payload of a balanceUpdate message. Amount is signed: negative
// for debits, positive for credits.
type Event struct {
	WalletId   string                 `json:"wallet_id"`
	Amount     int64                  `json:"amount"`
	Type       models.TransactionType `json:"type"`
	NewBalance int64                  `json:"new_balance"`
}
