package ledger

import "errors"

// ErrInvalidAmount is returned when an operation amount is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientBalance is returned when an account balance cannot cover an
// operation. No partial state change happens.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrSelfTransfer is returned when the sender and recipient are the same account.
var ErrSelfTransfer = errors.New("cannot transfer to own wallet")

// ErrBelowMinimum is returned when a withdrawal is under the policy minimum.
var ErrBelowMinimum = errors.New("amount below minimum withdrawal")

// ErrInvalidDestination is returned when a withdrawal destination is neither
// a chain address nor an off-platform payment identifier.
var ErrInvalidDestination = errors.New("invalid withdrawal destination")

// ErrAmountMismatch is returned when an observed deposit amount does not
// match the pending deposit it was paired with.
var ErrAmountMismatch = errors.New("observed amount does not match requested amount")
