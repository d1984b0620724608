package storage

import "errors"

// ErrAccountNotFound is returned when an account or wallet id resolves to nothing.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when creating an account that already exists.
var ErrAccountExists = errors.New("account already exists")

// ErrConflict is returned when an optimistic-lock condition fails because a
// concurrent mutation touched the same record. Callers re-read and retry.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrDuplicateCredit is returned when crediting a deposit whose status is no
// longer PENDING. The idempotency guard and the balance credit are the same
// atomic write, so tripping it means the deposit was already credited (or
// expired) and no balance change happened.
var ErrDuplicateCredit = errors.New("deposit already credited")

// ErrDepositNotPending is returned when a deposit lifecycle transition finds
// the deposit no longer in the PENDING state, e.g. expiring a deposit that
// was matched or already expired in the meantime.
var ErrDepositNotPending = errors.New("deposit not in a pending state")

// ErrDepositNotFound is returned when a pending deposit id resolves to nothing.
var ErrDepositNotFound = errors.New("pending deposit not found")

// ErrPayoutNotPending is returned when a payout row is no longer in the
// PENDING state, e.g. on a redelivered queue message.
var ErrPayoutNotPending = errors.New("payout not in a pending state")

// ErrAlreadyRecorded is returned when an unattributed deposit for the same
// external transaction id was recorded before.
var ErrAlreadyRecorded = errors.New("unattributed deposit already recorded")
