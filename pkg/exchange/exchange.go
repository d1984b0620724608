// Package exchange talks to the custodial exchange holding the platform's
// pooled funds. The rest of the system only sees the narrow Feed and
// Submitter interfaces; amounts cross this boundary as minor-unit integers.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRateLimited is returned when the exchange rejects a call for exceeding
// its rate limit. Callers back off until their next scheduled cycle; they
// never retry inline.
var ErrRateLimited = errors.New("exchange rate limited")

// ErrUnavailable is returned for any other exchange-side failure.
var ErrUnavailable = errors.New("exchange unavailable")

// DepositEvent is one observed completed inbound transaction on the
// custodial account.
type DepositEvent struct {
	Id        string
	Amount    int64
	Reference string
	Symbol    string
	CreatedAt time.Time
}

// Destination kinds accepted on withdrawal submissions. The kind decides
// which exchange destination surface the payout rides: an on-chain address
// or a registered off-platform payment identifier.
const (
	DestinationKindChain       = "CHAIN"
	DestinationKindOffPlatform = "OFFPLATFORM"
)

// WithdrawalRequest describes an outbound payout submission.
type WithdrawalRequest struct {
	Asset           string
	Destination     string
	DestinationKind string
	Amount          int64
	IdempotencyKey  string
}

// Feed exposes the custodial account's observed deposit feed.
type Feed interface {
	// ListDeposits returns completed inbound transactions observed since
	// the given high-water mark, oldest first.
	ListDeposits(ctx context.Context, since time.Time) ([]DepositEvent, error)
}

// Submitter submits payouts to the exchange.
type Submitter interface {
	// SubmitWithdrawal submits a payout and returns the exchange-side
	// activity id. Submissions are idempotent on the request's key.
	SubmitWithdrawal(ctx context.Context, req WithdrawalRequest) (string, error)
}

// ToMinorUnits converts the exchange's decimal string amount to minor units,
// truncating anything below one minor unit.
func ToMinorUnits(amount string, exponent int32) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(exponent).IntPart(), nil
}

// FromMinorUnits converts a minor-unit amount to the exchange's decimal
// string representation.
func FromMinorUnits(amount int64, exponent int32) string {
	return decimal.NewFromInt(amount).Shift(-exponent).String()
}
