package ledger

import "github.com/shopspring/decimal"

// SplitFee splits a gross withdrawal amount into the fee retained by the
// platform and the net payout, both in minor units. The fee rounds half away
// from zero so fee + payout always equals the gross amount exactly.
func SplitFee(amount int64, rate decimal.Decimal) (fee, payout int64) {
	fee = decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
	return fee, amount - fee
}
