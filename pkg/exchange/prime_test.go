package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWithdrawalRequest(t *testing.T) {
	c := &PrimeClient{portfolioId: "pf-1", walletId: "wal-1", symbol: "USDC", exponent: 6}

	t.Run("Chain Destination", func(t *testing.T) {
		req, err := c.buildWithdrawalRequest(WithdrawalRequest{
			Asset:           "USDC",
			Destination:     "0xde709f2102306220921060314715629080e2fb77",
			DestinationKind: DestinationKindChain,
			Amount:          19_000_000,
			IdempotencyKey:  "idem-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, "DESTINATION_BLOCKCHAIN", req.DestinationType)
		if assert.NotNil(t, req.BlockchainAddress) {
			assert.Equal(t, "0xde709f2102306220921060314715629080e2fb77", req.BlockchainAddress.Address)
		}
		assert.Nil(t, req.PaymentMethod)
		assert.Equal(t, "19", req.Amount)
		assert.Equal(t, "idem-1", req.IdempotencyKey)
	})

	t.Run("Off-Platform Destination Rides The Payment Method Surface", func(t *testing.T) {
		req, err := c.buildWithdrawalRequest(WithdrawalRequest{
			Asset:           "USDC",
			Destination:     "payee@example.com",
			DestinationKind: DestinationKindOffPlatform,
			Amount:          19_000_000,
			IdempotencyKey:  "idem-2",
		})

		assert.NoError(t, err)
		assert.Equal(t, "DESTINATION_PAYMENT_METHOD", req.DestinationType)
		if assert.NotNil(t, req.PaymentMethod) {
			assert.Equal(t, "payee@example.com", req.PaymentMethod.Id)
		}
		assert.Nil(t, req.BlockchainAddress)
	})

	t.Run("Unknown Kind Is Rejected", func(t *testing.T) {
		_, err := c.buildWithdrawalRequest(WithdrawalRequest{DestinationKind: "CARRIER_PIGEON"})

		assert.Error(t, err)
	})
}
