package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func conditionFailed() types.CancellationReason {
	return types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
}

func reasonNone() types.CancellationReason {
	return types.CancellationReason{Code: aws.String("None")}
}

func TestExecuteTransfer(t *testing.T) {
	from := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 100, Version: 1}
	to := &models.Account{AccountId: "acct-2", WalletId: "wallet-2", Balance: 0, Version: 1}
	tx := &models.Transaction{Id: "tx-1", FromWalletId: "wallet-1", ToWalletId: "wallet-2", Amount: 60, Type: models.TRANSFER, CreatedAt: time.Now()}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			return len(input.TransactItems) == 3
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.ExecuteTransfer(context.Background(), from, to, tx)

		assert.NoError(t, err)
		assert.Equal(t, TransactionsPartition, tx.GSI1PK)
		mockClient.AssertExpectations(t)
	})

	t.Run("Condition Failure Is A Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{conditionFailed(), reasonNone(), reasonNone()},
		})

		err := store.ExecuteTransfer(context.Background(), from, to, tx)

		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Other Error Passes Through", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := store.ExecuteTransfer(context.Background(), from, to, tx)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "failed to execute transfer")
	})
}

func TestExecuteWithdrawal(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 50_000_000, Version: 2}
	tx := &models.Transaction{Id: "tx-1", FromWalletId: "wallet-1", Amount: 19_000_000, Fee: 1_000_000, Type: models.WITHDRAWAL, PayoutStatus: models.PayoutPending, CreatedAt: time.Now()}
	payout := &models.Payout{PayoutId: "payout-1", TransactionId: "tx-1", AccountId: "acct-1", Amount: 19_000_000, Status: models.PayoutPending}

	t.Run("Success Debits Gross Amount", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			if len(input.TransactItems) != 3 {
				return false
			}
			debit := input.TransactItems[0].Update
			amount, ok := debit.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			// The debit covers the net payout plus the fee.
			return ok && amount.Value == "20000000"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.ExecuteWithdrawal(context.Background(), account, tx, payout)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Condition Failure Is A Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{conditionFailed(), reasonNone(), reasonNone()},
		})

		err := store.ExecuteWithdrawal(context.Background(), account, tx, payout)

		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}
