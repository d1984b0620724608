package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testTables() Tables {
	return Tables{
		Accounts:     "accounts",
		Deposits:     "pending_deposits",
		Transactions: "transactions",
		Payouts:      "payouts",
		Reconcile:    "reconcile",
		Connections:  "connections",
	}
}

func TestCreateAccount(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 0, Version: 1}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		result, err := store.CreateAccount(context.Background(), account)

		assert.NoError(t, err)
		assert.Equal(t, account, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := store.CreateAccount(context.Background(), account)

		assert.ErrorIs(t, err, storage.ErrAccountExists)
	})

	t.Run("Client Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("dynamo down"))

		_, err := store.CreateAccount(context.Background(), account)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
	})
}

func TestGetAccount(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 100, Version: 2}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		result, err := store.GetAccount(context.Background(), "acct-1")

		assert.NoError(t, err)
		assert.Equal(t, account.AccountId, result.AccountId)
		assert.Equal(t, account.Balance, result.Balance)
		assert.Equal(t, account.Version, result.Version)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := store.GetAccount(context.Background(), "acct-missing")

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})
}

func TestGetAccountByWalletID(t *testing.T) {
	account := &models.Account{AccountId: "acct-1", WalletId: "wallet-1", Balance: 100, Version: 2}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{accountAV},
		}, nil)

		result, err := store.GetAccountByWalletID(context.Background(), "wallet-1")

		assert.NoError(t, err)
		assert.Equal(t, "acct-1", result.AccountId)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := store.GetAccountByWalletID(context.Background(), "wallet-missing")

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})
}
