package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
)

// ExecuteWithdrawal atomically debits the account by the full amount and
// appends the WITHDRAWAL transaction together with the payout outbox row.
// The outbox row committing with the debit is what keeps "money moved
// internally" and "money moved externally" in separate failure domains: the
// external submission happens later, off this write path.
func (s *Store) ExecuteWithdrawal(ctx context.Context, account *models.Account, tx *models.Transaction, payout *models.Payout) error {
	tx.GSI1PK = TransactionsPartition

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	payoutAV, err := attributevalue.MarshalMap(payout)
	if err != nil {
		return fmt.Errorf("failed to marshal payout: %w", err)
	}

	// The debit is the gross amount: net payout plus fee.
	amountAV, err := attributevalue.Marshal(tx.Amount + tx.Fee)
	if err != nil {
		return fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Debit the full withdrawal amount.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: account.AccountId},
					},
					UpdateExpression:    aws.String("SET balance = balance - :amount, version = version + :inc"),
					ConditionExpression: aws.String("balance >= :amount AND version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  amountAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 2: Append the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Transactions),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 3: Write the payout outbox row.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Payouts),
					Item:                payoutAV,
					ConditionExpression: aws.String("attribute_not_exists(payout_id)"),
				},
			},
		},
	}

	if _, err = s.Client.TransactWriteItems(ctx, input); err != nil {
		var txc *types.TransactionCanceledException
		if errors.As(err, &txc) && hasConditionFailure(txc) {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to execute withdrawal: %w", err)
	}

	return nil
}
