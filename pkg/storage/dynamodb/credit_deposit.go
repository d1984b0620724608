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

// Item indices inside the credit-deposit transact write, used to attribute a
// cancellation to the right condition.
const (
	creditAccountItem = 0
	creditDepositItem = 1
)

// CreditDeposit atomically credits the account, transitions the deposit
// PENDING -> MATCHED and appends the DEPOSIT transaction. The status
// condition on the deposit item is the idempotency guard: a second
// invocation for the same deposit cancels the whole write, so the balance
// can never be credited twice.
func (s *Store) CreditDeposit(ctx context.Context, deposit *models.PendingDeposit, account *models.Account, tx *models.Transaction) error {
	tx.GSI1PK = TransactionsPartition

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	amountAV, err := attributevalue.Marshal(tx.Amount)
	if err != nil {
		return fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Credit the account.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: account.AccountId},
					},
					UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :inc"),
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  amountAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 2: Transition the deposit PENDING -> MATCHED.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Deposits),
					Key: map[string]types.AttributeValue{
						"deposit_id": &types.AttributeValueMemberS{Value: deposit.DepositId},
					},
					// The external transaction id is stamped in the same
					// write so a redelivered feed event can be traced back
					// to the deposit it already paid.
					UpdateExpression:    aws.String("SET #status = :matched, external_tx_id = :ext"),
					ConditionExpression: aws.String("#status = :pending"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":matched": &types.AttributeValueMemberS{Value: string(models.DepositMatched)},
						":pending": &types.AttributeValueMemberS{Value: string(models.DepositPending)},
						":ext":     &types.AttributeValueMemberS{Value: deposit.ExternalTxId},
					},
				},
			},
			{
				// Operation 3: Append the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Transactions),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	if _, err = s.Client.TransactWriteItems(ctx, input); err != nil {
		var txc *types.TransactionCanceledException
		if errors.As(err, &txc) {
			if conditionFailedAt(txc, creditDepositItem) {
				return storage.ErrDuplicateCredit
			}
			if conditionFailedAt(txc, creditAccountItem) {
				return storage.ErrConflict
			}
		}
		return fmt.Errorf("failed to execute deposit credit: %w", err)
	}

	return nil
}
