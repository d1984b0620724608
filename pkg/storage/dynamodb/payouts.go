package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
)

// GetPayout retrieves a payout outbox row from DynamoDB by its ID.
func (s *Store) GetPayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"payout_id": payoutID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Payouts),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("payout with ID %s not found", payoutID)
	}

	var payout models.Payout
	if err := attributevalue.UnmarshalMap(result.Item, &payout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payout: %w", err)
	}

	return &payout, nil
}

// AcquirePayout atomically increments the attempt counter of a PENDING
// payout and returns the updated row. A redelivered message for an already
// resolved payout fails the condition and is skipped by the worker.
func (s *Store) AcquirePayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Payouts),
		Key: map[string]types.AttributeValue{
			"payout_id": &types.AttributeValueMemberS{Value: payoutID},
		},
		UpdateExpression:    aws.String("SET attempts = attempts + :inc, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc":     &types.AttributeValueMemberN{Value: "1"},
			":now":     nowAV,
			":pending": &types.AttributeValueMemberS{Value: string(models.PayoutPending)},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrPayoutNotPending
		}
		return nil, fmt.Errorf("failed to acquire payout %s: %w", payoutID, err)
	}

	var payout models.Payout
	if err := attributevalue.UnmarshalMap(result.Attributes, &payout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payout: %w", err)
	}

	return &payout, nil
}

// ResolvePayout marks a payout SENT or FAILED and mirrors the outcome onto
// the originating transaction's payout_status in the same atomic write.
func (s *Store) ResolvePayout(ctx context.Context, payout *models.Payout, status models.PayoutStatus) error {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	txStatus := models.PayoutSent
	if status == models.PayoutFailed {
		txStatus = models.PayoutFailed
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Resolve the payout row.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Payouts),
					Key: map[string]types.AttributeValue{
						"payout_id": &types.AttributeValueMemberS{Value: payout.PayoutId},
					},
					UpdateExpression:    aws.String("SET #status = :status, updated_at = :now"),
					ConditionExpression: aws.String("#status = :pending"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":status":  &types.AttributeValueMemberS{Value: string(status)},
						":pending": &types.AttributeValueMemberS{Value: string(models.PayoutPending)},
						":now":     nowAV,
					},
				},
			},
			{
				// Operation 2: Mirror the outcome onto the transaction.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Transactions),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: payout.TransactionId},
					},
					UpdateExpression: aws.String("SET payout_status = :status"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":status": &types.AttributeValueMemberS{Value: string(txStatus)},
					},
				},
			},
		},
	}

	if _, err = s.Client.TransactWriteItems(ctx, input); err != nil {
		var txc *types.TransactionCanceledException
		if errors.As(err, &txc) && hasConditionFailure(txc) {
			return storage.ErrPayoutNotPending
		}
		return fmt.Errorf("failed to resolve payout %s: %w", payout.PayoutId, err)
	}

	return nil
}
