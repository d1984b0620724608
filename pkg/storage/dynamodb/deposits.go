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

const (
	depositStatusGSI     = "status-created_at-index"
	depositExternalTxGSI = "external_tx_id-index"
)

// CreatePendingDeposit records a new deposit intent in DynamoDB.
func (s *Store) CreatePendingDeposit(ctx context.Context, dep *models.PendingDeposit) (*models.PendingDeposit, error) {
	depAV, err := attributevalue.MarshalMap(dep)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pending deposit: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Deposits),
		Item:                depAV,
		ConditionExpression: aws.String("attribute_not_exists(deposit_id)"),
	}

	if _, err = s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create pending deposit in DynamoDB: %w", err)
	}

	return dep, nil
}

// GetPendingDeposit retrieves a deposit intent from DynamoDB by its ID.
func (s *Store) GetPendingDeposit(ctx context.Context, depositID string) (*models.PendingDeposit, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"deposit_id": depositID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deposit ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Deposits),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deposit from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrDepositNotFound
	}

	var dep models.PendingDeposit
	if err := attributevalue.UnmarshalMap(result.Item, &dep); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending deposit: %w", err)
	}

	return &dep, nil
}

// ListPendingDeposits retrieves all still-PENDING deposit intents, oldest first.
func (s *Store) ListPendingDeposits(ctx context.Context) ([]models.PendingDeposit, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Deposits),
		IndexName:              aws.String(depositStatusGSI),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.DepositPending)},
		},
		ScanIndexForward: aws.Bool(true), // oldest first
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending deposits: %w", err)
	}

	var deposits []models.PendingDeposit
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &deposits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending deposits: %w", err)
	}

	return deposits, nil
}

// GetDepositByExternalTxID retrieves the deposit credited from the given
// external transaction, if any.
func (s *Store) GetDepositByExternalTxID(ctx context.Context, externalTxID string) (*models.PendingDeposit, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Deposits),
		IndexName:              aws.String(depositExternalTxGSI),
		KeyConditionExpression: aws.String("external_tx_id = :ext"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ext": &types.AttributeValueMemberS{Value: externalTxID},
		},
		Limit: aws.Int32(1),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposit by external tx id: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, storage.ErrDepositNotFound
	}

	var dep models.PendingDeposit
	if err := attributevalue.UnmarshalMap(result.Items[0], &dep); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending deposit: %w", err)
	}

	return &dep, nil
}

// ExpireDeposit transitions a deposit from PENDING to EXPIRED.
func (s *Store) ExpireDeposit(ctx context.Context, depositID string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Deposits),
		Key: map[string]types.AttributeValue{
			"deposit_id": &types.AttributeValueMemberS{Value: depositID},
		},
		UpdateExpression:    aws.String("SET #status = :expired"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expired": &types.AttributeValueMemberS{Value: string(models.DepositExpired)},
			":pending": &types.AttributeValueMemberS{Value: string(models.DepositPending)},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrDepositNotPending
		}
		return fmt.Errorf("failed to expire deposit %s: %w", depositID, err)
	}

	return nil
}
