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

// GetCursor retrieves the reconciliation high-water mark. A missing cursor
// item comes back zero-valued so the first cycle starts from the beginning
// of the feed window.
func (s *Store) GetCursor(ctx context.Context) (*models.ReconcileCursor, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": models.CursorId})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cursor key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Reconcile),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get reconcile cursor: %w", err)
	}

	if result.Item == nil {
		return &models.ReconcileCursor{Id: models.CursorId}, nil
	}

	var cursor models.ReconcileCursor
	if err := attributevalue.UnmarshalMap(result.Item, &cursor); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reconcile cursor: %w", err)
	}

	return &cursor, nil
}

// AdvanceCursor persists a new high-water mark.
func (s *Store) AdvanceCursor(ctx context.Context, cursor *models.ReconcileCursor) error {
	cursor.Id = models.CursorId

	cursorAV, err := attributevalue.MarshalMap(cursor)
	if err != nil {
		return fmt.Errorf("failed to marshal reconcile cursor: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Reconcile),
		Item:      cursorAV,
	}

	if _, err = s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to advance reconcile cursor: %w", err)
	}

	return nil
}

// RecordUnattributed records an observed inbound amount that matched no
// pending deposit, at most once per external transaction id.
func (s *Store) RecordUnattributed(ctx context.Context, dep *models.UnattributedDeposit) error {
	depAV, err := attributevalue.MarshalMap(dep)
	if err != nil {
		return fmt.Errorf("failed to marshal unattributed deposit: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Reconcile),
		Item:                depAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err = s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to record unattributed deposit: %w", err)
	}

	return nil
}
