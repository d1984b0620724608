package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const connectionsAccountGSI = "account_id-index"

// AddConnection associates a websocket connection id with an account.
func (s *Store) AddConnection(ctx context.Context, accountID, connectionID string) error {
	item, err := attributevalue.MarshalMap(map[string]string{
		"connection_id": connectionID,
		"account_id":    accountID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Connections),
		Item:      item,
	}

	if _, err = s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	return nil
}

// RemoveConnection deletes a websocket connection id.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Tables.Connections),
		Key: map[string]types.AttributeValue{
			"connection_id": &types.AttributeValueMemberS{Value: connectionID},
		},
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}

	return nil
}

// GetConnectionsByAccount retrieves all live connection ids for an account.
func (s *Store) GetConnectionsByAccount(ctx context.Context, accountID string) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Connections),
		IndexName:              aws.String(connectionsAccountGSI),
		KeyConditionExpression: aws.String("account_id = :account_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_id": &types.AttributeValueMemberS{Value: accountID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections for account %s: %w", accountID, err)
	}

	connectionIDs := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		var row struct {
			ConnectionId string `dynamodbav:"connection_id"`
		}
		if err := attributevalue.UnmarshalMap(item, &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
		}
		connectionIDs = append(connectionIDs, row.ConnectionId)
	}

	return connectionIDs, nil
}
