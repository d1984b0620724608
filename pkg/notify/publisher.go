package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// DefaultPublisher is the default implementation of the Publisher interface.
type DefaultPublisher struct {
	store       ConnectionLookup
	apiGwClient ManagementAPI
}

// NewPublisher creates a new DefaultPublisher.
func NewPublisher(store ConnectionLookup, apiEndpoint string) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	apiGwClient := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})

	return &DefaultPublisher{
		store:       store,
		apiGwClient: apiGwClient,
	}, nil
}

// Publish sends a balance event to every live session of the account.
func (p *DefaultPublisher) Publish(ctx context.Context, accountID string, event Event) error {
	connectionIDs, err := p.store.GetConnectionsByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get connections for account: %w", err)
	}

	payload, err := json.Marshal(Message{Type: MessageTypeBalanceUpdate, Payload: event})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				slog.Info("stale connection found, deleting", "connectionId", connectionID)
				if err := p.store.RemoveConnection(ctx, connectionID); err != nil {
					slog.Error("failed to delete stale connection", "error", err)
				}
			} else {
				slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
			}
		}
	}

	return nil
}
