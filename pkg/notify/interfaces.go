package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
)

// Publisher defines the interface for pushing balance events to the live
// sessions of one account. Delivery is at-most-once per connected session;
// there is no persistence or replay. A disconnected session reconciles by
// re-fetching account state on reconnect.
type Publisher interface {
	Publish(ctx context.Context, accountID string, event Event) error
}

// ConnectionLookup resolves the live connection ids of an account.
type ConnectionLookup interface {
	GetConnectionsByAccount(ctx context.Context, accountID string) ([]string, error)
	RemoveConnection(ctx context.Context, connectionID string) error
}

// ManagementAPI captures the API Gateway management call the publisher uses.
type ManagementAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}
