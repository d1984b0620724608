package storage

import "context"

// ConnectionStore defines the interface for tracking live session
// connections per account.
type ConnectionStore interface {
	// AddConnection associates a connection id with an account.
	AddConnection(ctx context.Context, accountID, connectionID string) error

	// RemoveConnection deletes a connection id.
	RemoveConnection(ctx context.Context, connectionID string) error

	// GetConnectionsByAccount retrieves all live connection ids for an account.
	GetConnectionsByAccount(ctx context.Context, accountID string) ([]string, error)
}
