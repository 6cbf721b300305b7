package driven

import (
	"context"

	"github.com/balkantv/panelworker/internal/subscription"
)

// SubscriptionRepository defines the interface for panel account
// subscription persistence. This is a driven port implemented by
// concrete adapters (e.g., BoltDB).
type SubscriptionRepository interface {
	// Save persists a new subscription. Returns
	// subscription.ErrSubscriptionAlreadyExists if a subscription with
	// the same username already exists.
	Save(ctx context.Context, sub subscription.Subscription) error

	// Update replaces an existing subscription. Returns
	// subscription.ErrSubscriptionNotFound if it does not exist.
	Update(ctx context.Context, sub subscription.Subscription) error

	// FindAll retrieves all subscriptions.
	FindAll(ctx context.Context) ([]subscription.Subscription, error)

	// FindByUsername retrieves a subscription by panel username.
	// Returns subscription.ErrSubscriptionNotFound if it does not exist.
	FindByUsername(ctx context.Context, username string) (subscription.Subscription, error)

	// Delete removes a subscription by panel username. Returns
	// subscription.ErrSubscriptionNotFound if it does not exist.
	Delete(ctx context.Context, username string) error
}
