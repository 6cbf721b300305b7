package application

import (
	"context"
	"fmt"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/subscription"
)

// SubscriptionService manages panel account subscriptions: the records
// the expiry notifier sweeps. All operations are admin-gated.
type SubscriptionService struct {
	subscriptions driven.SubscriptionRepository
	tokens        driven.SessionTokens
}

// NewSubscriptionService creates a subscription service.
func NewSubscriptionService(subscriptions driven.SubscriptionRepository, tokens driven.SessionTokens) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, tokens: tokens}
}

func (s *SubscriptionService) authorize(token string) error {
	if token == "" {
		return admin.ErrUnauthenticated
	}
	sess, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if !sess.Admin {
		return admin.ErrPermissionDenied
	}
	return nil
}

// Subscribe creates a subscription for the given panel username.
// Returns subscription.ErrSubscriptionAlreadyExists if one exists.
func (s *SubscriptionService) Subscribe(ctx context.Context, token, username, email, expiresOn string) error {
	if err := s.authorize(token); err != nil {
		return err
	}

	sub, err := subscription.NewSubscription(username, email, expiresOn)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := s.subscriptions.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	return nil
}

// Renew moves an existing subscription to a new expiry date. Returns
// subscription.ErrSubscriptionNotFound if it does not exist.
func (s *SubscriptionService) Renew(ctx context.Context, token, username, expiresOn string) error {
	if err := s.authorize(token); err != nil {
		return err
	}

	sub, err := s.subscriptions.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	renewed, err := sub.Renew(expiresOn)
	if err != nil {
		return fmt.Errorf("failed to renew subscription: %w", err)
	}

	if err := s.subscriptions.Update(ctx, renewed); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

// Unsubscribe removes the subscription for the given panel username.
// Returns subscription.ErrSubscriptionNotFound if not subscribed.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, token, username string) error {
	if err := s.authorize(token); err != nil {
		return err
	}

	if err := s.subscriptions.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

// ListSubscriptions retrieves all current subscriptions.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, token string) ([]subscription.Subscription, error) {
	if err := s.authorize(token); err != nil {
		return nil, err
	}

	subs, err := s.subscriptions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return subs, nil
}

// GetSubscription retrieves a specific subscription by panel username.
// Returns subscription.ErrSubscriptionNotFound if not subscribed.
func (s *SubscriptionService) GetSubscription(ctx context.Context, token, username string) (subscription.Subscription, error) {
	if err := s.authorize(token); err != nil {
		return subscription.Subscription{}, err
	}

	sub, err := s.subscriptions.FindByUsername(ctx, username)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}
