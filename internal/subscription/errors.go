package subscription

import "errors"

// Domain errors for subscription operations.
var (
	// Subscription validation errors
	ErrEmptyUsername     = errors.New("subscription username cannot be empty")
	ErrInvalidExpiryDate = errors.New("subscription expiry date must be YYYY-MM-DD")

	// Subscription operation errors
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)
