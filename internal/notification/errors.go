package notification

import "errors"

// Domain errors for notification operations.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrWindowNotFound       = errors.New("window not found")
)
