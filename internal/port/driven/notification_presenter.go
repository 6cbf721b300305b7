package driven

import (
	"context"

	"github.com/balkantv/panelworker/internal/notification"
)

// NotificationPresenter is the driven port for showing system
// notifications to the user. Showing a notification whose tag matches
// a visible one replaces it (tag replace-semantics).
type NotificationPresenter interface {
	// Show displays a notification.
	Show(ctx context.Context, n notification.Notification) error

	// Get returns a displayed notification by ID. Returns
	// notification.ErrNotificationNotFound if it is not visible.
	Get(ctx context.Context, id string) (notification.Notification, error)

	// Close dismisses a displayed notification. Closing an unknown ID
	// returns notification.ErrNotificationNotFound.
	Close(ctx context.Context, id string) error
}

// WindowRegistry is the driven port over the set of currently open
// panel windows. The set is queried at notification-click time and on
// activation; it is never persisted.
type WindowRegistry interface {
	// List returns all open windows, including ones not yet controlled
	// by this worker instance.
	List(ctx context.Context) ([]notification.Window, error)

	// Focus brings an open window to the foreground. Returns
	// notification.ErrWindowNotFound for an unknown ID.
	Focus(ctx context.Context, id string) error

	// Open opens a new window at the given URL.
	Open(ctx context.Context, url string) (notification.Window, error)

	// ClaimAll takes control of every open window so the worker
	// handles their requests immediately, without waiting for reloads.
	ClaimAll(ctx context.Context) error
}
