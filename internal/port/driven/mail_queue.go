package driven

import (
	"context"
	"time"
)

// Mail is one outbound email waiting for delivery.
type Mail struct {
	ID         string
	To         string
	Subject    string
	HTML       string
	EnqueuedAt time.Time
}

// MailQueue is the driven port for handing outbound email to the
// delivery pipeline. The worker only enqueues; delivery itself is an
// external concern.
type MailQueue interface {
	// Enqueue adds a message to the outbound queue.
	Enqueue(ctx context.Context, mail Mail) error

	// Pending returns all messages still waiting in the queue.
	Pending(ctx context.Context) ([]Mail, error)
}
