package application

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/balkantv/panelworker/internal/metrics"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/subscription"
)

// ExpiryService runs the daily subscription-expiry sweep: every
// subscription expiring exactly offsetDays from the current date gets
// a renewal notice enqueued for delivery.
type ExpiryService struct {
	offsetDays int
	location   *time.Location
	subject    string
	renewalURL string
	appName    string

	subscriptions driven.SubscriptionRepository
	mail          driven.MailQueue
	logger        *slog.Logger

	now func() time.Time
}

// NewExpiryService creates an expiry service. The sweep evaluates
// dates in the given location; offsetDays is how many days before
// expiry the notice goes out.
func NewExpiryService(
	offsetDays int,
	location *time.Location,
	subject string,
	renewalURL string,
	appName string,
	subscriptions driven.SubscriptionRepository,
	mail driven.MailQueue,
	logger *slog.Logger,
) *ExpiryService {
	return &ExpiryService{
		offsetDays:    offsetDays,
		location:      location,
		subject:       subject,
		renewalURL:    renewalURL,
		appName:       appName,
		subscriptions: subscriptions,
		mail:          mail,
		logger:        logger,
		now:           time.Now,
	}
}

// CheckExpiries sweeps all subscriptions and enqueues a notice for
// each one expiring exactly offsetDays from today. Records without an
// email address are logged and skipped; an enqueue failure skips that
// record and continues. Returns the number of notices enqueued.
func (s *ExpiryService) CheckExpiries(ctx context.Context) (int, error) {
	target := s.now().In(s.location).AddDate(0, 0, s.offsetDays).Format("2006-01-02")

	subs, err := s.subscriptions.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	enqueued := 0
	for _, sub := range subs {
		if !sub.ExpiresExactlyOn(target) {
			continue
		}
		if !sub.HasEmail() {
			s.logger.Warn("subscription has no email address, skipping expiry notice", "username", sub.Username())
			continue
		}

		mail := driven.Mail{
			To:      sub.Email(),
			Subject: s.subject,
			HTML:    s.noticeBody(sub),
		}
		if err := s.mail.Enqueue(ctx, mail); err != nil {
			s.logger.Error("failed to enqueue expiry notice", "username", sub.Username(), "error", err)
			continue
		}

		metrics.ExpiryMailsEnqueued.Inc()
		enqueued++
		s.logger.Info("expiry notice enqueued", "username", sub.Username(), "expires_on", sub.ExpiresOn())
	}

	s.logger.Info("expiry sweep complete", "target_date", target, "checked", len(subs), "enqueued", enqueued)
	return enqueued, nil
}

// noticeBody renders the HTML body of an expiry notice.
func (s *ExpiryService) noticeBody(sub subscription.Subscription) string {
	return fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Your %s subscription expires on <strong>%s</strong>.</p>"+
			"<p><a href=%q>Renew your subscription</a> to keep watching without interruption.</p>",
		html.EscapeString(sub.Username()),
		html.EscapeString(s.appName),
		sub.ExpiresOn(),
		s.renewalURL,
	)
}
