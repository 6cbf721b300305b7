package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/balkantv/panelworker/internal/metrics"
	"github.com/balkantv/panelworker/internal/notification"
	"github.com/balkantv/panelworker/internal/port/driven"
)

// PushService handles inbound push messages and notification clicks.
// Every push yields a visible notification; a click routes the user to
// an already open panel window when one exists, or opens a new one.
type PushService struct {
	defaults notification.Defaults
	urlToken string

	presenter driven.NotificationPresenter
	windows   driven.WindowRegistry
	logger    *slog.Logger

	now func() time.Time
}

// NewPushService creates a push service. urlToken is the substring
// that identifies a panel window by its URL at click time.
func NewPushService(
	defaults notification.Defaults,
	urlToken string,
	presenter driven.NotificationPresenter,
	windows driven.WindowRegistry,
	logger *slog.Logger,
) *PushService {
	return &PushService{
		defaults:  defaults,
		urlToken:  urlToken,
		presenter: presenter,
		windows:   windows,
		logger:    logger,
		now:       time.Now,
	}
}

// HandlePush normalizes a raw push payload and displays it. The
// payload may be JSON, plain text or absent; normalization always
// produces a notification, so a push is only lost if the presenter
// itself fails.
func (s *PushService) HandlePush(ctx context.Context, raw []byte) (notification.Notification, error) {
	n := notification.Normalize(raw, s.defaults, s.now())

	if err := s.presenter.Show(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("failed to show notification: %w", err)
	}

	metrics.NotificationsShown.Inc()
	s.logger.Info("notification shown", "id", n.ID, "tag", n.Tag, "title", n.Title)
	return n, nil
}

// HandleClick dismisses the clicked notification and routes the user:
// the first open window whose URL contains the panel token is focused;
// with no such window a new one is opened at the notification's target
// URL.
func (s *PushService) HandleClick(ctx context.Context, notificationID string) error {
	n, err := s.presenter.Get(ctx, notificationID)
	if err != nil {
		return err
	}

	if err := s.presenter.Close(ctx, notificationID); err != nil {
		s.logger.Warn("failed to close clicked notification", "id", notificationID, "error", err)
	}

	open, err := s.windows.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open windows: %w", err)
	}

	for _, w := range open {
		if strings.Contains(w.URL, s.urlToken) {
			if err := s.windows.Focus(ctx, w.ID); err != nil {
				return fmt.Errorf("failed to focus window: %w", err)
			}
			s.logger.Info("focused existing panel window", "window", w.ID, "notification", notificationID)
			return nil
		}
	}

	target := n.URL
	if target == "" {
		target = "/"
	}

	w, err := s.windows.Open(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	s.logger.Info("opened new panel window", "window", w.ID, "url", target, "notification", notificationID)
	return nil
}
