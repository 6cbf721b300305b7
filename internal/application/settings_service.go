package application

import (
	"context"
	"log/slog"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/settings"
)

// SettingsService reads and writes the payment-gateway configuration.
// Both sides are admin-gated, and reads only ever yield the masked
// projection: the full key material never leaves the worker.
type SettingsService struct {
	settings driven.SettingsRepository
	tokens   driven.SessionTokens
	logger   *slog.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(settings driven.SettingsRepository, tokens driven.SessionTokens, logger *slog.Logger) *SettingsService {
	return &SettingsService{settings: settings, tokens: tokens, logger: logger}
}

// authorize validates the token and requires the elevated-privilege
// claim.
func (s *SettingsService) authorize(token string) error {
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

// SaveGateway validates and persists a gateway configuration. Returns
// settings.ErrMissingKeys or settings.ErrInvalidMode on bad input.
func (s *SettingsService) SaveGateway(ctx context.Context, token, apiKey, secretKey, callbackURL, mode string, enabled bool) error {
	if err := s.authorize(token); err != nil {
		return err
	}

	gw, err := settings.NewGateway(apiKey, secretKey, callbackURL, mode, enabled)
	if err != nil {
		return err
	}

	if err := s.settings.SaveGateway(ctx, gw); err != nil {
		s.logger.Error("failed to save gateway settings", "error", err)
		return admin.ErrInternal
	}

	s.logger.Info("gateway settings saved", "mode", gw.Mode(), "enabled", gw.Enabled())
	return nil
}

// GetGateway returns the masked projection of the stored gateway
// configuration. Returns settings.ErrSettingsNotFound when none was
// ever saved.
func (s *SettingsService) GetGateway(ctx context.Context, token string) (settings.Masked, error) {
	if err := s.authorize(token); err != nil {
		return settings.Masked{}, err
	}

	gw, err := s.settings.FindGateway(ctx)
	if err != nil {
		return settings.Masked{}, err
	}

	return gw.Masked(), nil
}
