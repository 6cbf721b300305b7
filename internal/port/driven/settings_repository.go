package driven

import (
	"context"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/settings"
)

// SettingsRepository is the driven port over the panel's settings
// documents: the payment-gateway configuration (public state plus the
// write-only key material) and the administrator credentials.
type SettingsRepository interface {
	// SaveGateway persists a gateway configuration, overwriting any
	// previous one. The adapter keeps the key material separate from
	// the public document.
	SaveGateway(ctx context.Context, gw settings.Gateway) error

	// FindGateway retrieves the stored gateway configuration. Returns
	// settings.ErrSettingsNotFound if none was ever saved.
	FindGateway(ctx context.Context) (settings.Gateway, error)

	// FindAdminCredentials retrieves the administrator credential
	// pair. Returns admin.ErrNotFound if none is configured.
	FindAdminCredentials(ctx context.Context) (admin.Credentials, error)

	// SaveAdminCredentials stores the administrator credential pair,
	// overwriting any previous one.
	SaveAdminCredentials(ctx context.Context, creds admin.Credentials) error
}
