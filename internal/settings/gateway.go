// Package settings models the payment-gateway configuration stored by
// the panel. API credentials are write-only: reads yield a masked
// projection and the full key material never leaves the worker.
package settings

import "strings"

// Gateway operating modes.
const (
	ModeSandbox    = "sandbox"
	ModeProduction = "production"
)

// Gateway holds the payment-gateway configuration. The API key and
// secret key are the secret half; enabled, mode and callback URL are
// public panel state.
type Gateway struct {
	apiKey      string
	secretKey   string
	callbackURL string
	mode        string
	enabled     bool
}

// NewGateway creates a gateway configuration. API key and secret key
// are both required; the mode defaults to sandbox when empty. Returns
// ErrMissingKeys or ErrInvalidMode on bad input.
func NewGateway(apiKey, secretKey, callbackURL, mode string, enabled bool) (Gateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	secretKey = strings.TrimSpace(secretKey)
	if apiKey == "" || secretKey == "" {
		return Gateway{}, ErrMissingKeys
	}

	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = ModeSandbox
	}
	if mode != ModeSandbox && mode != ModeProduction {
		return Gateway{}, ErrInvalidMode
	}

	return Gateway{
		apiKey:      apiKey,
		secretKey:   secretKey,
		callbackURL: strings.TrimSpace(callbackURL),
		mode:        mode,
		enabled:     enabled,
	}, nil
}

// APIKey returns the full API key. Only persistence adapters should
// call this; everything surface-facing goes through Masked.
func (g Gateway) APIKey() string {
	return g.apiKey
}

// SecretKey returns the full secret key. Same caveat as APIKey.
func (g Gateway) SecretKey() string {
	return g.secretKey
}

// CallbackURL returns the payment callback URL.
func (g Gateway) CallbackURL() string {
	return g.callbackURL
}

// Mode returns the gateway operating mode.
func (g Gateway) Mode() string {
	return g.mode
}

// Enabled reports whether the gateway is switched on.
func (g Gateway) Enabled() bool {
	return g.enabled
}

// Masked is the read-side projection of a gateway configuration. The
// key fields carry just enough of the original to be recognizable.
type Masked struct {
	APIKey      string
	SecretKey   string
	CallbackURL string
	Mode        string
	Enabled     bool
	HasKeys     bool
}

// Masked returns the projection safe to hand back to the admin UI:
// the API key keeps its first eight characters, the secret key its
// last four, everything else is replaced with asterisks.
func (g Gateway) Masked() Masked {
	return Masked{
		APIKey:      maskPrefix(g.apiKey, 8),
		SecretKey:   maskSuffix(g.secretKey, 4),
		CallbackURL: g.callbackURL,
		Mode:        g.mode,
		Enabled:     g.enabled,
		HasKeys:     true,
	}
}

func maskPrefix(s string, keep int) string {
	if s == "" {
		return ""
	}
	if len(s) < keep {
		keep = len(s)
	}
	return s[:keep] + "****"
}

func maskSuffix(s string, keep int) string {
	if s == "" {
		return ""
	}
	if len(s) < keep {
		keep = len(s)
	}
	return "****" + s[len(s)-keep:]
}
