package settings

import "errors"

// Domain errors for gateway settings operations.
var (
	// Validation errors
	ErrMissingKeys = errors.New("gateway api key and secret key are required")
	ErrInvalidMode = errors.New("gateway mode must be sandbox or production")

	// Operation errors
	ErrSettingsNotFound = errors.New("gateway settings not found")
)
