package request

import "errors"

// Domain errors for fetch request validation.
var (
	ErrEmptyURL = errors.New("fetch request url cannot be empty")
)
