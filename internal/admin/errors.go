package admin

import "errors"

// Typed verification failures surfaced to callers. Anything outside
// this vocabulary is logged and reported as ErrInternal so internals
// never leak through the API.
var (
	ErrUnauthenticated  = errors.New("authentication is required")
	ErrInvalidArgument  = errors.New("username and password are required")
	ErrNotFound         = errors.New("admin settings not found")
	ErrPermissionDenied = errors.New("username or password is incorrect")
	ErrInternal         = errors.New("internal server error")
)
