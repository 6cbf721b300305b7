package cachestore

import "errors"

// Domain errors for cache store operations.
var (
	// Store name validation errors
	ErrEmptyStoreName = errors.New("cache store name cannot be empty")
	ErrEmptyVersion   = errors.New("cache store version cannot be empty")

	// Request identity validation errors
	ErrEmptyRequestURL = errors.New("request identity url cannot be empty")

	// Store operation errors
	ErrStoreNotFound = errors.New("cache store not found")
	ErrEntryNotFound = errors.New("cache entry not found")
)
