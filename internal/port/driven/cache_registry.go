package driven

import (
	"context"

	"github.com/balkantv/panelworker/internal/cachestore"
)

// CacheRegistry is the driven port over the named cache stores. Stores
// are addressed by name; operations against the same store observe each
// other's writes, while independent stores have no ordering guarantee.
type CacheRegistry interface {
	// Open ensures the named store exists. Opening an existing store
	// is a no-op.
	Open(ctx context.Context, name string) error

	// Match returns the stored snapshot for the request identity.
	// Returns cachestore.ErrStoreNotFound if the store does not exist
	// and cachestore.ErrEntryNotFound on a miss.
	Match(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error)

	// Put stores a snapshot under the request identity, overwriting
	// any previous entry. The store is created if it does not exist.
	Put(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error

	// DeleteStore removes the named store and all its entries.
	// Returns cachestore.ErrStoreNotFound if the store does not exist.
	DeleteStore(ctx context.Context, name string) error

	// ListStoreNames returns the names of all existing stores.
	ListStoreNames(ctx context.Context) ([]string, error)
}
