package driven

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/cachestore"
)

const (
	// cacheStoresBucket is the root bucket holding one nested bucket
	// per cache store name. Keeping stores nested means listing and
	// purging store names can never touch the other repositories'
	// buckets in the same database file.
	cacheStoresBucket = "cache_stores"
)

// CacheBoltDBRegistry implements the CacheRegistry port using BoltDB.
// Each cache store is a nested bucket keyed by store name; each entry
// maps a request identity to a JSON-serialized response snapshot.
// BoltDB serializes writes per database, which gives the required
// read-your-writes behavior within a store.
type CacheBoltDBRegistry struct {
	db *bbolt.DB
}

// NewCacheBoltDBRegistry creates a new BoltDB-backed cache registry.
// It initializes the root bucket if it doesn't exist.
func NewCacheBoltDBRegistry(db *bbolt.DB) (*CacheBoltDBRegistry, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cacheStoresBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CacheBoltDBRegistry{db: db}, nil
}

// snapshotDTO is used for JSON serialization of stored responses.
type snapshotDTO struct {
	StatusCode int                 `json:"status_code"`
	Header     map[string][]string `json:"header"`
	Body       []byte              `json:"body"`
	StoredAt   time.Time           `json:"stored_at"`
}

// Open ensures the named store exists. Opening an existing store is a
// no-op.
func (r *CacheBoltDBRegistry) Open(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return cachestore.ErrEmptyStoreName
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(cacheStoresBucket))
		if root == nil {
			return errors.New("cache stores bucket not found")
		}
		_, err := root.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

// Match returns the stored snapshot for the request identity.
func (r *CacheBoltDBRegistry) Match(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return cachestore.Snapshot{}, err
	}

	var snap cachestore.Snapshot

	err := r.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(cacheStoresBucket))
		if root == nil {
			return errors.New("cache stores bucket not found")
		}

		store := root.Bucket([]byte(name))
		if store == nil {
			return cachestore.ErrStoreNotFound
		}

		data := store.Get([]byte(id.Key()))
		if data == nil {
			return cachestore.ErrEntryNotFound
		}

		var dto snapshotDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		snap = cachestore.NewSnapshot(dto.StatusCode, http.Header(dto.Header), dto.Body)
		return nil
	})

	return snap, err
}

// Put stores a snapshot under the request identity, overwriting any
// previous entry. The store is created if it does not exist.
func (r *CacheBoltDBRegistry) Put(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return cachestore.ErrEmptyStoreName
	}

	dto := snapshotDTO{
		StatusCode: snap.StatusCode(),
		Header:     snap.Header(),
		Body:       snap.Body(),
		StoredAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(cacheStoresBucket))
		if root == nil {
			return errors.New("cache stores bucket not found")
		}

		store, err := root.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}

		return store.Put([]byte(id.Key()), data)
	})
}

// DeleteStore removes the named store and all its entries.
func (r *CacheBoltDBRegistry) DeleteStore(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(cacheStoresBucket))
		if root == nil {
			return errors.New("cache stores bucket not found")
		}

		if root.Bucket([]byte(name)) == nil {
			return cachestore.ErrStoreNotFound
		}

		return root.DeleteBucket([]byte(name))
	})
}

// ListStoreNames returns the names of all existing stores.
func (r *CacheBoltDBRegistry) ListStoreNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string

	err := r.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(cacheStoresBucket))
		if root == nil {
			return errors.New("cache stores bucket not found")
		}

		return root.ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	if names == nil {
		names = []string{}
	}

	return names, nil
}
