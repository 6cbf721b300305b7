package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/metrics"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/request"
)

// DispatchService resolves intercepted fetches with the strategy of
// their handling class: bypass and backend traffic goes straight to
// the network, vendor assets are cache-first against the vendor store,
// and shell traffic is network-first with the shell store as fallback.
type DispatchService struct {
	classifier request.Classifier
	names      cachestore.NameSet
	shellDoc   string
	appHost    string

	registry driven.CacheRegistry
	fetcher  driven.NetworkFetcher
	logger   *slog.Logger

	// asyncPut runs the shell store-after-return write. Replaced in
	// tests to make the write synchronous.
	asyncPut func(fn func())
}

// NewDispatchService creates a dispatcher. origin is the panel origin
// responses must come from to be cacheable as shell traffic; shellDoc
// is the absolute URL of the application shell document.
func NewDispatchService(
	classifier request.Classifier,
	names cachestore.NameSet,
	origin string,
	shellDoc string,
	registry driven.CacheRegistry,
	fetcher driven.NetworkFetcher,
	logger *slog.Logger,
) *DispatchService {
	host := ""
	if u, err := url.Parse(origin); err == nil {
		host = u.Host
	}

	return &DispatchService{
		classifier: classifier,
		names:      names,
		shellDoc:   shellDoc,
		appHost:    host,
		registry:   registry,
		fetcher:    fetcher,
		logger:     logger,
		asyncPut:   func(fn func()) { go fn() },
	}
}

// Dispatch resolves one intercepted fetch.
func (s *DispatchService) Dispatch(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	class := s.classifier.Classify(req)
	metrics.RecordDispatch(class.String())

	switch class {
	case request.ClassVendor:
		return s.resolveVendor(ctx, req)
	case request.ClassShell:
		return s.resolveShell(ctx, req)
	default:
		// Bypass and backend traffic never touches any store.
		return s.fetcher.Fetch(ctx, req)
	}
}

// resolveVendor serves third-party assets cache-first: a hit is
// replayed from the vendor store, a miss goes to the network and
// successful responses are stored for next time.
func (s *DispatchService) resolveVendor(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	id, err := cachestore.NewIdentity(req.Method(), req.URL())
	if err != nil {
		return cachestore.Snapshot{}, err
	}

	snap, err := s.registry.Match(ctx, s.names.Vendor(), id)
	if err == nil {
		metrics.RecordCacheHit("vendor")
		return snap, nil
	}
	if !errors.Is(err, cachestore.ErrEntryNotFound) && !errors.Is(err, cachestore.ErrStoreNotFound) {
		s.logger.Warn("vendor cache lookup failed", "url", req.URL(), "error", err)
	}
	metrics.RecordCacheMiss("vendor")

	fetched, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return cachestore.Snapshot{}, fmt.Errorf("vendor asset fetch failed: %w", err)
	}

	if fetched.StatusCode() == http.StatusOK {
		if err := s.registry.Put(ctx, s.names.Vendor(), id, fetched.Clone()); err != nil {
			s.logger.Warn("failed to store vendor asset", "url", req.URL(), "error", err)
		}
	}

	return fetched, nil
}

// resolveShell serves first-party traffic network-first. A successful
// same-origin response is returned immediately and a copy is written
// to the shell store after the fact; a network failure falls back to
// the shell store, and an offline navigation with no cached entry is
// served the application shell document as last resort.
func (s *DispatchService) resolveShell(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	id, err := cachestore.NewIdentity(req.Method(), req.URL())
	if err != nil {
		return cachestore.Snapshot{}, err
	}

	fetched, fetchErr := s.fetcher.Fetch(ctx, req)
	if fetchErr == nil {
		if fetched.StatusCode() == http.StatusOK && s.sameOrigin(req.URL()) {
			clone := fetched.Clone()
			putCtx := context.WithoutCancel(ctx)
			s.asyncPut(func() {
				if err := s.registry.Put(putCtx, s.names.Shell(), id, clone); err != nil {
					s.logger.Warn("failed to store shell resource", "url", req.URL(), "error", err)
				}
			})
		}
		return fetched, nil
	}

	snap, err := s.registry.Match(ctx, s.names.Shell(), id)
	if err == nil {
		metrics.RecordCacheHit("shell")
		s.logger.Info("served shell resource from cache", "url", req.URL())
		return snap, nil
	}
	metrics.RecordCacheMiss("shell")

	if req.IsNavigation() {
		shellID, err := cachestore.NewIdentity(http.MethodGet, s.shellDoc)
		if err != nil {
			return cachestore.Snapshot{}, err
		}
		snap, err := s.registry.Match(ctx, s.names.Shell(), shellID)
		if err == nil {
			metrics.ShellFallbacks.Inc()
			s.logger.Info("served application shell to offline navigation", "url", req.URL())
			return snap, nil
		}
	}

	return cachestore.Snapshot{}, fmt.Errorf("offline with no cached fallback: %w", fetchErr)
}

// sameOrigin reports whether the URL's host matches the panel origin.
func (s *DispatchService) sameOrigin(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == s.appHost
}
