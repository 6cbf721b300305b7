package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/metrics"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/request"
)

// ErrInvalidLifecycleTransition is returned when Install or Activate
// is called from a state that does not allow it.
var ErrInvalidLifecycleTransition = errors.New("invalid lifecycle transition")

// LifecycleState is the worker's position in the version-transition
// state machine.
type LifecycleState int

// Lifecycle states, in transition order.
const (
	StateUninstalled LifecycleState = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActive
)

func (s LifecycleState) String() string {
	switch s {
	case StateUninstalled:
		return "uninstalled"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// LifecycleService runs the worker's version transition: install seeds
// the shell store from the asset manifest, activate purges stale
// stores and claims the open panel windows. The dispatcher only serves
// strategies once the service reports StateActive.
type LifecycleService struct {
	names    cachestore.NameSet
	origin   string
	manifest []string

	registry driven.CacheRegistry
	fetcher  driven.NetworkFetcher
	windows  driven.WindowRegistry
	logger   *slog.Logger

	mu    sync.Mutex
	state LifecycleState
}

// NewLifecycleService creates a lifecycle service for the given store
// name set, panel origin and asset manifest.
func NewLifecycleService(
	names cachestore.NameSet,
	origin string,
	manifest []string,
	registry driven.CacheRegistry,
	fetcher driven.NetworkFetcher,
	windows driven.WindowRegistry,
	logger *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		names:    names,
		origin:   origin,
		manifest: append([]string(nil), manifest...),
		registry: registry,
		fetcher:  fetcher,
		windows:  windows,
		logger:   logger,
		state:    StateUninstalled,
	}
}

// State returns the current lifecycle state.
func (s *LifecycleService) State() LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *LifecycleService) transition(from []LifecycleState, to LifecycleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, allowed := range from {
		if s.state == allowed {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidLifecycleTransition, s.state, to)
}

func (s *LifecycleService) setState(state LifecycleState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run performs the full version transition. There is no waiting on a
// previous worker instance: the new version installs and takes over
// immediately.
func (s *LifecycleService) Run(ctx context.Context) error {
	if err := s.Install(ctx); err != nil {
		return err
	}
	return s.Activate(ctx)
}

// Install opens the shell store and seeds it with the asset manifest.
// Seeding is best-effort: a manifest entry that cannot be fetched or
// stored is logged and skipped, and never fails the install.
func (s *LifecycleService) Install(ctx context.Context) error {
	if err := s.transition([]LifecycleState{StateUninstalled}, StateInstalling); err != nil {
		return err
	}

	if err := s.registry.Open(ctx, s.names.Shell()); err != nil {
		s.setState(StateUninstalled)
		return fmt.Errorf("failed to open shell store: %w", err)
	}
	if err := s.registry.Open(ctx, s.names.Vendor()); err != nil {
		s.setState(StateUninstalled)
		return fmt.Errorf("failed to open vendor store: %w", err)
	}

	seeded := 0
	for _, path := range s.manifest {
		if err := s.seedAsset(ctx, path); err != nil {
			s.logger.Warn("failed to seed shell asset", "path", path, "error", err)
			metrics.InstallAssetFailures.Inc()
			continue
		}
		seeded++
	}

	s.logger.Info("install complete", "store", s.names.Shell(), "seeded", seeded, "manifest", len(s.manifest))

	s.setState(StateInstalled)
	return nil
}

// seedAsset fetches one manifest path from the panel origin and stores
// it in the shell store.
func (s *LifecycleService) seedAsset(ctx context.Context, path string) error {
	assetURL := s.origin + path

	req, err := request.NewFetchRequest(http.MethodGet, assetURL, false)
	if err != nil {
		return err
	}

	snap, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if snap.StatusCode() != http.StatusOK {
		return fmt.Errorf("asset fetch returned status %d", snap.StatusCode())
	}

	id, err := cachestore.NewIdentity(http.MethodGet, assetURL)
	if err != nil {
		return err
	}

	return s.registry.Put(ctx, s.names.Shell(), id, snap)
}

// Activate purges every store whose name is outside the current name
// set, then claims all open panel windows. The purge completes before
// any window is claimed so a freshly claimed window can never be
// served from a store that is about to disappear. Activation with an
// unchanged name set deletes nothing.
func (s *LifecycleService) Activate(ctx context.Context) error {
	if err := s.transition([]LifecycleState{StateInstalled, StateActive}, StateActivating); err != nil {
		return err
	}

	names, err := s.registry.ListStoreNames(ctx)
	if err != nil {
		s.setState(StateInstalled)
		return fmt.Errorf("failed to list cache stores: %w", err)
	}

	for _, name := range names {
		if s.names.Contains(name) {
			continue
		}
		if err := s.registry.DeleteStore(ctx, name); err != nil {
			s.setState(StateInstalled)
			return fmt.Errorf("failed to purge stale store %q: %w", name, err)
		}
		s.logger.Info("purged stale cache store", "store", name)
		metrics.StoresPurged.Inc()
	}

	if err := s.windows.ClaimAll(ctx); err != nil {
		s.setState(StateInstalled)
		return fmt.Errorf("failed to claim open windows: %w", err)
	}

	s.setState(StateActive)
	s.logger.Info("activation complete", "shell", s.names.Shell(), "vendor", s.names.Vendor())
	return nil
}
