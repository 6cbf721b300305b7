package driver

import (
	"context"
	"io"
	"log/slog"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/request"
	"github.com/balkantv/panelworker/internal/settings"
	"github.com/balkantv/panelworker/internal/subscription"
)

// testLogger discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSessionTokens encodes sessions as fixed token strings.
type mockSessionTokens struct{}

func (m *mockSessionTokens) Issue(session admin.Session) (string, error) {
	if session.Admin {
		return "admin-token", nil
	}
	return "plain-token", nil
}

func (m *mockSessionTokens) Verify(token string) (admin.Session, error) {
	switch token {
	case "admin-token":
		return admin.Session{Username: "root", Admin: true}, nil
	case "plain-token":
		return admin.Session{Username: "root", Admin: false}, nil
	default:
		return admin.Session{}, admin.ErrUnauthenticated
	}
}

// mockSubscriptionRepository is a mock implementation for testing.
type mockSubscriptionRepository struct {
	saveFunc           func(ctx context.Context, sub subscription.Subscription) error
	updateFunc         func(ctx context.Context, sub subscription.Subscription) error
	findAllFunc        func(ctx context.Context) ([]subscription.Subscription, error)
	findByUsernameFunc func(ctx context.Context, username string) (subscription.Subscription, error)
	deleteFunc         func(ctx context.Context, username string) error
}

func (m *mockSubscriptionRepository) Save(ctx context.Context, sub subscription.Subscription) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub subscription.Subscription) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) FindAll(ctx context.Context) ([]subscription.Subscription, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []subscription.Subscription{}, nil
}

func (m *mockSubscriptionRepository) FindByUsername(ctx context.Context, username string) (subscription.Subscription, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return subscription.Subscription{}, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, username string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, username)
	}
	return nil
}

// mockSettingsRepository is a mock implementation for testing.
type mockSettingsRepository struct {
	saveGatewayFunc          func(ctx context.Context, gw settings.Gateway) error
	findGatewayFunc          func(ctx context.Context) (settings.Gateway, error)
	findAdminCredentialsFunc func(ctx context.Context) (admin.Credentials, error)
	saveAdminCredentialsFunc func(ctx context.Context, creds admin.Credentials) error
}

func (m *mockSettingsRepository) SaveGateway(ctx context.Context, gw settings.Gateway) error {
	if m.saveGatewayFunc != nil {
		return m.saveGatewayFunc(ctx, gw)
	}
	return nil
}

func (m *mockSettingsRepository) FindGateway(ctx context.Context) (settings.Gateway, error) {
	if m.findGatewayFunc != nil {
		return m.findGatewayFunc(ctx)
	}
	return settings.Gateway{}, settings.ErrSettingsNotFound
}

func (m *mockSettingsRepository) FindAdminCredentials(ctx context.Context) (admin.Credentials, error) {
	if m.findAdminCredentialsFunc != nil {
		return m.findAdminCredentialsFunc(ctx)
	}
	return admin.Credentials{}, admin.ErrNotFound
}

func (m *mockSettingsRepository) SaveAdminCredentials(ctx context.Context, creds admin.Credentials) error {
	if m.saveAdminCredentialsFunc != nil {
		return m.saveAdminCredentialsFunc(ctx, creds)
	}
	return nil
}

// mockCacheRegistry is a map-backed cache registry for testing.
type mockCacheRegistry struct {
	stores map[string]map[string]cachestore.Snapshot
}

func newMockCacheRegistry() *mockCacheRegistry {
	return &mockCacheRegistry{stores: make(map[string]map[string]cachestore.Snapshot)}
}

func (r *mockCacheRegistry) Open(ctx context.Context, name string) error {
	if _, ok := r.stores[name]; !ok {
		r.stores[name] = make(map[string]cachestore.Snapshot)
	}
	return nil
}

func (r *mockCacheRegistry) Match(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error) {
	store, ok := r.stores[name]
	if !ok {
		return cachestore.Snapshot{}, cachestore.ErrStoreNotFound
	}
	snap, ok := store[id.Key()]
	if !ok {
		return cachestore.Snapshot{}, cachestore.ErrEntryNotFound
	}
	return snap.Clone(), nil
}

func (r *mockCacheRegistry) Put(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error {
	if _, ok := r.stores[name]; !ok {
		r.stores[name] = make(map[string]cachestore.Snapshot)
	}
	r.stores[name][id.Key()] = snap.Clone()
	return nil
}

func (r *mockCacheRegistry) DeleteStore(ctx context.Context, name string) error {
	if _, ok := r.stores[name]; !ok {
		return cachestore.ErrStoreNotFound
	}
	delete(r.stores, name)
	return nil
}

func (r *mockCacheRegistry) ListStoreNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	return names, nil
}

// mockNetworkFetcher is a mock implementation for testing.
type mockNetworkFetcher struct {
	fetchFunc func(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error)
}

func (m *mockNetworkFetcher) Fetch(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, req)
	}
	return cachestore.Snapshot{}, nil
}
