package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/notification"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/request"
	"github.com/balkantv/panelworker/internal/settings"
	"github.com/balkantv/panelworker/internal/subscription"
)

// testLogger discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCacheRegistry is a mock implementation of driven.CacheRegistry for testing.
type mockCacheRegistry struct {
	openFunc           func(ctx context.Context, name string) error
	matchFunc          func(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error)
	putFunc            func(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error
	deleteStoreFunc    func(ctx context.Context, name string) error
	listStoreNamesFunc func(ctx context.Context) ([]string, error)
}

func (m *mockCacheRegistry) Open(ctx context.Context, name string) error {
	if m.openFunc != nil {
		return m.openFunc(ctx, name)
	}
	return nil
}

func (m *mockCacheRegistry) Match(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error) {
	if m.matchFunc != nil {
		return m.matchFunc(ctx, name, id)
	}
	return cachestore.Snapshot{}, cachestore.ErrEntryNotFound
}

func (m *mockCacheRegistry) Put(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, name, id, snap)
	}
	return nil
}

func (m *mockCacheRegistry) DeleteStore(ctx context.Context, name string) error {
	if m.deleteStoreFunc != nil {
		return m.deleteStoreFunc(ctx, name)
	}
	return nil
}

func (m *mockCacheRegistry) ListStoreNames(ctx context.Context) ([]string, error) {
	if m.listStoreNamesFunc != nil {
		return m.listStoreNamesFunc(ctx)
	}
	return []string{}, nil
}

// memoryCacheRegistry is a real in-memory registry for tests that need
// writes to be observable across calls.
type memoryCacheRegistry struct {
	stores map[string]map[string]cachestore.Snapshot
}

func newMemoryCacheRegistry() *memoryCacheRegistry {
	return &memoryCacheRegistry{stores: make(map[string]map[string]cachestore.Snapshot)}
}

func (r *memoryCacheRegistry) Open(ctx context.Context, name string) error {
	if _, ok := r.stores[name]; !ok {
		r.stores[name] = make(map[string]cachestore.Snapshot)
	}
	return nil
}

func (r *memoryCacheRegistry) Match(ctx context.Context, name string, id cachestore.Identity) (cachestore.Snapshot, error) {
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

func (r *memoryCacheRegistry) Put(ctx context.Context, name string, id cachestore.Identity, snap cachestore.Snapshot) error {
	if _, ok := r.stores[name]; !ok {
		r.stores[name] = make(map[string]cachestore.Snapshot)
	}
	r.stores[name][id.Key()] = snap.Clone()
	return nil
}

func (r *memoryCacheRegistry) DeleteStore(ctx context.Context, name string) error {
	if _, ok := r.stores[name]; !ok {
		return cachestore.ErrStoreNotFound
	}
	delete(r.stores, name)
	return nil
}

func (r *memoryCacheRegistry) ListStoreNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	return names, nil
}

// mockNetworkFetcher is a mock implementation of driven.NetworkFetcher for testing.
type mockNetworkFetcher struct {
	fetchFunc func(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error)
	calls     int
}

func (m *mockNetworkFetcher) Fetch(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	m.calls++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, req)
	}
	return cachestore.Snapshot{}, nil
}

// mockWindowRegistry is a mock implementation of driven.WindowRegistry for testing.
type mockWindowRegistry struct {
	listFunc     func(ctx context.Context) ([]notification.Window, error)
	focusFunc    func(ctx context.Context, id string) error
	openFunc     func(ctx context.Context, url string) (notification.Window, error)
	claimAllFunc func(ctx context.Context) error
	claims       int
}

func (m *mockWindowRegistry) List(ctx context.Context) ([]notification.Window, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []notification.Window{}, nil
}

func (m *mockWindowRegistry) Focus(ctx context.Context, id string) error {
	if m.focusFunc != nil {
		return m.focusFunc(ctx, id)
	}
	return nil
}

func (m *mockWindowRegistry) Open(ctx context.Context, url string) (notification.Window, error) {
	if m.openFunc != nil {
		return m.openFunc(ctx, url)
	}
	return notification.Window{ID: "new", URL: url, Controlled: true}, nil
}

func (m *mockWindowRegistry) ClaimAll(ctx context.Context) error {
	m.claims++
	if m.claimAllFunc != nil {
		return m.claimAllFunc(ctx)
	}
	return nil
}

// mockNotificationPresenter is a mock implementation of driven.NotificationPresenter for testing.
type mockNotificationPresenter struct {
	showFunc  func(ctx context.Context, n notification.Notification) error
	getFunc   func(ctx context.Context, id string) (notification.Notification, error)
	closeFunc func(ctx context.Context, id string) error
	shown     []notification.Notification
	closed    []string
}

func (m *mockNotificationPresenter) Show(ctx context.Context, n notification.Notification) error {
	if m.showFunc != nil {
		return m.showFunc(ctx, n)
	}
	m.shown = append(m.shown, n)
	return nil
}

func (m *mockNotificationPresenter) Get(ctx context.Context, id string) (notification.Notification, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return notification.Notification{}, notification.ErrNotificationNotFound
}

func (m *mockNotificationPresenter) Close(ctx context.Context, id string) error {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, id)
	}
	m.closed = append(m.closed, id)
	return nil
}

// mockSubscriptionRepository is a mock implementation of driven.SubscriptionRepository for testing.
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

// mockMailQueue is a mock implementation of driven.MailQueue for testing.
type mockMailQueue struct {
	enqueueFunc func(ctx context.Context, mail driven.Mail) error
	pendingFunc func(ctx context.Context) ([]driven.Mail, error)
	enqueued    []driven.Mail
}

func (m *mockMailQueue) Enqueue(ctx context.Context, mail driven.Mail) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, mail)
	}
	m.enqueued = append(m.enqueued, mail)
	return nil
}

func (m *mockMailQueue) Pending(ctx context.Context) ([]driven.Mail, error) {
	if m.pendingFunc != nil {
		return m.pendingFunc(ctx)
	}
	return append([]driven.Mail(nil), m.enqueued...), nil
}

// mockSettingsRepository is a mock implementation of driven.SettingsRepository for testing.
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

// mockSessionTokens is a mock implementation of driven.SessionTokens for
// testing. Tokens are encoded as "user:admin" or "user:plain".
type mockSessionTokens struct {
	issueFunc  func(session admin.Session) (string, error)
	verifyFunc func(token string) (admin.Session, error)
}

func (m *mockSessionTokens) Issue(session admin.Session) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(session)
	}
	suffix := "plain"
	if session.Admin {
		suffix = "admin"
	}
	return session.Username + ":" + suffix, nil
}

func (m *mockSessionTokens) Verify(token string) (admin.Session, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token)
	}
	switch token {
	case "admin-token":
		return admin.Session{Username: "root", Admin: true}, nil
	case "plain-token":
		return admin.Session{Username: "root", Admin: false}, nil
	default:
		return admin.Session{}, admin.ErrUnauthenticated
	}
}
