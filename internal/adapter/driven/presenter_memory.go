package driven

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/balkantv/panelworker/internal/notification"
)

// PresenterMemory implements the NotificationPresenter port in memory.
// Displayed notifications are what connected panel clients poll for;
// they are never persisted, so a worker restart simply clears them.
type PresenterMemory struct {
	mu      sync.Mutex
	visible map[string]notification.Notification
}

// NewPresenterMemory creates an empty in-memory presenter.
func NewPresenterMemory() *PresenterMemory {
	return &PresenterMemory{
		visible: make(map[string]notification.Notification),
	}
}

// Show displays a notification. A notification with the tag of an
// already visible one replaces it.
func (p *PresenterMemory) Show(ctx context.Context, n notification.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if n.Tag != "" {
		for id, existing := range p.visible {
			if existing.Tag == n.Tag {
				delete(p.visible, id)
			}
		}
	}

	p.visible[n.ID] = n
	return nil
}

// Get returns a displayed notification by ID.
func (p *PresenterMemory) Get(ctx context.Context, id string) (notification.Notification, error) {
	if err := ctx.Err(); err != nil {
		return notification.Notification{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.visible[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	return n, nil
}

// Close dismisses a displayed notification.
func (p *PresenterMemory) Close(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.visible[id]; !ok {
		return notification.ErrNotificationNotFound
	}
	delete(p.visible, id)
	return nil
}

// Visible returns all currently displayed notifications. Used by the
// client-facing driver so panel windows can render them.
func (p *PresenterMemory) Visible(ctx context.Context) ([]notification.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	notifications := make([]notification.Notification, 0, len(p.visible))
	for _, n := range p.visible {
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// WindowMemoryRegistry implements the WindowRegistry port in memory.
// Panel clients register their windows on load and unregister on
// unload; the set is never persisted.
type WindowMemoryRegistry struct {
	mu      sync.Mutex
	windows map[string]notification.Window
	focused string
}

// NewWindowMemoryRegistry creates an empty in-memory window registry.
func NewWindowMemoryRegistry() *WindowMemoryRegistry {
	return &WindowMemoryRegistry{
		windows: make(map[string]notification.Window),
	}
}

// Register records an open window. An empty ID gets one assigned.
// Returns the stored window.
func (r *WindowMemoryRegistry) Register(ctx context.Context, w notification.Window) (notification.Window, error) {
	if err := ctx.Err(); err != nil {
		return notification.Window{}, err
	}

	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.windows[w.ID] = w
	return w, nil
}

// Unregister removes a window, typically when the tab closes.
func (r *WindowMemoryRegistry) Unregister(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[id]; !ok {
		return notification.ErrWindowNotFound
	}
	delete(r.windows, id)
	if r.focused == id {
		r.focused = ""
	}
	return nil
}

// List returns all open windows.
func (r *WindowMemoryRegistry) List(ctx context.Context) ([]notification.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	windows := make([]notification.Window, 0, len(r.windows))
	for _, w := range r.windows {
		windows = append(windows, w)
	}
	return windows, nil
}

// Focus brings an open window to the foreground.
func (r *WindowMemoryRegistry) Focus(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[id]; !ok {
		return notification.ErrWindowNotFound
	}
	r.focused = id
	return nil
}

// Open opens a new window at the given URL and focuses it.
func (r *WindowMemoryRegistry) Open(ctx context.Context, url string) (notification.Window, error) {
	if err := ctx.Err(); err != nil {
		return notification.Window{}, err
	}

	w := notification.Window{
		ID:         uuid.NewString(),
		URL:        url,
		Controlled: true,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.windows[w.ID] = w
	r.focused = w.ID
	return w, nil
}

// ClaimAll takes control of every open window.
func (r *WindowMemoryRegistry) ClaimAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.windows {
		w.Controlled = true
		r.windows[id] = w
	}
	return nil
}

// Focused returns the ID of the most recently focused window, or ""
// when none has been focused.
func (r *WindowMemoryRegistry) Focused() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}
