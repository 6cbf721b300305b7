package notification

// Window is one open panel window or tab, as reported by the client.
// The set of windows is queried at click time and is never persisted.
type Window struct {
	// ID identifies the window across register/focus calls.
	ID string
	// URL is the window's current location.
	URL string
	// Controlled reports whether the window is already controlled by
	// this worker instance. Uncontrolled windows are still eligible
	// focus targets on notification click.
	Controlled bool
}
