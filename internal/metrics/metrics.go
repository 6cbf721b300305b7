package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesDispatched counts intercepted fetches by handling class
	FetchesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panelworker_fetches_dispatched_total",
		Help: "Total number of intercepted fetches by handling class",
	}, []string{"class"})

	// CacheHits counts cache hits by store role (shell, vendor)
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panelworker_cache_hits_total",
		Help: "Total number of cache hits by store role",
	}, []string{"store"})

	// CacheMisses counts cache misses by store role
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "panelworker_cache_misses_total",
		Help: "Total number of cache misses by store role",
	}, []string{"store"})

	// ShellFallbacks counts navigations served the shell document
	// because the network and the cache both came up empty
	ShellFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panelworker_shell_fallbacks_total",
		Help: "Total number of offline navigations served the application shell",
	})

	// InstallAssetFailures counts manifest assets that could not be
	// seeded during install
	InstallAssetFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panelworker_install_asset_failures_total",
		Help: "Total number of manifest assets that failed to seed at install",
	})

	// StoresPurged counts stale cache stores deleted at activation
	StoresPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panelworker_stores_purged_total",
		Help: "Total number of stale cache stores purged at activation",
	})

	// NotificationsShown counts displayed push notifications
	NotificationsShown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panelworker_notifications_shown_total",
		Help: "Total number of push notifications displayed",
	})

	// ExpiryMailsEnqueued counts expiry notices handed to the mail queue
	ExpiryMailsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "panelworker_expiry_mails_enqueued_total",
		Help: "Total number of subscription expiry notices enqueued",
	})
)

// RecordDispatch increments the fetch counter for a handling class
func RecordDispatch(class string) {
	FetchesDispatched.WithLabelValues(class).Inc()
}

// RecordCacheHit increments the hit counter for a store role
func RecordCacheHit(store string) {
	CacheHits.WithLabelValues(store).Inc()
}

// RecordCacheMiss increments the miss counter for a store role
func RecordCacheMiss(store string) {
	CacheMisses.WithLabelValues(store).Inc()
}
