package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.etcd.io/bbolt"

	"github.com/balkantv/panelworker/internal/adapter/driven"
	"github.com/balkantv/panelworker/internal/adapter/driver"
	"github.com/balkantv/panelworker/internal/application"
	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/config"
	"github.com/balkantv/panelworker/internal/notification"
	"github.com/balkantv/panelworker/internal/request"
)

func logLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}

	// Create structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(env.LogLevel),
	}))
	slog.SetDefault(logger)

	profile, err := config.Load(env.ProfilePath)
	if err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}

	logger.Info("starting panelworker",
		"port", env.Port,
		"db_path", env.DBPath,
		"profile_path", env.ProfilePath,
		"origin", profile.App.Origin,
		"shell_store", profile.Cache.ShellVersion,
		"vendor_store", profile.Cache.VendorVersion,
	)

	names, err := cachestore.NewNameSet(profile.Cache.ShellVersion, profile.Cache.VendorVersion)
	if err != nil {
		log.Fatalf("invalid store versions: %v", err)
	}

	// Open BoltDB
	db, err := bbolt.Open(env.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	// Create driven adapters (repositories and external services)
	cacheRegistry, err := driven.NewCacheBoltDBRegistry(db)
	if err != nil {
		log.Fatalf("failed to create cache registry: %v", err)
	}

	subscriptionRepo, err := driven.NewSubscriptionBoltDBRepository(db)
	if err != nil {
		log.Fatalf("failed to create subscription repository: %v", err)
	}

	settingsRepo, err := driven.NewSettingsBoltDBRepository(db)
	if err != nil {
		log.Fatalf("failed to create settings repository: %v", err)
	}

	mailQueue, err := driven.NewMailBoltDBQueue(db)
	if err != nil {
		log.Fatalf("failed to create mail queue: %v", err)
	}

	sessionTokens, err := driven.NewSessionJWTTokens([]byte(env.SessionSecret), "panelworker", 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to create session tokens: %v", err)
	}

	fetcher := driven.NewNetworkHTTPFetcher(env.UpstreamTimeout, logger)
	presenter := driven.NewPresenterMemory()
	windowRegistry := driven.NewWindowMemoryRegistry()

	classifier := request.NewClassifier(profile.Cache.VendorPatterns, profile.Cache.BackendPatterns)

	// Create application services
	lifecycleService := application.NewLifecycleService(names, profile.App.Origin, profile.Cache.AssetManifest, cacheRegistry, fetcher, windowRegistry, logger)
	dispatchService := application.NewDispatchService(classifier, names, profile.App.Origin, profile.App.Origin+profile.App.ShellDocument, cacheRegistry, fetcher, logger)
	pushService := application.NewPushService(notification.Defaults{
		Title:     profile.Push.Title,
		Body:      profile.Push.Body,
		Icon:      profile.Push.Icon,
		Badge:     profile.Push.Badge,
		Tag:       profile.Push.Tag,
		Vibration: profile.Push.Vibration,
		URL:       profile.Push.DefaultURL,
	}, profile.App.URLToken, presenter, windowRegistry, logger)
	adminService := application.NewAdminService(settingsRepo, sessionTokens, logger)
	settingsService := application.NewSettingsService(settingsRepo, sessionTokens, logger)
	subscriptionService := application.NewSubscriptionService(subscriptionRepo, sessionTokens)
	expiryService := application.NewExpiryService(profile.Expiry.OffsetDays, profile.Location(), profile.Expiry.MailSubject, profile.Expiry.RenewalURL, profile.App.Name, subscriptionRepo, mailQueue, logger)

	pingDB := func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return db.View(func(tx *bbolt.Tx) error { return nil })
	}
	healthService := application.NewHealthService(pingDB, lifecycleService)

	// Create HTTP handlers
	gatewayHandler := driver.NewGatewayHTTPHandler(profile.App.Origin, dispatchService, lifecycleService, fetcher, logger)
	pushHandler := driver.NewPushHTTPHandler(pushService, presenter)
	windowHandler := driver.NewWindowHTTPHandler(windowRegistry)
	adminHandler := driver.NewAdminHTTPHandler(adminService)
	settingsHandler := driver.NewSettingsHTTPHandler(settingsService)
	subscriptionHandler := driver.NewSubscriptionHTTPHandler(subscriptionService)
	healthHandler := driver.NewHealthHTTPHandler(healthService)

	// Root router: worker control plane under /api/, the gateway for
	// everything else
	rootMux := http.NewServeMux()
	rootMux.Handle("/api/push", pushHandler)
	rootMux.Handle("/api/notifications", pushHandler)
	rootMux.Handle("/api/notifications/", pushHandler)
	rootMux.Handle("/api/windows", windowHandler)
	rootMux.Handle("/api/windows/", windowHandler)
	rootMux.Handle("/api/admin/", adminHandler)
	rootMux.Handle("/api/settings/", settingsHandler)
	rootMux.Handle("/api/subscriptions", subscriptionHandler)
	rootMux.Handle("/api/subscriptions/", subscriptionHandler)
	rootMux.Handle("/health", healthHandler)
	rootMux.Handle("/metrics", promhttp.Handler())
	rootMux.Handle("/", gatewayHandler)

	// Install and activate before accepting traffic. A failed install
	// is fatal only if activation cannot proceed; seeding itself is
	// best-effort inside the service.
	if err := lifecycleService.Run(context.Background()); err != nil {
		log.Fatalf("failed to activate worker: %v", err)
	}
	logger.Info("worker active", "state", lifecycleService.State().String())

	// Daily subscription-expiry sweep in the profile's time zone
	expiryCtx, stopExpiry := context.WithCancel(context.Background())
	defer stopExpiry()
	go runExpirySweeps(expiryCtx, expiryService, profile.Location(), logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + env.Port,
		Handler:      rootMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, shutting down gracefully")
	stopExpiry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

// runExpirySweeps runs one sweep immediately and then one per day at
// 09:00 in the given zone.
func runExpirySweeps(ctx context.Context, service *application.ExpiryService, loc *time.Location, logger *slog.Logger) {
	sweep := func() {
		count, err := service.CheckExpiries(ctx)
		if err != nil {
			logger.Error("expiry sweep failed", "error", err)
			return
		}
		logger.Info("expiry sweep completed", "notices", count)
	}

	sweep()

	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			sweep()
		}
	}
}
