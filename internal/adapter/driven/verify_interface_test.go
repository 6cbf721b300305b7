package driven

import (
	port "github.com/balkantv/panelworker/internal/port/driven"
)

// Compile-time check that CacheBoltDBRegistry implements CacheRegistry interface
var _ port.CacheRegistry = (*CacheBoltDBRegistry)(nil)

// Compile-time check that NetworkHTTPFetcher implements NetworkFetcher interface
var _ port.NetworkFetcher = (*NetworkHTTPFetcher)(nil)

// Compile-time check that PresenterMemory implements NotificationPresenter interface
var _ port.NotificationPresenter = (*PresenterMemory)(nil)

// Compile-time check that WindowMemoryRegistry implements WindowRegistry interface
var _ port.WindowRegistry = (*WindowMemoryRegistry)(nil)

// Compile-time check that SubscriptionBoltDBRepository implements SubscriptionRepository interface
var _ port.SubscriptionRepository = (*SubscriptionBoltDBRepository)(nil)

// Compile-time check that SettingsBoltDBRepository implements SettingsRepository interface
var _ port.SettingsRepository = (*SettingsBoltDBRepository)(nil)

// Compile-time check that MailBoltDBQueue implements MailQueue interface
var _ port.MailQueue = (*MailBoltDBQueue)(nil)

// Compile-time check that SessionJWTTokens implements SessionTokens interface
var _ port.SessionTokens = (*SessionJWTTokens)(nil)
