package config

import "time"

const (
	ProviderFixture       = "fixture"
	ProviderGolfCourseAPI = "golfcourseapi"

	defaultPort = "4000"
	// Defaults re-applied when an override is zero or negative.
	defaultCatalogRefresh    = 15 * time.Minute
	defaultSlotFetchTimeout  = 2 * time.Second
	defaultSlotConcurrency   = 8
	defaultProviderRateLimit = time.Second
	defaultRetryAttempts     = 3
	defaultCacheTTL          = 10 * time.Minute
	defaultCatalogRadius     = 50.0
)
