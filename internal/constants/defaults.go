package constants

import "time"

// Centralized default values for timeouts, intervals, and related settings.
// These provide sane defaults; environment/config may override where supported.

const (
	// Database
	DBReadTimeoutDefault  = 8 * time.Second
	DBWriteTimeoutDefault = 6 * time.Second

	// Geocoding (Google Maps)
	GeocodeOperationTimeout  = 10 * time.Second
	GeocodeOpenFor           = 30 * time.Second
	GeocodeSlowCallThreshold = 1500 * time.Millisecond

	// Triage / OpenAI
	TriageDefaultAPITimeout = 60 * time.Second

	// Dashboard alert poller
	AlertPollIntervalDefault = 30 * time.Second

	// Health
	HealthTimeoutDefault = 30 * time.Second

	// Config watcher
	ConfigWatcherIntervalDefault = 2 * time.Second

	// App shutdown
	GracefulShutdownTimeoutDefault = 10 * time.Second

	// Events store SQL operations
	EventsSQLTimeoutDefault = 5 * time.Second

	// Monitoring
	MonitoringIntervalDefault = 5 * time.Second
)
