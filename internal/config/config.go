package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// fieldsync agent. It aggregates all sub-configurations and is populated by
// merging values from environment variables and command-line flags.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as transport integrity keys
	// and the device credential.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the durable local store and the
	// directory keeping per-installation state.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network settings for the backend transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds sync-cycle scheduling and pull settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Probe holds connectivity probe settings.
	Probe Probe `envPrefix:"PROBE_"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used for request integrity checking of push
	// payloads. Optional; when empty no integrity header is sent.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// AuthToken is the bearer token identifying this device to the backend.
	// Env: APP_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`
}

// Storage groups the configuration for local persistence.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`

	// StateDir is the directory where per-installation state lives,
	// including the protected cipher-key file.
	// Env: STORAGE_STATE_DIR
	StateDir string `env:"STATE_DIR"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path (or ":memory:") backing the offline
	// queue, entity cache, and metadata tables.
	// Env: STORAGE_DB_PATH
	DSN string `env:"PATH"`
}

// Adapter holds network settings used by the backend transport layer.
type Adapter struct {
	// BaseURL is the backend API endpoint (e.g. "https://api.workix.io").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the per-request timeout for outbound calls
	// (e.g. "15s"). The engine itself imposes no further timeouts.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds sync-cycle scheduling settings.
type Sync struct {
	// Interval is the period of the background sync ticker (e.g. "5m").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Entities lists the entity types the local cache tracks, as logical
	// resource collections (e.g. "work-orders,assets,sites").
	// Env: SYNC_ENTITIES
	Entities []string `env:"ENTITIES" envSeparator:","`

	// PullBatchSize caps how many snapshots one pull request may return.
	// Env: SYNC_PULL_BATCH_SIZE
	PullBatchSize int `env:"PULL_BATCH_SIZE"`
}

// Probe holds settings for the connectivity probe that stands in for a
// platform reachability API on headless deployments.
type Probe struct {
	// Interval is how often the probe checks backend reachability.
	// Env: PROBE_INTERVAL
	Interval time.Duration `env:"INTERVAL"`
}

// defaults returns the built-in fallback configuration. Values here are
// filled in by the builder only where env and flags left a field empty.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB:       DB{DSN: "workix_offline.db"},
			StateDir: ".",
		},
		Adapter: Adapter{
			RequestTimeout: 15 * time.Second,
		},
		Sync: Sync{
			Interval:      5 * time.Minute,
			Entities:      []string{"work-orders", "assets", "sites"},
			PullBatchSize: 50,
		},
		Probe: Probe{
			Interval: 30 * time.Second,
		},
	}
}
