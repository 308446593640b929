package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags into a [StructuredConfig].
//
// Flags:
//
//	-d database file path
//	-b backend base URL
//	-state-dir per-installation state directory
//	-hash-key transport integrity hash key
//	-request-timeout outbound request timeout (e.g. "15s")
//	-sync-interval background sync period (e.g. "5m")
//	-entities comma-separated entity types tracked by the cache
//	-pull-batch-size maximum snapshots per pull request
//	-probe-interval connectivity probe period (e.g. "30s")
func ParseFlags() *StructuredConfig {
	var databasePath string
	var baseURL string
	var stateDir string
	var hashKey string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var entities string
	var pullBatchSize int
	var probeInterval time.Duration

	flag.StringVar(&databasePath, "d", "", "Local database file path")
	flag.StringVar(&baseURL, "b", "", "Backend base URL")
	flag.StringVar(&stateDir, "state-dir", "", "Per-installation state directory")
	flag.StringVar(&hashKey, "hash-key", "", "Transport integrity hash key")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync period")
	flag.StringVar(&entities, "entities", "", "Comma-separated entity types")
	flag.IntVar(&pullBatchSize, "pull-batch-size", 0, "Maximum snapshots per pull request")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe period")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			HashKey: hashKey,
		},
		Storage: Storage{
			DB:       DB{DSN: databasePath},
			StateDir: stateDir,
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Interval:      syncInterval,
			Entities:      splitEntities(entities),
			PullBatchSize: pullBatchSize,
		},
		Probe: Probe{
			Interval: probeInterval,
		},
	}
}

func splitEntities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	entities := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			entities = append(entities, trimmed)
		}
	}
	return entities
}
