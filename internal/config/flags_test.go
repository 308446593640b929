package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ParseFlags registers on the process-wide FlagSet, so the test swaps in a
// fresh one and restores the original afterwards.
func withArgs(t *testing.T, args ...string) {
	t.Helper()

	oldArgs := os.Args
	oldCommandLine := flag.CommandLine
	t.Cleanup(func() {
		os.Args = oldArgs
		flag.CommandLine = oldCommandLine
	})

	flag.CommandLine = flag.NewFlagSet("fieldsync-agent", flag.ContinueOnError)
	os.Args = append([]string{"fieldsync-agent"}, args...)
}

func TestParseFlags_AllFlags(t *testing.T) {
	withArgs(t,
		"-d", "/tmp/offline.db",
		"-b", "https://api.workix.io",
		"-state-dir", "/tmp/state",
		"-hash-key", "integrity",
		"-request-timeout", "20s",
		"-sync-interval", "10m",
		"-entities", "work-orders, assets",
		"-pull-batch-size", "25",
		"-probe-interval", "1m",
	)

	cfg := ParseFlags()

	assert.Equal(t, "/tmp/offline.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "https://api.workix.io", cfg.Adapter.BaseURL)
	assert.Equal(t, "/tmp/state", cfg.Storage.StateDir)
	assert.Equal(t, "integrity", cfg.App.HashKey)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, []string{"work-orders", "assets"}, cfg.Sync.Entities, "entities are trimmed")
	assert.Equal(t, 25, cfg.Sync.PullBatchSize)
	assert.Equal(t, time.Minute, cfg.Probe.Interval)
}

func TestParseFlags_NoFlags(t *testing.T) {
	withArgs(t)

	cfg := ParseFlags()

	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Empty(t, cfg.Adapter.BaseURL)
	assert.Nil(t, cfg.Sync.Entities)
	assert.Zero(t, cfg.Sync.Interval)
}

func TestSplitEntities(t *testing.T) {
	assert.Nil(t, splitEntities(""))
	assert.Nil(t, splitEntities("  "))
	assert.Equal(t, []string{"work-orders"}, splitEntities("work-orders"))
	assert.Equal(t, []string{"a", "b"}, splitEntities(" a ,, b "))
}
