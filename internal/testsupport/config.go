package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Console.BaseURL = "http://127.0.0.1:8080"
	cfgVal.Console.APIToken = "test"

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithConsoleURL points the config at a specific console, usually an
// httptest server.
func WithConsoleURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Console.BaseURL = url
	}
}

// WithSyncLimit caps submissions for the test run.
func WithSyncLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.Limit = limit
	}
}

// WithExclusions sets the title and publisher ignore patterns.
func WithExclusions(titles, publishers []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.IgnoreTitles = titles
		b.cfg.Sync.IgnorePublishers = publishers
	}
}

// WithCatalogSync enables the post-pass catalog sync trigger.
func WithCatalogSync() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.TriggerCatalogSync = true
	}
}

// WithNtfyTopic enables push notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithHistoryDisabled turns off the run journal.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}
