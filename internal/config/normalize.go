package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConsole()
	c.normalizeSync()
	c.normalizeHistory()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConsole() {
	c.Console.BaseURL = strings.TrimSpace(c.Console.BaseURL)
	if c.Console.BaseURL == "" {
		if value, ok := os.LookupEnv("CURATOR_CONSOLE_URL"); ok {
			c.Console.BaseURL = strings.TrimSpace(value)
		}
	}
	c.Console.BaseURL = strings.TrimRight(c.Console.BaseURL, "/")
	c.Console.APIToken = strings.TrimSpace(c.Console.APIToken)
	if c.Console.APIToken == "" {
		if value, ok := os.LookupEnv("CURATOR_CONSOLE_TOKEN"); ok {
			c.Console.APIToken = strings.TrimSpace(value)
		}
	}
	c.Console.Site = strings.TrimSpace(c.Console.Site)
	if c.Console.RequestTimeout <= 0 {
		c.Console.RequestTimeout = defaultConsoleRequestTimeout
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.Limit == 0 {
		c.Sync.Limit = defaultSyncLimit
	}
	c.Sync.IgnoreTitles = normalizePatterns(c.Sync.IgnoreTitles)
	c.Sync.IgnorePublishers = normalizePatterns(c.Sync.IgnorePublishers)
}

// normalizePatterns trims entries and drops the empty ones. Duplicates are
// kept; rules are evaluated independently.
func normalizePatterns(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *Config) normalizeHistory() {
	if c.History.KeepRuns <= 0 {
		c.History.KeepRuns = defaultHistoryKeepRuns
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CURATOR_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.MinAttempted <= 0 {
		c.Notifications.MinAttempted = defaultNotifyMinAttempted
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
