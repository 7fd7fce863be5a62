package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"curator/internal/config"
)

func TestLoadDefaultsUseEnvConsoleURLAndExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CURATOR_CONSOLE_URL", "https://console.example.com/")
	t.Setenv("CURATOR_CONSOLE_TOKEN", "")
	t.Setenv("CURATOR_NTFY_TOPIC", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "curator")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Console.BaseURL != "https://console.example.com" {
		t.Fatalf("expected console URL from env with trailing slash trimmed, got %q", cfg.Console.BaseURL)
	}
	if cfg.Sync.Limit != 9999 {
		t.Fatalf("unexpected default sync limit: %d", cfg.Sync.Limit)
	}
	if cfg.Sync.TriggerCatalogSync {
		t.Fatal("expected catalog sync trigger disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Notifications.NtfyTopic != "" {
		t.Fatalf("expected empty ntfy topic by default, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}

	if got := cfg.HistoryPath(); got != filepath.Join(cfg.Paths.DataDir, "history.db") {
		t.Fatalf("unexpected history path: %q", got)
	}
	if got := cfg.LockPath(); got != filepath.Join(cfg.Paths.DataDir, "curator.lock") {
		t.Fatalf("unexpected lock path: %q", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "curator.toml")

	type payload struct {
		Console struct {
			BaseURL string `toml:"base_url"`
			Site    string `toml:"site"`
		} `toml:"console"`
		Sync struct {
			Limit            int      `toml:"limit"`
			IgnoreTitles     []string `toml:"ignore_titles"`
			IgnorePublishers []string `toml:"ignore_publishers"`
		} `toml:"sync"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Console.BaseURL = "https://console.internal:8443"
	custom.Console.Site = "HQ1"
	custom.Sync.Limit = 250
	custom.Sync.IgnoreTitles = []string{" Internal Build ", "", "Beta*"}
	custom.Sync.IgnorePublishers = []string{"Contoso"}
	custom.Logging.Format = "json"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Console.BaseURL != "https://console.internal:8443" {
		t.Fatalf("expected console URL from file, got %q", cfg.Console.BaseURL)
	}
	if cfg.Console.Site != "HQ1" {
		t.Fatalf("expected site from file, got %q", cfg.Console.Site)
	}
	if cfg.Sync.Limit != 250 {
		t.Fatalf("expected limit 250, got %d", cfg.Sync.Limit)
	}
	wantTitles := []string{"Internal Build", "Beta*"}
	if len(cfg.Sync.IgnoreTitles) != len(wantTitles) {
		t.Fatalf("expected trimmed ignore titles %v, got %v", wantTitles, cfg.Sync.IgnoreTitles)
	}
	for i, want := range wantTitles {
		if cfg.Sync.IgnoreTitles[i] != want {
			t.Fatalf("ignore title %d: got %q want %q", i, cfg.Sync.IgnoreTitles[i], want)
		}
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestConsoleTokenEnvFallback(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "curator.toml")
	if err := os.WriteFile(configPath, []byte("[console]\nbase_url = \"https://console.example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CURATOR_CONSOLE_TOKEN", "env-token")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Console.APIToken != "env-token" {
		t.Fatalf("expected token from env fallback, got %q", cfg.Console.APIToken)
	}
}

func TestConsoleTokenFileWinsOverEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "curator.toml")
	contents := "[console]\nbase_url = \"https://console.example.com\"\napi_token = \"file-token\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CURATOR_CONSOLE_TOKEN", "env-token")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Console.APIToken != "file-token" {
		t.Fatalf("expected file token to win, got %q", cfg.Console.APIToken)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[console]") {
		t.Fatalf("sample config missing console section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Sync.Limit != 9999 {
		t.Fatalf("expected sample limit 9999, got %d", cfg.Sync.Limit)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "zero sync limit",
			mutate:  func(c *config.Config) { c.Sync.Limit = 0 },
			wantErr: "sync.limit",
		},
		{
			name:    "negative sync limit",
			mutate:  func(c *config.Config) { c.Sync.Limit = -5 },
			wantErr: "sync.limit",
		},
		{
			name:    "console URL with bad scheme",
			mutate:  func(c *config.Config) { c.Console.BaseURL = "ftp://console.example.com" },
			wantErr: "console.base_url",
		},
		{
			name:    "console URL without host",
			mutate:  func(c *config.Config) { c.Console.BaseURL = "http://" },
			wantErr: "console.base_url",
		},
		{
			name:    "zero console timeout",
			mutate:  func(c *config.Config) { c.Console.RequestTimeout = 0 },
			wantErr: "console.request_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Sync.Limit = 100
			cfg.Console.RequestTimeout = 30
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsNegativeLimit(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "curator.toml")
	if err := os.WriteFile(configPath, []byte("[sync]\nlimit = -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CURATOR_CONSOLE_URL", "")

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected Load to reject negative limit")
	}
	if !strings.Contains(err.Error(), "sync.limit") {
		t.Fatalf("expected sync.limit in error, got %v", err)
	}
}
