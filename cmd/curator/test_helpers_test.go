package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	console    *fakeConsole
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("CURATOR_CONSOLE_URL", "")
	t.Setenv("CURATOR_CONSOLE_TOKEN", "")
	t.Setenv("CURATOR_NTFY_TOPIC", "")

	fake := newFakeConsole(t)
	cfgOpts := append([]testsupport.ConfigOption{testsupport.WithConsoleURL(fake.server.URL)}, opts...)
	cfg := testsupport.NewConfig(t, cfgOpts...)

	configPath := filepath.Join(filepath.Dir(cfg.Paths.DataDir), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, console: fake, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if input != "" {
		cmd.SetIn(strings.NewReader(input))
	}
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[console]
base_url = %q
api_token = %q
request_timeout = %d

[sync]
limit = %d
ignore_titles = [%s]
ignore_publishers = [%s]
trigger_catalog_sync = %t

[history]
enabled = %t
keep_runs = %d

[notifications]
ntfy_topic = %q

[logging]
format = %q
level = %q
retention_days = %d
`,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Console.BaseURL,
		cfg.Console.APIToken,
		cfg.Console.RequestTimeout,
		cfg.Sync.Limit,
		quoteList(cfg.Sync.IgnoreTitles),
		quoteList(cfg.Sync.IgnorePublishers),
		cfg.Sync.TriggerCatalogSync,
		cfg.History.Enabled,
		cfg.History.KeepRuns,
		cfg.Notifications.NtfyTopic,
		cfg.Logging.Format,
		cfg.Logging.Level,
		cfg.Logging.RetentionDays,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, strconv.Quote(value))
	}
	return strings.Join(quoted, ", ")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// fakeConsole serves the console HTTP API from canned state so CLI tests
// exercise the real client end to end.
type fakeConsole struct {
	server *httptest.Server

	mu        sync.Mutex
	records   []catalog.Record
	summaries []catalog.Summary
	codes     map[string]int
	failKeys  map[string]bool
	submitted []string
	syncCalls int
	syncCode  int
}

func newFakeConsole(t *testing.T) *fakeConsole {
	t.Helper()
	f := &fakeConsole{
		codes:    map[string]int{},
		failKeys: map[string]bool{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeConsole) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/inventory/uncategorized":
		respondJSON(w, map[string]any{"records": f.records})
	case r.Method == http.MethodGet && r.URL.Path == "/api/inventory/summary":
		var summary catalog.Summary
		if len(f.summaries) > 0 {
			summary = f.summaries[0]
			if len(f.summaries) > 1 {
				f.summaries = f.summaries[1:]
			}
		}
		respondJSON(w, summary)
	case r.Method == http.MethodPost && r.URL.Path == "/api/categorization/requests":
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if f.failKeys[req.Key] {
			http.Error(w, "console exploded", http.StatusInternalServerError)
			return
		}
		f.submitted = append(f.submitted, req.Key)
		respondJSON(w, map[string]any{"result_code": f.codes[req.Key]})
	case r.Method == http.MethodPost && r.URL.Path == "/api/catalog/sync":
		f.syncCalls++
		respondJSON(w, map[string]any{"result_code": f.syncCode})
	default:
		http.NotFound(w, r)
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeConsole) setRecords(records ...catalog.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
}

func (f *fakeConsole) setSummaries(summaries ...catalog.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = summaries
}

func (f *fakeConsole) setSubmitCode(key string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[key] = code
}

func (f *fakeConsole) failSubmit(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[key] = true
}

func (f *fakeConsole) submittedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

func (f *fakeConsole) syncRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncCalls
}
