package main

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"curator/internal/testsupport"
)

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notification not sent")
}

func TestTestNotifySendsToTopic(t *testing.T) {
	var calls atomic.Int32
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ntfy.Close()

	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(ntfy.URL+"/curator"))

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if calls.Load() != 1 {
		t.Fatalf("expected one ntfy request, got %d", calls.Load())
	}
}
