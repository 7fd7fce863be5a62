package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/dispatch"
)

const userAgent = "Curator/1.0"

// Service defines the notification surface exposed to the sync command.
type Service interface {
	NotifySyncStarted(ctx context.Context, candidates int) error
	NotifySyncCompleted(ctx context.Context, summary *dispatch.RunSummary) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		completion:   cfg.Notifications.Completion,
		errorAlerts:  cfg.Notifications.Errors,
		minAttempted: cfg.Notifications.MinAttempted,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	completion   bool
	errorAlerts  bool
	minAttempted int
}

func (n *ntfyService) NotifySyncStarted(ctx context.Context, candidates int) error {
	if !n.completion {
		return nil
	}
	data := payload{
		title:   "Curator - Sync Started",
		message: fmt.Sprintf("Started categorization pass with %d candidates", candidates),
		tags:    []string{"curator", "sync", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySyncCompleted(ctx context.Context, summary *dispatch.RunSummary) error {
	if summary == nil || !n.completion {
		return nil
	}
	if summary.Attempted < n.minAttempted {
		return nil
	}

	elapsed := summary.Elapsed().Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	durationText := elapsed.String()
	if elapsed == 0 {
		durationText = "0s"
	}

	var title, message string
	switch {
	case summary.DryRun:
		title = "Curator - Dry Run Complete"
		message = fmt.Sprintf("Dry run: %d of %d candidates would be submitted", summary.Attempted, summary.Candidates)
	case summary.Rejected > 0:
		title = "Curator - Sync Complete (with rejections)"
		message = fmt.Sprintf("Categorization pass complete: %d accepted, %d rejected, %d resolved in %s",
			summary.Accepted, summary.Rejected, summary.Resolved, durationText)
	default:
		title = "Curator - Sync Complete"
		message = fmt.Sprintf("✅ Categorization pass complete: %d submitted, %d resolved in %s",
			summary.Attempted, summary.Resolved, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"curator", "sync", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorAlerts {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Curator - Error",
		message:  builder.String(),
		tags:     []string{"curator", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Curator - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"curator", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySyncStarted(context.Context, int) error                    { return nil }
func (noopService) NotifySyncCompleted(context.Context, *dispatch.RunSummary) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
