package console

import (
	"context"
	"strings"

	"curator/internal/config"
)

// Endpoint identifies a resolved management console.
type Endpoint struct {
	BaseURL string
	Site    string
}

// Resolver determines which console a run talks to. The sync command
// receives one at construction time and never performs discovery itself.
type Resolver interface {
	Resolve(ctx context.Context) (Endpoint, error)
}

// ConfigResolver resolves the endpoint from loaded configuration. The
// CURATOR_CONSOLE_URL fallback is already applied during config
// normalization, so an empty base URL here means nothing was configured
// anywhere.
type ConfigResolver struct {
	cfg *config.Config
}

// NewConfigResolver returns a resolver backed by cfg.
func NewConfigResolver(cfg *config.Config) *ConfigResolver {
	return &ConfigResolver{cfg: cfg}
}

func (r *ConfigResolver) Resolve(context.Context) (Endpoint, error) {
	if r == nil || r.cfg == nil {
		return Endpoint{}, Wrap(ErrNoEndpoint, "resolve endpoint", "no configuration loaded", nil)
	}
	base := strings.TrimRight(strings.TrimSpace(r.cfg.Console.BaseURL), "/")
	if base == "" {
		return Endpoint{}, Wrap(ErrNoEndpoint, "resolve endpoint", "set console.base_url or CURATOR_CONSOLE_URL", nil)
	}
	return Endpoint{BaseURL: base, Site: strings.TrimSpace(r.cfg.Console.Site)}, nil
}

// StaticResolver returns a fixed endpoint, for callers that already know
// which console they want.
type StaticResolver Endpoint

func (s StaticResolver) Resolve(context.Context) (Endpoint, error) {
	base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if base == "" {
		return Endpoint{}, Wrap(ErrNoEndpoint, "resolve endpoint", "static endpoint has no base url", nil)
	}
	return Endpoint{BaseURL: base, Site: strings.TrimSpace(s.Site)}, nil
}
