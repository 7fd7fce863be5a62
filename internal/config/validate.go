package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConsole(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConsole() error {
	base := strings.TrimSpace(c.Console.BaseURL)
	if base == "" {
		// Endpoint resolution happens at run time so status/history commands
		// still work without a configured console.
		return nil
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("console.base_url is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("console.base_url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("console.base_url must include a host")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Limit < 1 {
		return errors.New("sync.limit must be positive")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	if c.Console.RequestTimeout <= 0 {
		return errors.New("console.request_timeout must be positive")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
