package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/ytget/tnadl/downloader"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBaseURL(); err != nil {
		return err
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout_seconds must be positive")
	}
	if c.Retries < 0 {
		return errors.New("retries must not be negative")
	}
	if _, err := downloader.ParseMode(c.Transfer); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if c.ChunkSize != 0 && (c.ChunkSize < downloader.MinChunkSize || c.ChunkSize > downloader.MaxChunkSize) {
		return fmt.Errorf("chunk_size must be between %d and %d bytes", downloader.MinChunkSize, downloader.MaxChunkSize)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("proxy: %w", err)
		}
	}
	if err := c.Log.ValidateConfig(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (c *Config) validateBaseURL() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", c.BaseURL)
	}
	return nil
}
