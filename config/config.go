// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for view tracking runs.
type Config struct {
	// APIKey is the YouTube Data API key. Env only, never stored in a file.
	APIKey string `json:"-"`

	// WatchlistPath is the JSON file listing the videos to track.
	WatchlistPath string `json:"watchlist_path"`
	// SnapshotPath is the JSON file the tracking snapshot is written to.
	SnapshotPath string `json:"snapshot_path"`
	// MarkerPath is the file whose existence records that the one-time
	// history reset has been performed.
	MarkerPath string `json:"marker_path"`

	// HistoryLimit caps the number of history points kept per video.
	HistoryLimit int `json:"history_limit"`
	// BatchSize is the number of video IDs per API request (max 50).
	BatchSize int `json:"batch_size"`
	// RequestTimeout bounds a single tracking run's remote calls.
	RequestTimeout time.Duration `json:"request_timeout"`

	// MaxRetries is the maximum number of retries for failed API calls
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		WatchlistPath:     "videos.json",
		SnapshotPath:      filepath.Join("data", "videos.json"),
		MarkerPath:        filepath.Join("data", ".history-reset"),
		HistoryLimit:      1000,
		BatchSize:         50,
		RequestTimeout:    30 * time.Second,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from viewtrack.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"viewtrack.json",
		filepath.Join(os.Getenv("HOME"), ".config", "viewtrack", "viewtrack.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("VIEWTRACK_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("VIEWTRACK_WATCHLIST"); v != "" {
		c.WatchlistPath = v
	}
	if v := os.Getenv("VIEWTRACK_SNAPSHOT"); v != "" {
		c.SnapshotPath = v
	}
	if v := os.Getenv("VIEWTRACK_MARKER"); v != "" {
		c.MarkerPath = v
	}
	if v := os.Getenv("VIEWTRACK_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HistoryLimit = n
		}
	}
	if v := os.Getenv("VIEWTRACK_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("VIEWTRACK_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("VIEWTRACK_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("VIEWTRACK_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("VIEWTRACK_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key required (set VIEWTRACK_API_KEY)")
	}
	if c.WatchlistPath == "" {
		return fmt.Errorf("watchlist_path must not be empty")
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("snapshot_path must not be empty")
	}
	if c.MarkerPath == "" {
		return fmt.Errorf("marker_path must not be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.BatchSize <= 0 || c.BatchSize > 50 {
		return fmt.Errorf("batch_size must be between 1 and 50")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
