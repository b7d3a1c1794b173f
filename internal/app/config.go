package app

import "time"

// Config holds runtime configuration for the server and the one-shot CLI.
type Config struct {
	// Server
	Addr string

	// Upstream
	WikiBaseURL     string
	UserAgent       string
	HTTPTimeout     time.Duration
	HTTPMaxAttempts int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// One-shot CLI
	Country       string
	OutputPath    string
	OutputPDFPath string

	Verbose bool
}

// ApplyDefaults fills every unset field with its built-in default.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.WikiBaseURL == "" {
		cfg.WikiBaseURL = DefaultWikiBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HTTPMaxAttempts == 0 {
		cfg.HTTPMaxAttempts = DefaultMaxAttempts
	}
}
