package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikioutline/internal/app"
	"github.com/hyperifyio/wikioutline/internal/server"
)

type flags struct {
	configPath  string
	envFile     string
	addr        string
	wikiBase    string
	userAgent   string
	timeout     time.Duration
	maxAttempts int
	cacheDir    string
	cacheMaxAge time.Duration
	cacheClear  bool
	cacheStrict bool
	verbose     bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var f flags
	flag.StringVar(&f.configPath, "config", os.Getenv("WIKIOUTLINE_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&f.envFile, "env", ".env", "Path to dotenv file loaded before reading the environment")
	flag.StringVar(&f.addr, "addr", app.DefaultAddr, "Listen address")
	flag.StringVar(&f.wikiBase, "wiki.base", app.DefaultWikiBaseURL, "Article URL prefix")
	flag.StringVar(&f.userAgent, "ua", app.DefaultUserAgent, "User-Agent sent to Wikipedia")
	flag.DurationVar(&f.timeout, "http.timeout", 0, "Per-request upstream timeout; 0 waits indefinitely")
	flag.IntVar(&f.maxAttempts, "http.maxAttempts", app.DefaultMaxAttempts, "Upstream attempts including the first; retries only on 5xx/timeouts")
	flag.StringVar(&f.cacheDir, "cache.dir", "", "On-disk article cache directory; empty disables caching")
	flag.DurationVar(&f.cacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this at startup; 0 disables")
	flag.BoolVar(&f.cacheClear, "cache.clear", false, "Clear cache directory at startup")
	flag.BoolVar(&f.cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&f.verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// loadConfig resolves configuration with precedence flags > env > file > defaults.
func loadConfig(f flags) (app.Config, error) {
	if err := app.LoadEnvFiles(f.envFile); err != nil {
		return app.Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg app.Config
	if f.configPath != "" {
		fc, err := app.LoadConfigFile(f.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = f.addr
		case "wiki.base":
			cfg.WikiBaseURL = f.wikiBase
		case "ua":
			cfg.UserAgent = f.userAgent
		case "http.timeout":
			cfg.HTTPTimeout = f.timeout
		case "http.maxAttempts":
			cfg.HTTPMaxAttempts = f.maxAttempts
		case "cache.dir":
			cfg.CacheDir = f.cacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = f.cacheMaxAge
		case "cache.clear":
			cfg.CacheClear = f.cacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = f.cacheStrict
		case "v":
			cfg.Verbose = f.verbose
		}
	})
	app.ApplyDefaults(&cfg)
	return cfg, app.ValidateConfig(cfg)
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(a).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: upstream fetches are not bounded unless http.timeout is set.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", app.BuildVersion).Str("commit", app.BuildCommit).Str("built", app.BuildDate).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
