package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikioutline/internal/cache"
	"github.com/hyperifyio/wikioutline/internal/extract"
	"github.com/hyperifyio/wikioutline/internal/fetch"
	"github.com/hyperifyio/wikioutline/internal/outline"
)

// Fetcher retrieves the raw HTML of a country's article.
type Fetcher interface {
	FetchCountry(ctx context.Context, country string) ([]byte, error)
}

type App struct {
	cfg       Config
	fetcher   Fetcher
	extractor extract.Extractor
	httpCache *cache.HTTPCache
}

// Option customises an App, mostly for tests.
type Option func(*App)

// WithFetcher replaces the upstream client.
func WithFetcher(f Fetcher) Option {
	return func(a *App) { a.fetcher = f }
}

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	if cfg.WikiBaseURL == "" {
		cfg.WikiBaseURL = DefaultWikiBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, extractor: extract.HeadingExtractor{}}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			// Best-effort; a stale entry only costs a revalidation.
			if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Info().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	a.fetcher = &fetch.Client{
		HTTPClient:        newUpstreamHTTPClient(cfg.HTTPTimeout),
		UserAgent:         cfg.UserAgent,
		BaseURL:           cfg.WikiBaseURL,
		MaxAttempts:       cfg.HTTPMaxAttempts,
		PerRequestTimeout: cfg.HTTPTimeout,
		Cache:             a.httpCache,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// Outline fetches the country's article and renders its heading outline.
func (a *App) Outline(ctx context.Context, country string) (string, error) {
	body, err := a.fetcher.FetchCountry(ctx, country)
	if err != nil {
		return "", err
	}
	headings := a.extractor.Extract(body)
	log.Debug().Str("country", country).Int("headings", len(headings)).Msg("extracted headings")
	return outline.Render(headings), nil
}

// OutlineText is Outline with every failure folded into the text shown to the
// caller; ok reports whether text is an outline rather than an error message.
func (a *App) OutlineText(ctx context.Context, country string) (text string, ok bool) {
	md, err := a.Outline(ctx, country)
	if err != nil {
		logFailure(country, err)
		return ErrorText(country, err), false
	}
	return md, true
}

// ErrorText maps a pipeline failure to its user-visible message. The country
// is echoed exactly as the caller supplied it.
func ErrorText(country string, err error) string {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrPageNotFound):
		return fmt.Sprintf("Error: Wikipedia page not found for '%s'", country)
	case errors.As(err, &se):
		return "Error fetching Wikipedia page: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func logFailure(country string, err error) {
	ev := log.Warn().Err(err).Str("country", country)
	var se *fetch.StatusError
	var te *fetch.TransportError
	switch {
	case errors.As(err, &se):
		ev = ev.Str("kind", "upstream_status").Int("status", se.StatusCode)
	case errors.As(err, &te):
		ev = ev.Str("kind", "transport").Bool("timeout", te.Timeout())
	default:
		ev = ev.Str("kind", "unexpected")
	}
	ev.Msg("outline failed")
}

// Run is the one-shot CLI mode: render cfg.Country to cfg.OutputPath (stdout
// when empty) and optionally to cfg.OutputPDFPath.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Country == "" {
		return errors.New("country is required")
	}
	md, err := a.Outline(ctx, a.cfg.Country)
	if err != nil {
		return err
	}
	if a.cfg.OutputPath == "" || a.cfg.OutputPath == "-" {
		if _, err := fmt.Fprintln(os.Stdout, md); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(md+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote outline")
	}
	if a.cfg.OutputPDFPath != "" {
		if err := outline.WritePDFFile(md, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote outline pdf")
	}
	return nil
}
