package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikioutline/internal/cache"
)

// DefaultUserAgent identifies the service to Wikipedia.
const DefaultUserAgent = "GlobalEdu Educational Platform/1.0 (Educational Purpose)"

// Client wraps http.Client with a user agent, optional bounded retry and an
// optional on-disk cache. The zero value performs a single GET without a
// timeout.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// BaseURL is the article prefix; empty means DefaultBaseURL.
	BaseURL string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request. Zero means no timeout.
	PerRequestTimeout time.Duration
	// Optional on-disk cache for HTTP GET bodies and headers.
	Cache *cache.HTTPCache

	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

// FetchCountry retrieves the raw HTML of the article for country.
func (c *Client) FetchCountry(ctx context.Context, country string) ([]byte, error) {
	u := ArticleURL(c.BaseURL, country)
	log.Debug().Str("country", country).Str("url", u).Msg("fetch article")
	body, _, err := c.Get(ctx, u)
	return body, err
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a GET with context and user-agent. Transient failures are retried
// only when MaxAttempts > 1.
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	var etag, lastMod string
	if c.Cache != nil {
		if meta, err := c.Cache.LoadMeta(ctx, url); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.tryOnce(ctx, url, etag, lastMod)
		if err == nil {
			if res.status == http.StatusNotModified && c.Cache != nil {
				if cached, err := c.Cache.LoadBody(ctx, url); err == nil {
					log.Debug().Str("url", url).Msg("cache revalidated")
					return cached, res.contentType, nil
				}
				// Body vanished underneath the metadata; refetch unconditionally.
				if etag != "" || lastMod != "" {
					etag, lastMod = "", ""
					i--
					continue
				}
			}
			if c.Cache != nil && res.status == http.StatusOK {
				if err := c.Cache.Save(ctx, url, res.contentType, res.etag, res.lastModified, res.body); err != nil {
					log.Warn().Err(err).Str("url", url).Msg("cache save failed")
				}
			}
			return res.body, res.contentType, nil
		}
		if !isTransient(err) || i == attempts-1 {
			return nil, "", err
		}
		lastErr = err
		log.Debug().Err(err).Int("attempt", i+1).Str("url", url).Msg("retrying")
		select {
		case <-ctx.Done():
			return nil, "", &TransportError{URL: url, Err: ctx.Err()}
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, "", lastErr
}

type response struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	status       int
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, etag string, lastMod string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return response{}, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	httpClient := c.getHTTPClient()
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return response{}, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return response{contentType: resp.Header.Get("Content-Type"), status: resp.StatusCode}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 64<<10)
		return response{status: resp.StatusCode}, newStatusError(rawURL, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &TransportError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return response{
		body:         b,
		contentType:  resp.Header.Get("Content-Type"),
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		status:       resp.StatusCode,
	}, nil
}

// isTransient treats upstream 5xx and timeouts as retryable.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 && se.StatusCode <= 599
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		// Keep identifying ourselves across hops.
		if len(via) > 0 && req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", via[0].Header.Get("User-Agent"))
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
