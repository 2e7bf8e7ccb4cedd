// Package fetch retrieves HTML documents over HTTP for scanning.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/dom"
)

// DefaultTimeout bounds a fetch when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets a custom logger. If not provided, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client fetches and parses pages.
type Client struct {
	http      *http.Client
	logger    *slog.Logger
	userAgent string
}

// NewClient creates a fetch client with DefaultTimeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    slog.Default(),
		userAgent: "a11yscan/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the page at rawURL and parses it into a document.
//
// Only http and https URLs are accepted. A non-2xx status is a fetch
// error; the response body is parsed leniently, so malformed HTML still
// yields a document.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*dom.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &a11y.Error{
			Op:      "Client.Fetch",
			Kind:    a11y.KindValidation,
			Err:     fmt.Errorf("%w: %v", a11y.ErrFetchFailed, err),
			Context: map[string]any{"url": rawURL},
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &a11y.Error{
			Op:      "Client.Fetch",
			Kind:    a11y.KindValidation,
			Err:     fmt.Errorf("%w: unsupported scheme %q", a11y.ErrFetchFailed, u.Scheme),
			Context: map[string]any{"url": rawURL},
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &a11y.Error{Op: "Client.Fetch", Kind: a11y.KindInternal, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &a11y.Error{
			Op:      "Client.Fetch",
			Kind:    a11y.KindNetwork,
			Err:     fmt.Errorf("%w: %v", a11y.ErrFetchFailed, err),
			Context: map[string]any{"url": rawURL},
		}
	}
	defer a11y.CloseWithLog(resp.Body, c.logger, "response body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &a11y.Error{
			Op:      "Client.Fetch",
			Kind:    a11y.KindNetwork,
			Err:     fmt.Errorf("%w: unexpected status %d", a11y.ErrFetchFailed, resp.StatusCode),
			Context: map[string]any{"url": rawURL, "status": resp.StatusCode},
		}
	}

	doc, err := dom.Parse(resp.Body)
	if err != nil {
		return nil, &a11y.Error{
			Op:      "Client.Fetch",
			Kind:    a11y.KindInternal,
			Err:     err,
			Context: map[string]any{"url": rawURL},
		}
	}

	c.logger.Debug("fetched page",
		"url", rawURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return doc, nil
}

// FetchAll retrieves several pages concurrently, at most limit requests
// in flight at once (limit <= 0 means unbounded). The returned slice is
// index-aligned with urls. The first fetch error cancels the remaining
// requests.
func (c *Client) FetchAll(ctx context.Context, urls []string, limit int) ([]*dom.Document, error) {
	docs := make([]*dom.Document, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		g.Go(func() error {
			doc, err := c.Fetch(gctx, rawURL)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
