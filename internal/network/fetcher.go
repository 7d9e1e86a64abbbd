// Package network downloads article pages.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds a single page download.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every page request.
	DefaultUserAgent = "gravigo/1.0"
	// DefaultMaxBytes caps how much of a page body is read.
	DefaultMaxBytes = 10 << 20
)

// ErrHTTPStatus is returned for non-2xx page responses.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Fetcher retrieves HTML pages and decodes them to UTF-8.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	log       zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithMaxBytes caps the number of body bytes read.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = log
	}
}

// NewFetcher returns a Fetcher with the default timeout and user agent.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	return f
}

// EscapedFragmentURL rewrites an AJAX "#!" URL to its crawlable
// "?_escaped_fragment_=" form. Other URLs are returned unchanged.
func EscapedFragmentURL(rawURL string) string {
	if !strings.Contains(rawURL, "#!") {
		return rawURL
	}
	return strings.Replace(rawURL, "#!", "?_escaped_fragment_=", 1)
}

// Fetch downloads rawURL and returns the decoded body together with the URL
// the response was finally served from after redirects.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (body string, finalURL string, err error) {
	target := EscapedFragmentURL(rawURL)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("%w: %d for %s", ErrHTTPStatus, resp.StatusCode, target)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", "", fmt.Errorf("decode charset: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", "", err
	}

	finalURL = target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	f.log.Debug().Str("url", finalURL).Int("bytes", len(data)).Msg("fetched page")
	return string(data), finalURL, nil
}
