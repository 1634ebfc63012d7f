package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBadStatus is returned when the server answered with a non-2xx status.
// The wrapping error includes the actual status code.
var ErrBadStatus = errors.New("unexpected response status")

// Default fetcher settings.
const (
	// DefaultUserAgent identifies sitegraph in HTTP requests. A descriptive
	// User-Agent lets site operators recognize crawler traffic in their logs.
	DefaultUserAgent = "sitegraph/1.0 (+https://github.com/sitegraph/sitegraph)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is plenty for HTML pages while bounding memory per fetch.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Fetcher performs HTTP GET requests and returns raw page bodies.
//
// Design decision: We require an external *http.Client rather than building
// one because:
//  1. Timeouts and transport settings belong to the caller's configuration
//  2. Tests can pass a client pointed at an httptest server
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// New creates a Fetcher using the given HTTP client.
// If client is nil, http.DefaultClient is used.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a GET request for pageURL and returns the response body.
// Non-2xx responses return an error wrapping ErrBadStatus.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %w: %d", pageURL, ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}
	return body, nil
}
