// Package imagefetch resolves product image references to byte buffers.
// Failures degrade to a missing image; they never fail a generation run.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
)

const (
	// sizeSuffix is appended to the image filename before its extension to
	// request a CDN-resized variant, e.g. shoe.jpg → shoe_400x.jpg.
	sizeSuffix = "_400x"

	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 6

	maxImageBytes = 8 << 20
)

// Fetcher retrieves image bytes over HTTP with a bounded timeout and a
// single fallback to the unmodified URL.
type Fetcher struct {
	client      *http.Client
	logger      *slog.Logger
	concurrency int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout bounds each fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithLogger sets the logger used for degraded fetches.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithConcurrency caps how many fetches Prefetch keeps in flight.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// New creates a Fetcher with a bounded-timeout HTTP client.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: defaultTimeout},
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsPlaceholder reports whether an image reference is empty or a known
// placeholder marker rather than a retrievable URL.
func IsPlaceholder(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ref), "placeholder")
}

// Fetch resolves an image reference to bytes. A placeholder reference returns
// (nil, nil) without network I/O. The resized CDN variant is attempted first;
// on any failure the original URL is tried once. When both attempts fail the
// error describes the last failure and the caller is expected to skip the
// image and keep going.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if IsPlaceholder(ref) {
		return nil, nil
	}

	optimized := OptimizedURL(ref)
	data, err := f.get(ctx, optimized)
	if err == nil {
		return data, nil
	}
	if optimized == ref {
		return nil, err
	}

	f.logger.Debug("resized image fetch failed, retrying original",
		"url", optimized, "error", err)
	data, retryErr := f.get(ctx, ref)
	if retryErr != nil {
		return nil, fmt.Errorf("fetch image %q: %w", ref, retryErr)
	}
	return data, nil
}

// Prefetch fetches every reference with bounded concurrency and returns a
// ref→bytes map. Refs that are placeholders or failed to fetch are absent
// from the map; failures are logged, not returned.
func (f *Fetcher) Prefetch(ctx context.Context, refs []string) map[string][]byte {
	results := make(map[string][]byte, len(refs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, f.concurrency)

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] || IsPlaceholder(ref) {
			continue
		}
		seen[ref] = true

		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := f.Fetch(ctx, ref)
			if err != nil {
				f.logger.Warn("image fetch failed, row will have no image",
					"url", ref, "error", err)
				return
			}
			if data == nil {
				return
			}
			mu.Lock()
			results[ref] = data
			mu.Unlock()
		}(ref)
	}
	wg.Wait()
	return results
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %q: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body from %q: %w", rawURL, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body from %q", rawURL)
	}
	return data, nil
}

// OptimizedURL inserts the resize suffix before the file extension while
// preserving any query string: shoe.jpg?v=1 → shoe_400x.jpg?v=1. URLs without
// an extension are returned unchanged.
func OptimizedURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return rawURL
	}
	u.Path = strings.TrimSuffix(u.Path, ext) + sizeSuffix + ext
	return u.String()
}

// Ext guesses the excelize image extension from an image reference, falling
// back to ".png".
func Ext(ref string) string {
	u, err := url.Parse(ref)
	p := ref
	if err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return ".jpg"
	case ".gif":
		return ".gif"
	case ".bmp":
		return ".bmp"
	default:
		return ".png"
	}
}
