package scrape

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher configuration constants.
const (
	defaultFetchTimeout = 30 * time.Second
	defaultDialTimeout  = 10 * time.Second
	defaultSizeCap      = 8 << 20 // 8 MiB per page
	defaultUserAgent    = "stride-catalog-scraper/1.0"
	retryBackoff        = 2 * time.Second
)

// Fetcher retrieves pages over HTTP with a body size cap and retries.
type Fetcher struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
	retries   int
}

// NewFetcher creates a Fetcher with sensible transport defaults.
func NewFetcher(timeout time.Duration, retries int) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if retries < 1 {
		retries = 1
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   defaultSizeCap,
		userAgent: defaultUserAgent,
		retries:   retries,
	}
}

// Fetch retrieves rawURL and returns the decoded body, the final URL after
// redirects, and the Content-Type header. It retries transient failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, string, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", "", ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
		body, finalURL, contentType, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, finalURL, contentType, nil
		}
		lastErr = err
	}
	return nil, "", "", fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", "", fmt.Errorf("invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, "", "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, gzErr := gzip.NewReader(resp.Body)
		if gzErr != nil {
			return nil, "", "", gzErr
		}
		defer gz.Close()
		body = gz
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "" && !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") {
		return nil, "", "", ErrNonHTML
	}

	data, err := io.ReadAll(io.LimitReader(body, f.sizeCap))
	if err != nil {
		return nil, "", "", err
	}

	return data, resp.Request.URL.String(), contentType, nil
}
