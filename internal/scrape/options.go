package scrape

import (
	"time"

	"github.com/okian/stride/pkg/logger"
)

// Option configures a Scraper.
type Option func(*Scraper)

// WithFetcher sets a custom page fetcher.
func WithFetcher(f *Fetcher) Option {
	return func(s *Scraper) {
		s.fetcher = f
	}
}

// WithConcurrency sets how many product pages are fetched in parallel.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxProducts caps how many products are processed. Zero means no cap.
func WithMaxProducts(n int) Option {
	return func(s *Scraper) {
		if n >= 0 {
			s.maxProducts = n
		}
	}
}

// WithThrottle sets the delay each worker waits between product pages.
func WithThrottle(d time.Duration) Option {
	return func(s *Scraper) {
		if d >= 0 {
			s.throttle = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}
