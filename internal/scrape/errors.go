package scrape

import "errors"

// Sentinel errors returned by the scraper.
var (
	// ErrFetch indicates a page could not be retrieved after all retries.
	ErrFetch = errors.New("failed to fetch page")

	// ErrNonHTML indicates the server returned something other than HTML.
	ErrNonHTML = errors.New("non-html content")

	// ErrNoProducts indicates no product cards were found on the listing.
	ErrNoProducts = errors.New("no products found on listing page")
)
