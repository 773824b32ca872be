// Package scrape builds a shoe catalog JSON by crawling a retailer's
// listing pages and reading specs off each product page.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/pkg/logger"
)

// Scraper defaults.
const (
	defaultConcurrency = 4
	defaultRetries     = 3
	defaultThrottle    = 600 * time.Millisecond
)

// Scraper crawls a listing URL and produces validated catalog records.
type Scraper struct {
	fetcher     *Fetcher
	concurrency int
	maxProducts int
	throttle    time.Duration
	logger      logger.Logger
}

// New creates a Scraper with configuration options applied.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		concurrency: defaultConcurrency,
		throttle:    defaultThrottle,
		logger:      logger.Get().Named("scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewFetcher(defaultFetchTimeout, defaultRetries)
	}
	return s
}

// Run crawls every page reachable from listingURL and returns the catalog
// records it could extract. Records missing a spec get a conservative
// default so they still validate; products whose brand cannot be
// recognized are dropped.
func (s *Scraper) Run(ctx context.Context, listingURL string) ([]model.Shoe, error) {
	body, finalURL, _, err := s.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	pages, err := parsePagination(bytes.NewReader(body), finalURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "discovered listing pages", logger.Int("pages", len(pages)))

	cards, err := s.collectCards(ctx, pages, body, finalURL)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoProducts
	}
	if s.maxProducts > 0 && len(cards) > s.maxProducts {
		cards = cards[:s.maxProducts]
	}
	s.logger.Info(ctx, "collected product cards", logger.Int("products", len(cards)))

	shoes := s.scrapeProducts(ctx, cards)
	if len(shoes) == 0 {
		return nil, ErrNoProducts
	}

	s.logger.Info(ctx, "scrape complete",
		logger.Int("products", len(cards)),
		logger.Int("records", len(shoes)),
	)
	return shoes, nil
}

// collectCards walks every listing page and gathers deduplicated product
// cards. The first page's body is already fetched and reused.
func (s *Scraper) collectCards(ctx context.Context, pages []string, firstBody []byte, firstURL string) ([]productCard, error) {
	var cards []productCard
	seen := make(map[string]struct{})

	add := func(pageCards []productCard) {
		for _, c := range pageCards {
			key := c.Brand + "|" + c.Model
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			cards = append(cards, c)
		}
	}

	pageCards, err := parseListing(bytes.NewReader(firstBody), firstURL)
	if err != nil {
		return nil, err
	}
	add(pageCards)

	for _, page := range pages[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, finalURL, _, err := s.fetcher.Fetch(ctx, page)
		if err != nil {
			s.logger.Warn(ctx, "skipping listing page",
				logger.String("url", page),
				logger.Error(err),
			)
			continue
		}
		pageCards, err := parseListing(bytes.NewReader(body), finalURL)
		if err != nil {
			s.logger.Warn(ctx, "failed to parse listing page",
				logger.String("url", page),
				logger.Error(err),
			)
			continue
		}
		add(pageCards)
	}

	return cards, nil
}

// scrapeProducts fans product-page fetches out over a bounded worker pool
// and assembles results back into card order.
func (s *Scraper) scrapeProducts(ctx context.Context, cards []productCard) []model.Shoe {
	type job struct {
		idx  int
		card productCard
	}

	jobs := make(chan job)
	results := make([]*model.Shoe, len(cards))

	var wg sync.WaitGroup
	for w := 0; w < s.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				shoe, err := s.scrapeOne(ctx, j.card)
				if err != nil {
					s.logger.Warn(ctx, "skipping product",
						logger.String("brand", j.card.Brand),
						logger.String("model", j.card.Model),
						logger.Error(err),
					)
					continue
				}
				results[j.idx] = shoe

				select {
				case <-ctx.Done():
					return
				case <-time.After(s.throttle):
				}
			}
		}()
	}

	for i, c := range cards {
		select {
		case <-ctx.Done():
		case jobs <- job{idx: i, card: c}:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	shoes := make([]model.Shoe, 0, len(cards))
	for _, r := range results {
		if r != nil {
			shoes = append(shoes, *r)
		}
	}
	return shoes
}

// scrapeOne reads a single product page and builds a validated record.
func (s *Scraper) scrapeOne(ctx context.Context, card productCard) (*model.Shoe, error) {
	body, _, contentType, err := s.fetcher.Fetch(ctx, card.URL)
	if err != nil {
		return nil, err
	}
	doc, err := decodeHTML(body, contentType)
	if err != nil {
		return nil, err
	}

	specs := parseProduct(doc)

	shoe := model.Shoe{
		Brand:      card.Brand,
		Model:      card.Model,
		Categories: specs.Categories,
		PriceUSD:   specs.PriceUSD,
		Plate:      specs.Plate,
		DropMM:     specs.DropMM,
		WeightG:    specs.WeightG,
	}
	applyDefaults(&shoe)

	if err := shoe.Validate(); err != nil {
		return nil, err
	}
	return &shoe, nil
}

// applyDefaults fills specs the page did not yield. A shoe with no
// category tag is treated as a daily trainer; weight and drop fall back
// to typical trainer values so the record still validates.
func applyDefaults(s *model.Shoe) {
	if len(s.Categories) == 0 {
		s.Categories = []string{model.CategoryDaily}
	}
	if s.Plate == "" {
		s.Plate = model.PlateNone
	}
	if s.WeightG == 0 {
		s.WeightG = 283 // ~10 oz, a middle-of-the-road trainer
	}
	if s.DropMM == 0 {
		s.DropMM = 8
	}
}

// WriteCatalog writes records to path as indented JSON matching the
// catalog file format the recommender loads.
func WriteCatalog(path string, shoes []model.Shoe) error {
	data, err := json.MarshalIndent(shoes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
