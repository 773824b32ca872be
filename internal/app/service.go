// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/stride/internal/adapters/catalog"
	"github.com/okian/stride/internal/adapters/ollama"
	"github.com/okian/stride/internal/domain/expcache"
	"github.com/okian/stride/internal/domain/filter"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/rank"
	"github.com/okian/stride/internal/domain/scoring"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Service runs the filter -> score -> rank pipeline over the current
// catalog snapshot and attaches best-effort explanations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     catalog.Store
	scorer    scoring.Scorer
	explainer ollama.Explainer
	cache     expcache.Cache

	// Configuration
	catalogPath        string
	weights            scoring.Weights
	defaultResults     int
	maxResults         int
	ollamaHost         string
	ollamaModel        string
	explainTimeout     time.Duration
	explainConcurrency int
	explainCacheSize   int
	explainEnabled     bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithCatalogPath sets the JSON catalog file location.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.catalogPath = path
		}
	}
}

// WithWeights sets the scoring weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		if w.Valid() {
			s.weights = w
		}
	}
}

// WithResultLimits sets the default shortlist length and the cap on
// caller-supplied limits.
func WithResultLimits(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultResults = def
		}
		if max >= def {
			s.maxResults = max
		}
	}
}

// WithOllama locates the local language model.
func WithOllama(host, model string) Option {
	return func(s *Service) {
		if host != "" {
			s.ollamaHost = host
		}
		if model != "" {
			s.ollamaModel = model
		}
	}
}

// WithExplainer injects an Explainer, overriding the Ollama default.
func WithExplainer(e ollama.Explainer) Option {
	return func(s *Service) {
		if e != nil {
			s.explainer = e
		}
	}
}

// WithExplainTimeout bounds each explanation call.
func WithExplainTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.explainTimeout = d
		}
	}
}

// WithExplainConcurrency bounds the per-request explanation fan-out.
func WithExplainConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.explainConcurrency = n
		}
	}
}

// WithExplainCacheSize bounds the explanation cache.
func WithExplainCacheSize(n int) Option {
	return func(s *Service) {
		s.explainCacheSize = n
	}
}

// WithExplainEnabled turns the free-text explainer on or off.
func WithExplainEnabled(enabled bool) Option {
	return func(s *Service) {
		s.explainEnabled = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalogPath:        "catalog.json",
		weights:            scoring.DefaultWeights(),
		defaultResults:     5,
		maxResults:         20,
		ollamaHost:         "http://localhost:11434",
		ollamaModel:        "llama3.1",
		explainTimeout:     30 * time.Second,
		explainConcurrency: 4,
		explainCacheSize:   4096,
		explainEnabled:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and wires the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	store, err := catalog.NewFileStore(ctx, s.catalogPath, catalog.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.store = store

	s.scorer = scoring.NewWeightedScorer(scoring.WithWeights(s.weights))
	s.cache = expcache.New(expcache.WithMaxSize(s.explainCacheSize))

	if s.explainer == nil {
		if s.explainEnabled {
			s.explainer = ollama.NewClient(s.ollamaHost, s.ollamaModel)
		} else {
			s.explainer = ollama.Noop{}
		}
	}

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("catalogRecords", store.Count(ctx)),
		logger.String("ollamaModel", s.ollamaModel),
	)
	return nil
}

// Stop shuts the service down. The pipeline holds no background state;
// this only flips the started flag so a restart reloads the catalog.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Recommend runs the pipeline for one payload. A limit below 1 selects
// the configured default; limits above the cap are clamped. The typed
// filter.ErrNoMatches passes through so callers can distinguish "no
// match" from failure; a validation failure wraps
// model.ErrInvalidPreferences.
func (s *Service) Recommend(ctx context.Context, prefs model.Preferences, limit int) ([]types.ScoredResult, error) {
	start := time.Now()
	metrics.RecordRecommendRequest()

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = s.defaultResults
	}
	if limit > s.maxResults {
		limit = s.maxResults
	}

	snap := s.store.Snapshot()
	shoes := snap.Shoes()

	survivors, err := filter.Apply(shoes, prefs)
	if err != nil {
		if errors.Is(err, filter.ErrNoMatches) {
			metrics.RecordRecommendEmpty()
			metrics.RecordCandidatesFiltered(len(shoes))
		}
		return nil, err
	}
	metrics.RecordCandidatesFiltered(len(shoes) - len(survivors))

	candidates := make([]rank.Candidate, len(survivors))
	for i, shoe := range survivors {
		candidates[i] = rank.Candidate{Shoe: shoe, Score: s.scorer.Score(shoe, prefs)}
	}

	ordered := rank.Order(candidates, limit)
	results := rank.Results(ordered, prefs)

	s.attachExplanations(ctx, ordered, prefs, results)

	metrics.RecordCandidatesReturned(len(results))
	metrics.RecordRecommendDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "recommendation pipeline complete",
		logger.Int("catalog", len(shoes)),
		logger.Int("survivors", len(survivors)),
		logger.Int("returned", len(results)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// attachExplanations fans candidate explanations out to a bounded set
// of goroutines. Each call is bounded by the explain timeout, and any
// failure leaves the field empty; the ranked list is already complete.
func (s *Service) attachExplanations(ctx context.Context, ordered []rank.Candidate, prefs model.Preferences, results []types.ScoredResult) {
	if len(ordered) == 0 {
		return
	}

	sem := make(chan struct{}, s.explainConcurrency)
	var wg sync.WaitGroup
	for i := range ordered {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Explanation = s.explainOne(ctx, ordered[i].Shoe, prefs)
		}(i)
	}
	wg.Wait()
}

// explainOne returns the cached or freshly generated explanation for a
// single candidate, or "" when the collaborator is unavailable.
func (s *Service) explainOne(ctx context.Context, shoe model.Shoe, prefs model.Preferences) string {
	key := explainKey(shoe, prefs)
	if text, ok := s.cache.Get(ctx, key); ok {
		metrics.RecordExplainCacheHit()
		return text
	}

	callCtx, cancel := context.WithTimeout(ctx, s.explainTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.explainer.Explain(callCtx, shoe, prefs)
	metrics.RecordExplainLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordExplainFailure()
		s.logger.Warn(ctx, "explanation unavailable",
			logger.String("brand", shoe.Brand),
			logger.String("model", shoe.Model),
			logger.Error(err),
		)
		return ""
	}

	s.cache.Put(ctx, key, text)
	return text
}

// explainKey digests the record identity and the payload fields that
// influence the prompt.
func explainKey(shoe model.Shoe, prefs model.Preferences) string {
	brands := append([]string(nil), prefs.BrandPreferences...)
	sort.Strings(brands)
	races := append([]string(nil), prefs.IntendedUse.Races...)
	sort.Strings(races)

	raw := fmt.Sprintf("%s|%s|%s|%v|%v|%v|%v|%s|%v|%.2f",
		shoe.Brand, shoe.Model,
		strings.Join(brands, ","),
		prefs.IntendedUse.EasyRuns, prefs.IntendedUse.TempoRuns,
		prefs.IntendedUse.LongRuns, prefs.IntendedUse.Trail,
		strings.Join(races, ","),
		prefs.CostLimiter.Enabled, prefs.CostLimiter.MaxUSD,
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ReloadCatalog swaps in a fresh catalog snapshot. In-flight requests
// keep the snapshot they started with.
func (s *Service) ReloadCatalog(ctx context.Context) error {
	return s.store.Reload(ctx)
}

// CatalogSummary describes the current snapshot for the frontend form.
type CatalogSummary struct {
	Count    int       `json:"count"`
	Brands   []string  `json:"brands"`
	MaxPrice float64   `json:"max_price"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Catalog returns a summary of the current snapshot.
func (s *Service) Catalog(ctx context.Context) CatalogSummary {
	snap := s.store.Snapshot()
	return CatalogSummary{
		Count:    snap.Len(),
		Brands:   snap.Brands(),
		MaxPrice: snap.MaxPrice(),
		LoadedAt: snap.LoadedAt(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"defaultResults": s.defaultResults,
		"maxResults":     s.maxResults,
		"explainEnabled": s.explainEnabled,
	}
	if s.started {
		stats["catalogRecords"] = s.store.Count(ctx)
		stats["catalogLoadedAt"] = s.store.Snapshot().LoadedAt()
		stats["explainCacheSize"] = s.cache.Size()
	}
	return stats
}
