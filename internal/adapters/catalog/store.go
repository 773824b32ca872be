// Package catalog loads and owns the shoe catalog. The catalog is held
// as an immutable snapshot behind an atomic pointer; a reload builds a
// fresh snapshot and swaps it in, so in-flight requests keep the
// consistent view they started with.
package catalog

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Store provides read access to the current catalog snapshot.
type Store interface {
	// Snapshot returns the current immutable snapshot. Never nil after
	// a successful Load.
	Snapshot() *Snapshot

	// Reload re-reads the catalog source and swaps in a new snapshot.
	// On failure the previous snapshot stays in place.
	Reload(ctx context.Context) error

	// Count returns the number of records in the current snapshot.
	Count(ctx context.Context) int
}

// Snapshot is a read-only view of the catalog taken at load time.
type Snapshot struct {
	shoes    []model.Shoe
	loadedAt time.Time
}

// Shoes returns the records in catalog insertion order. Callers must
// not mutate the returned slice.
func (s *Snapshot) Shoes() []model.Shoe { return s.shoes }

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int { return len(s.shoes) }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Brands returns the distinct brands present, sorted.
func (s *Snapshot) Brands() []string {
	seen := make(map[string]struct{}, len(s.shoes))
	var brands []string
	for _, shoe := range s.shoes {
		if _, ok := seen[shoe.Brand]; ok {
			continue
		}
		seen[shoe.Brand] = struct{}{}
		brands = append(brands, shoe.Brand)
	}
	sort.Strings(brands)
	return brands
}

// MaxPrice returns the highest price in the snapshot, 0 when empty.
func (s *Snapshot) MaxPrice() float64 {
	var max float64
	for _, shoe := range s.shoes {
		if shoe.PriceUSD > max {
			max = shoe.PriceUSD
		}
	}
	return max
}

// FileStore is a Store backed by a JSON catalog file.
type FileStore struct {
	path    string
	current atomic.Pointer[Snapshot]
	log     logger.Logger
}

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for load warnings.
func WithLogger(log logger.Logger) Option {
	return func(s *FileStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewFileStore creates a store for the catalog file at path and loads
// the initial snapshot. Startup fails when no valid record remains.
func NewFileStore(ctx context.Context, path string, opts ...Option) (*FileStore, error) {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the current immutable snapshot.
func (s *FileStore) Snapshot() *Snapshot { return s.current.Load() }

// Count returns the number of records in the current snapshot.
func (s *FileStore) Count(ctx context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return snap.Len()
}

// Reload re-reads the catalog file and atomically swaps in the new
// snapshot. Concurrent readers keep using the snapshot they already
// hold.
func (s *FileStore) Reload(ctx context.Context) error {
	snap, err := loadFile(ctx, s.path, s.log)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	metrics.UpdateCatalogSize(snap.Len())
	metrics.RecordCatalogReload()
	s.log.Info(ctx, "catalog snapshot loaded",
		logger.String("path", s.path),
		logger.Int("records", snap.Len()),
	)
	return nil
}
