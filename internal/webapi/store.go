package webapi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bengali-mteb/leaderboard/internal/artifact"
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

var (
	// ErrNotLoaded is returned while no aggregate has been built successfully.
	ErrNotLoaded = errors.New("results not loaded")
	// ErrUnknownTask is returned for a task id outside the catalog.
	ErrUnknownTask = errors.New("unknown task")
	// ErrUnknownModel is returned for a model id outside the catalog.
	ErrUnknownModel = errors.New("unknown model")
)

// Builder builds an aggregate over a catalog; *results.Loader is one.
type Builder interface {
	BuildAll(ctx context.Context, cat *catalog.Catalog) (*results.Aggregate, error)
}

// ResultStore provides the current aggregate generation.
type ResultStore interface {
	// Catalog returns the catalog the aggregate is built over.
	Catalog() *catalog.Catalog
	// Current returns the published generation without loading; nil before
	// the first successful build.
	Current() *results.Aggregate
	// Aggregate returns the current generation, building the first one on
	// demand.
	Aggregate(ctx context.Context) (*results.Aggregate, error)
	// Reload builds a new generation and publishes it on success.
	Reload(ctx context.Context) (*results.Aggregate, error)
}

// AggregateStore holds the published aggregate. Readers always see a
// complete generation: a failed or cancelled rebuild leaves the previous one
// in place.
type AggregateStore struct {
	cat     *catalog.Catalog
	builder Builder

	// buildMu serializes builds.
	buildMu sync.Mutex

	mu      sync.RWMutex
	agg     *results.Aggregate
	loadErr error
}

// NewAggregateStore creates a store that builds aggregates of cat with b.
func NewAggregateStore(cat *catalog.Catalog, b Builder) *AggregateStore {
	return &AggregateStore{cat: cat, builder: b}
}

// Catalog implements ResultStore.
func (s *AggregateStore) Catalog() *catalog.Catalog {
	return s.cat
}

// Current implements ResultStore.
func (s *AggregateStore) Current() *results.Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agg
}

// load builds a generation. Unless force is set, a generation published by
// a concurrent caller while waiting for buildMu is returned instead.
func (s *AggregateStore) load(ctx context.Context, force bool) (*results.Aggregate, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if !force {
		if agg := s.Current(); agg != nil {
			return agg, nil
		}
	}

	agg, err := s.builder.BuildAll(ctx, s.cat)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		return nil, err
	}
	s.agg = agg
	s.loadErr = nil
	return agg, nil
}

// Aggregate implements ResultStore.
func (s *AggregateStore) Aggregate(ctx context.Context) (*results.Aggregate, error) {
	if agg := s.Current(); agg != nil {
		return agg, nil
	}
	agg, err := s.load(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLoaded, err)
	}
	return agg, nil
}

// Reload implements ResultStore. Cached artifacts are refetched.
func (s *AggregateStore) Reload(ctx context.Context) (*results.Aggregate, error) {
	return s.load(artifact.WithRefresh(ctx), true)
}

// LastError returns the error of the most recent build, nil after a success.
func (s *AggregateStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Ensure AggregateStore satisfies ResultStore.
var _ ResultStore = (*AggregateStore)(nil)
