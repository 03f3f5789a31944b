package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bengali-mteb/leaderboard/internal/artifact"
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"golang.org/x/sync/errgroup"
)

const (
	// ArtifactSuffix follows the task id in an artifact path.
	ArtifactSuffix = ".json"
	// DefaultWorkers is the number of concurrent pair loads.
	DefaultWorkers = 4
	// DefaultFetchTimeout bounds one artifact fetch.
	DefaultFetchTimeout = 10 * time.Second
)

// ArtifactPath is the source path of the artifact for a pair:
// "<model>/<task>.json".
func ArtifactPath(m catalog.ModelID, t catalog.TaskID) string {
	return string(m) + "/" + string(t) + ArtifactSuffix
}

// Loader fetches and parses result artifacts. Failures never escape Load:
// they come back as absent or malformed outcomes.
type Loader struct {
	source  artifact.Source
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers sets the number of concurrent loads in BuildAll. Values below
// one mean sequential loading.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n < 1 {
			n = 1
		}
		l.workers = n
	}
}

// WithFetchTimeout bounds each fetch. Non-positive values keep the default.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader reading from src.
func NewLoader(src artifact.Source, opts ...Option) *Loader {
	l := &Loader{
		source:  src,
		workers: DefaultWorkers,
		timeout: DefaultFetchTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches, sanitizes and parses the artifact for one pair.
func (l *Loader) Load(ctx context.Context, m catalog.ModelID, t catalog.TaskID) Outcome {
	p := ArtifactPath(m, t)
	out := Outcome{Model: m, Task: t, Path: p}

	fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.source.Fetch(fetchCtx, p)
	if err != nil {
		out.Status = StatusAbsent
		out.Err = err
		if isNotFound(err) {
			l.logger.Debug("no result artifact", "model", m, "task", t, "path", p)
		} else {
			l.logger.Warn("failed to fetch result artifact", "model", m, "task", t, "path", p, "error", err)
		}
		return out
	}

	res, err := Parse(raw)
	if err != nil {
		out.Status = StatusMalformed
		out.Err = err
		l.logger.Warn("malformed result artifact", "model", m, "task", t, "path", p, "error", err)
		return out
	}

	out.Status = StatusLoaded
	out.Result = res
	return out
}

// BuildAll loads every model × task pair of cat and assembles an Aggregate.
// The only errors are an invalid catalog and cancellation of ctx; in both
// cases no aggregate is returned.
func (l *Loader) BuildAll(ctx context.Context, cat *catalog.Catalog) (*Aggregate, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	start := time.Now()
	b := NewBuilder(cat.Models)
	tasks := cat.TaskIDs()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

schedule:
	for _, m := range cat.Models {
		for _, t := range tasks {
			if gctx.Err() != nil {
				break schedule
			}
			g.Go(func() error {
				b.Add(l.Load(gctx, m, t))
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading results: %w", err)
	}

	agg := b.Build()
	report := agg.Report()
	l.logger.Info("loaded results",
		"generation", agg.Generation(),
		"models", agg.Len(),
		"pairs", report.Pairs,
		"loaded", report.Loaded,
		"absent", report.Absent,
		"malformed", report.Malformed,
		"elapsed", time.Since(start))
	return agg, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, artifact.ErrNotFound)
}
