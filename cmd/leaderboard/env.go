package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bengali-mteb/leaderboard/internal/artifact"
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/projectconfig"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/spinner"
	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

// session is everything a command needs to answer queries: the resolved
// configuration, the catalog and a service over a lazily built aggregate.
type session struct {
	cfg   *projectconfig.ProjectConfig
	cat   *catalog.Catalog
	urls  *catalog.URLResolver
	store *webapi.AggregateStore
	svc   *webapi.Service
}

// loadConfig reads .leaderboard.yaml and applies flag overrides.
func loadConfig(gf *globalFlags) (*projectconfig.ProjectConfig, error) {
	dir := gf.configDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	cfg, err := projectconfig.Load(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		slog.Debug("loaded project config", "path", cfg.Path)
	}

	if gf.source != "" {
		cfg.Source.Location = gf.source
		cfg.Source.Kind = gf.sourceKind
	} else if gf.sourceKind != "" {
		cfg.Source.Kind = gf.sourceKind
	}
	if gf.workers > 0 {
		cfg.Loader.Workers = gf.workers
	}
	if gf.timeout > 0 {
		cfg.Loader.Timeout = gf.timeout
	}
	if gf.noCache {
		disabled := false
		cfg.Cache.Enabled = &disabled
	}
	return cfg, nil
}

func urlResolver(cfg *projectconfig.ProjectConfig) *catalog.URLResolver {
	overrides := make(map[catalog.ModelID]string, len(cfg.Models.URLOverrides))
	for id, u := range cfg.Models.URLOverrides {
		overrides[catalog.ModelID(id)] = u
	}
	return catalog.NewURLResolver(cfg.Models.URLBase, overrides)
}

// newSession wires the artifact source, loader and service described by the
// configuration. Nothing is fetched until the aggregate is first needed.
func newSession(gf *globalFlags) (*session, error) {
	cfg, err := loadConfig(gf)
	if err != nil {
		return nil, err
	}

	srcCfg := artifact.Config{
		Kind:     cfg.Source.Kind,
		Location: cfg.Source.Location,
		Options:  cfg.Source.Options,
		Logger:   slog.Default(),
	}
	if cfg.CacheEnabled() {
		srcCfg.CacheDir = cfg.Cache.Dir
	}
	src, err := artifact.New(srcCfg)
	if err != nil {
		return nil, fmt.Errorf("creating result source: %w", err)
	}

	loader := results.NewLoader(src,
		results.WithWorkers(cfg.Loader.Workers),
		results.WithFetchTimeout(time.Duration(cfg.Loader.Timeout)*time.Second),
		results.WithLogger(slog.Default()),
	)

	cat := catalog.Default()
	urls := urlResolver(cfg)
	store := webapi.NewAggregateStore(cat, loader)
	svc := webapi.NewService(store, webapi.Settings{
		HeatmapTopK: cfg.Views.HeatmapTopK,
		RadarTopN:   cfg.Views.RadarTopN,
		URLs:        urls,
	})
	return &session{cfg: cfg, cat: cat, urls: urls, store: store, svc: svc}, nil
}

// aggregate builds the aggregate, showing a spinner on an interactive
// stderr.
func (s *session) aggregate(ctx context.Context, progress io.Writer) (*results.Aggregate, error) {
	stop := spinner.Start(progress, fmt.Sprintf("Loading results from %s", s.cfg.Source.Location))
	agg, err := s.store.Aggregate(ctx)
	stop()
	return agg, err
}

// dashboard loads the aggregate and resolves q against it.
func (s *session) dashboard(ctx context.Context, progress io.Writer, q webapi.Query) (*webapi.Dashboard, error) {
	if _, err := s.aggregate(ctx, progress); err != nil {
		return nil, err
	}
	return s.svc.Dashboard(ctx, q)
}
