// Package projectconfig provides the ProjectConfig struct and loader for
// .leaderboard.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = ".leaderboard.yaml"

// maxSearchDepth bounds the walk up the directory tree.
const maxSearchDepth = 10

// Default values for project configuration. New() is the only place that
// applies them.
const (
	DefaultSourceLocation = "results_bengali"

	DefaultWorkers = 4
	DefaultTimeout = 10

	DefaultCacheDir = ".leaderboard-cache"

	DefaultServerPort = 3000

	DefaultHeatmapTopK = 10
	DefaultRadarTopN   = 5

	DefaultModelURLBase = "https://huggingface.co/"
)

// SourceConfig selects where result artifacts come from.
type SourceConfig struct {
	// Kind is dir, http or azblob; empty infers it from Location.
	Kind     string         `yaml:"kind,omitempty"`
	Location string         `yaml:"location,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// LoaderConfig tunes the aggregate build.
type LoaderConfig struct {
	Workers int `yaml:"workers,omitempty"`
	// Timeout is the per-fetch timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// CacheConfig holds the artifact cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// ViewsConfig sizes the derived views.
type ViewsConfig struct {
	HeatmapTopK int `yaml:"heatmap_top_k,omitempty"`
	RadarTopN   int `yaml:"radar_top_n,omitempty"`
}

// ModelsConfig controls model URL resolution.
type ModelsConfig struct {
	URLBase      string            `yaml:"url_base,omitempty"`
	URLOverrides map[string]string `yaml:"url_overrides,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .leaderboard.yaml.
type ProjectConfig struct {
	Source SourceConfig `yaml:"source,omitempty"`
	Loader LoaderConfig `yaml:"loader,omitempty"`
	Cache  CacheConfig  `yaml:"cache,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
	Views  ViewsConfig  `yaml:"views,omitempty"`
	Models ModelsConfig `yaml:"models,omitempty"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Source: SourceConfig{
			Location: DefaultSourceLocation,
		},
		Loader: LoaderConfig{
			Workers: DefaultWorkers,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultCacheDir,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Views: ViewsConfig{
			HeatmapTopK: DefaultHeatmapTopK,
			RadarTopN:   DefaultRadarTopN,
		},
		Models: ModelsConfig{
			URLBase: DefaultModelURLBase,
		},
	}
}

// CacheEnabled reports whether the artifact cache is on.
func (c *ProjectConfig) CacheEnabled() bool {
	return c.Cache.Enabled != nil && *c.Cache.Enabled
}

// Load finds .leaderboard.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	p, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = p
	if cfg.Source.Kind == "dir" || (cfg.Source.Kind == "" && !isURL(cfg.Source.Location)) {
		cfg.Source.Location = resolveRelative(filepath.Dir(p), cfg.Source.Location)
	}
	cfg.Cache.Dir = resolveRelative(filepath.Dir(p), cfg.Cache.Dir)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .leaderboard.yaml. Returns
// os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Source
	if src.Source.Kind != "" {
		dst.Source.Kind = src.Source.Kind
	}
	if src.Source.Location != "" {
		dst.Source.Location = src.Source.Location
	}
	if src.Source.Options != nil {
		dst.Source.Options = src.Source.Options
	}

	// Loader
	if src.Loader.Workers != 0 {
		dst.Loader.Workers = src.Loader.Workers
	}
	if src.Loader.Timeout != 0 {
		dst.Loader.Timeout = src.Loader.Timeout
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.AllowedOrigins != nil {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}

	// Views
	if src.Views.HeatmapTopK != 0 {
		dst.Views.HeatmapTopK = src.Views.HeatmapTopK
	}
	if src.Views.RadarTopN != 0 {
		dst.Views.RadarTopN = src.Views.RadarTopN
	}

	// Models
	if src.Models.URLBase != "" {
		dst.Models.URLBase = src.Models.URLBase
	}
	if src.Models.URLOverrides != nil {
		dst.Models.URLOverrides = src.Models.URLOverrides
	}
}

// resolveRelative anchors a relative directory source at the config file's
// directory.
func resolveRelative(base, loc string) string {
	if loc == "" || filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(base, loc)
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

func boolPtr(b bool) *bool {
	return &b
}
