package artifact

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Source kinds accepted by New.
const (
	KindDir    = "dir"
	KindHTTP   = "http"
	KindAzBlob = "azblob"
)

// Config selects and configures a Source.
type Config struct {
	// Kind is one of KindDir, KindHTTP or KindAzBlob. Empty infers dir or
	// http from Location.
	Kind     string
	Location string
	// Options holds kind-specific settings, decoded with mapstructure.
	Options map[string]any
	// CacheDir enables the on-disk artifact cache for remote kinds.
	CacheDir string
	Logger   *slog.Logger
}

type httpOptions struct {
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	Headers        map[string]string `mapstructure:"headers"`
}

// InferKind guesses the source kind from a location string.
func InferKind(location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return KindHTTP
	}
	return KindDir
}

// New builds the Source described by cfg.
func New(cfg Config) (Source, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = InferKind(cfg.Location)
	}

	var (
		src Source
		err error
	)
	switch kind {
	case KindDir:
		if cfg.Location == "" {
			return nil, fmt.Errorf("dir source requires a location")
		}
		return NewDirSource(cfg.Location), nil
	case KindHTTP:
		var opts httpOptions
		if err := mapstructure.Decode(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid http source options: %w", err)
		}
		client := &http.Client{Timeout: DefaultHTTPTimeout}
		if opts.TimeoutSeconds > 0 {
			client.Timeout = time.Duration(opts.TimeoutSeconds) * time.Second
		}
		src, err = NewHTTPSource(cfg.Location, client, opts.Headers)
	case KindAzBlob:
		opts := BlobOptions{ServiceURL: cfg.Location}
		if err := mapstructure.Decode(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid azblob source options: %w", err)
		}
		src, err = NewBlobSource(opts)
	default:
		return nil, fmt.Errorf("unknown source kind %q (want %s, %s or %s)", kind, KindDir, KindHTTP, KindAzBlob)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheDir != "" && kind != KindDir {
		src = NewCachedSource(src, NewCache(cfg.CacheDir), kind+":"+cfg.Location, cfg.Logger)
	}
	return src, nil
}
