// Package artifact retrieves raw result artifacts by slash-separated path
// from a directory, an HTTP(S) base URL or an Azure Storage container.
package artifact

//go:generate go tool mockgen -source=source.go -destination=mock_source.go -package=artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no artifact exists at the requested path.
var ErrNotFound = errors.New("artifact not found")

// Source fetches the raw bytes of one artifact.
type Source interface {
	// Fetch returns the artifact at p, or an error wrapping ErrNotFound
	// when it does not exist.
	Fetch(ctx context.Context, p string) ([]byte, error)
}

// DirSource reads artifacts from a local directory tree.
type DirSource struct {
	Root string
}

// NewDirSource creates a DirSource rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// Fetch reads Root/p from disk.
func (d *DirSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("reading %s: %w", clean, err)
	}
	return data, nil
}

// cleanPath anchors p at the source root so ".." segments cannot escape it.
func cleanPath(p string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if clean == "" {
		return "", fmt.Errorf("invalid artifact path %q", p)
	}
	return clean, nil
}

var _ Source = (*DirSource)(nil)
