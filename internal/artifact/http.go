package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultHTTPTimeout bounds a single HTTP fetch when the client has none.
const DefaultHTTPTimeout = 30 * time.Second

// maxArtifactBytes caps the size of a downloaded artifact.
var maxArtifactBytes int64 = 16 << 20

// HTTPSource fetches artifacts relative to a base URL, such as the
// results_bengali directory of a static site.
type HTTPSource struct {
	base    *url.URL
	client  *http.Client
	headers map[string]string
}

// NewHTTPSource creates an HTTPSource. A nil client gets DefaultHTTPTimeout.
func NewHTTPSource(baseURL string, client *http.Client, headers map[string]string) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPSource{base: u, client: client, headers: headers}, nil
}

// Fetch issues a GET for base/p. 404 and 410 map to ErrNotFound; any other
// non-2xx status is returned as an error.
func (s *HTTPSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	ref := &url.URL{Path: clean}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", clean, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", clean, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetching %s: unexpected status %s", clean, resp.Status)
	}

	data, err := readArtifact(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", clean, err)
	}
	return data, nil
}

// readArtifact reads r up to maxArtifactBytes and fails on anything longer.
func readArtifact(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxArtifactBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxArtifactBytes {
		return nil, fmt.Errorf("artifact exceeds %d bytes", maxArtifactBytes)
	}
	return data, nil
}

var _ Source = (*HTTPSource)(nil)
