package catalog

import "strings"

// DefaultModelBaseURL is prefixed to a decoded model path to build its page URL.
const DefaultModelBaseURL = "https://huggingface.co/"

// canonicalURLs lists models whose published page does not follow the
// decode-and-append rule.
var canonicalURLs = map[ModelID]string{
	"cohere__embed-multilingual-v3.0": "https://huggingface.co/Cohere/Cohere-embed-multilingual-v3.0",
}

// URLResolver maps model identifiers to external reference URLs.
type URLResolver struct {
	BaseURL   string
	Overrides map[ModelID]string
}

// NewURLResolver returns a resolver seeded with the built-in canonical URLs.
// Entries in extra take precedence over the built-in table; an empty base
// selects DefaultModelBaseURL.
func NewURLResolver(base string, extra map[ModelID]string) *URLResolver {
	if base == "" {
		base = DefaultModelBaseURL
	}
	overrides := make(map[ModelID]string, len(canonicalURLs)+len(extra))
	for id, u := range canonicalURLs {
		overrides[id] = u
	}
	for id, u := range extra {
		overrides[id] = u
	}
	return &URLResolver{BaseURL: base, Overrides: overrides}
}

// ModelURL returns the canonical URL of id. A nil resolver uses the
// built-in table.
func (r *URLResolver) ModelURL(id ModelID) string {
	if r == nil {
		return defaultResolver.ModelURL(id)
	}
	if u, ok := r.Overrides[id]; ok {
		return u
	}
	base := r.BaseURL
	if base == "" {
		base = DefaultModelBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id.Path()
}

var defaultResolver = NewURLResolver("", nil)

// ModelURL resolves id with the built-in table and the default base URL.
func ModelURL(id ModelID) string {
	return defaultResolver.ModelURL(id)
}
