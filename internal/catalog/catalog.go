// Package catalog holds the fixed enumeration of evaluated embedding models and
// Bengali benchmark tasks, plus the identifier encoding shared by storage paths,
// display names and canonical model URLs.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Separator replaces the "/" between organization and model name in a
// ModelID, so the identifier can be used as a single path segment.
const Separator = "__"

// ModelID names one evaluated model, e.g. "intfloat__multilingual-e5-base".
type ModelID string

// TaskID names one benchmark task, e.g. "BengaliSentimentAnalysis.v2".
type TaskID string

// FromPath encodes an organization/name path into a ModelID.
func FromPath(path string) ModelID {
	return ModelID(strings.ReplaceAll(path, "/", Separator))
}

// Path decodes the identifier back into its organization/name form.
func (m ModelID) Path() string {
	return strings.ReplaceAll(string(m), Separator, "/")
}

// DisplayName is the full human-readable name of the model.
func (m ModelID) DisplayName() string {
	return m.Path()
}

// ShortName is the trailing path segment of the display name, used where
// space is constrained. The full name stays available via DisplayName.
func (m ModelID) ShortName() string {
	p := m.Path()
	if i := strings.LastIndex(p, "/"); i >= 0 && i < len(p)-1 {
		return p[i+1:]
	}
	if p == "" {
		return string(m)
	}
	return p
}

// Task describes one benchmark task.
type Task struct {
	ID   TaskID `json:"id"`
	Name string `json:"name"`
	// Description is markdown.
	Description string `json:"description"`
	Citation    string `json:"citation"`
	// PrimaryMetric is the metric the task's authors report as headline.
	PrimaryMetric string `json:"primaryMetric"`
}

// Catalog is the closed set of models and tasks known at build time. Order of
// Models is the deterministic input order used for tie-breaking.
type Catalog struct {
	Models []ModelID
	Tasks  []Task
}

// Validate reports identifier defects: empty ids, ids containing "/",
// duplicates, and distinct ids that decode to the same display name.
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New("catalog is nil")
	}
	var errs []error
	seen := make(map[ModelID]bool, len(c.Models))
	paths := make(map[string]ModelID, len(c.Models))
	for _, m := range c.Models {
		switch {
		case m == "":
			errs = append(errs, errors.New("empty model id"))
			continue
		case strings.Contains(string(m), "/"):
			errs = append(errs, fmt.Errorf("model id %q contains a path separator", m))
			continue
		case seen[m]:
			errs = append(errs, fmt.Errorf("duplicate model id %q", m))
			continue
		}
		seen[m] = true
		if other, ok := paths[m.Path()]; ok {
			errs = append(errs, fmt.Errorf("model ids %q and %q both decode to %q", other, m, m.Path()))
			continue
		}
		paths[m.Path()] = m
	}

	tasks := make(map[TaskID]bool, len(c.Tasks))
	for _, t := range c.Tasks {
		if t.ID == "" {
			errs = append(errs, errors.New("empty task id"))
			continue
		}
		if tasks[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate task id %q", t.ID))
			continue
		}
		tasks[t.ID] = true
	}
	return errors.Join(errs...)
}

// TaskIDs returns the task identifiers in catalog order.
func (c *Catalog) TaskIDs() []TaskID {
	ids := make([]TaskID, len(c.Tasks))
	for i, t := range c.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// Task looks up a task by id.
func (c *Catalog) Task(id TaskID) (Task, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// HasModel reports whether id is part of the catalog.
func (c *Catalog) HasModel(id ModelID) bool {
	for _, m := range c.Models {
		if m == id {
			return true
		}
	}
	return false
}

// DefaultTask is the task selected when none is given.
func (c *Catalog) DefaultTask() TaskID {
	if len(c.Tasks) == 0 {
		return ""
	}
	return c.Tasks[0].ID
}
