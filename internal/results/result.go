// Package results holds the in-memory leaderboard data model and the loader
// that builds it from result artifacts.
package results

import (
	"github.com/bengali-mteb/leaderboard/internal/catalog"
)

// TaskResult is one parsed artifact for a (model, task) pair.
type TaskResult struct {
	TaskName        string `json:"taskName,omitempty"`
	MTEBVersion     string `json:"mtebVersion,omitempty"`
	DatasetRevision string `json:"datasetRevision,omitempty"`
	// EvaluationTime is in seconds.
	EvaluationTime Score `json:"evaluationTime"`
	// Test is the first record of the test split, nil when the split is
	// missing or empty.
	Test *ScoreRecord `json:"test"`
}

// Record returns the test-split record; safe on a nil result.
func (r *TaskResult) Record() *ScoreRecord {
	if r == nil {
		return nil
	}
	return r.Test
}

// Status classifies the outcome of loading one artifact.
type Status int

const (
	// StatusLoaded means the artifact was fetched and parsed.
	StatusLoaded Status = iota
	// StatusAbsent means the artifact does not exist or could not be fetched.
	StatusAbsent
	// StatusMalformed means the artifact was fetched but failed to parse.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusAbsent:
		return "absent"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the result of loading one (model, task) pair. Only a loaded
// outcome carries a Result; Err explains the other two.
type Outcome struct {
	Model  catalog.ModelID
	Task   catalog.TaskID
	Path   string
	Status Status
	Result *TaskResult
	Err    error
}
