package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bengali-mteb/leaderboard/internal/validation"
)

var (
	nanToken = regexp.MustCompile(`\bNaN\b`)
	// a run of commas collapses in one pass so the rewrite is idempotent
	trailingComma = regexp.MustCompile(`(?:,\s*)+([}\]])`)
)

// ErrMalformed marks artifacts that cannot be parsed even after sanitization.
var ErrMalformed = errors.New("malformed artifact")

// ParseError lists why an artifact was rejected.
type ParseError struct {
	Problems []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformed, strings.Join(e.Problems, "; "))
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Sanitize rewrites the non-strict JSON found in result artifacts: bare NaN
// tokens become null and trailing commas before } or ] are dropped. Text
// without either is returned unchanged.
func Sanitize(raw []byte) []byte {
	out := nanToken.ReplaceAll(raw, []byte("null"))
	return trailingComma.ReplaceAll(out, []byte("$1"))
}

type artifactDoc struct {
	TaskName        string   `json:"task_name"`
	DatasetRevision *string  `json:"dataset_revision"`
	MTEBVersion     *string  `json:"mteb_version"`
	EvaluationTime  *float64 `json:"evaluation_time"`
	Scores          struct {
		Test []*ScoreRecord `json:"test"`
	} `json:"scores"`
}

// Parse sanitizes raw, validates it against the artifact schema and decodes
// it. Failures are returned as *ParseError.
func Parse(raw []byte) (*TaskResult, error) {
	clean := Sanitize(raw)

	doc, err := validation.DecodeJSON(clean)
	if err != nil {
		return nil, &ParseError{Problems: []string{fmt.Sprintf("JSON parse error: %v", err)}}
	}
	if problems := validation.ValidateArtifact(doc); len(problems) > 0 {
		return nil, &ParseError{Problems: problems}
	}

	var a artifactDoc
	if err := json.Unmarshal(clean, &a); err != nil {
		return nil, &ParseError{Problems: []string{fmt.Sprintf("decode error: %v", err)}}
	}

	res := &TaskResult{TaskName: a.TaskName}
	if a.DatasetRevision != nil {
		res.DatasetRevision = *a.DatasetRevision
	}
	if a.MTEBVersion != nil {
		res.MTEBVersion = *a.MTEBVersion
	}
	if a.EvaluationTime != nil {
		res.EvaluationTime = Some(*a.EvaluationTime)
	}
	if len(a.Scores.Test) > 0 {
		res.Test = a.Scores.Test[0]
	}
	return res, nil
}
