package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Placeholder is rendered wherever a score is not available.
const Placeholder = "—"

// Score is a metric value that may be absent. A missing key, an explicit
// null, a NaN in the artifact and a non-numeric value all read as absent.
type Score struct {
	Value float64
	Valid bool
}

// Absent is the zero Score.
var Absent = Score{}

// Some wraps v. NaN and infinities are not representable scores and yield Absent.
func Some(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Absent
	}
	return Score{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (s Score) Get() (float64, bool) {
	return s.Value, s.Valid
}

// Format renders the score with prec decimals, or Placeholder when absent.
func (s Score) Format(prec int) string {
	if !s.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(s.Value, 'f', prec, 64)
}

// String implements fmt.Stringer.
func (s Score) String() string {
	return s.Format(4)
}

// MarshalJSON encodes an absent score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null; anything else decodes as absent.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = scoreFromRaw(data)
	return nil
}

func scoreFromRaw(raw []byte) Score {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Absent
	}
	switch raw[0] {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Absent
		}
		return Some(v)
	default:
		return Absent
	}
}

// isMetricValue reports whether raw is a number or null, the only value
// kinds a metric map may hold.
func isMetricValue(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	if bytes.Equal(raw, []byte("null")) {
		return true
	}
	return raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')
}

// ScoreRecord maps metric names to scores for one evaluation split and keeps
// the metric order of the artifact it was read from.
type ScoreRecord struct {
	keys   []string
	values map[string]Score
	// attrs holds non-metric entries such as hf_subset or languages.
	attrs map[string]json.RawMessage
}

// NewScoreRecord returns an empty record.
func NewScoreRecord() *ScoreRecord {
	return &ScoreRecord{values: make(map[string]Score)}
}

// Set stores s under metric. A new metric is appended to the key order.
func (r *ScoreRecord) Set(metric string, s Score) *ScoreRecord {
	if r.values == nil {
		r.values = make(map[string]Score)
	}
	if _, ok := r.values[metric]; !ok {
		r.keys = append(r.keys, metric)
	}
	r.values[metric] = s
	return r
}

// Get returns the score for metric; a nil record or a missing metric yields Absent.
func (r *ScoreRecord) Get(metric string) Score {
	if r == nil {
		return Absent
	}
	return r.values[metric]
}

// Metrics returns the metric names in artifact order.
func (r *ScoreRecord) Metrics() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len is the number of metric entries.
func (r *ScoreRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Attribute returns a non-metric entry of the record.
func (r *ScoreRecord) Attribute(name string) (json.RawMessage, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.attrs[name]
	return v, ok
}

// UnmarshalJSON decodes a JSON object, preserving key order. Number and null
// values become metrics; other values are kept as attributes.
func (r *ScoreRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("score record must be a JSON object")
	}

	rec := NewScoreRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in score record", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		if isMetricValue(raw) {
			rec.Set(key, scoreFromRaw(raw))
			continue
		}
		if rec.attrs == nil {
			rec.attrs = make(map[string]json.RawMessage)
		}
		rec.attrs[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = *rec
	return nil
}

// MarshalJSON encodes the metrics in order, absent values as null.
func (r *ScoreRecord) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
