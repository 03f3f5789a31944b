package results

import (
	"sort"
	"sync"
	"time"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/google/uuid"
)

// Aggregate maps every catalog model to its loaded task results. It is
// immutable once built; a reload produces a new Aggregate.
type Aggregate struct {
	generation string
	builtAt    time.Time
	models     []catalog.ModelID
	results    map[catalog.ModelID]map[catalog.TaskID]*TaskResult
	report     LoadReport
}

// LoadReport summarizes how the pairs of one build resolved.
type LoadReport struct {
	Pairs     int           `json:"pairs"`
	Loaded    int           `json:"loaded"`
	Absent    int           `json:"absent"`
	Malformed int           `json:"malformed"`
	Problems  []PairProblem `json:"problems,omitempty"`
}

// PairProblem records a pair that failed for a reason other than not found.
type PairProblem struct {
	Model  catalog.ModelID `json:"model"`
	Task   catalog.TaskID  `json:"task"`
	Status Status          `json:"status"`
	Error  string          `json:"error"`
}

// Generation identifies this build; every build gets a fresh id.
func (a *Aggregate) Generation() string { return a.generation }

// BuiltAt is when the build completed.
func (a *Aggregate) BuiltAt() time.Time { return a.builtAt }

// Report returns the load report of this build.
func (a *Aggregate) Report() LoadReport {
	r := a.report
	r.Problems = append([]PairProblem(nil), a.report.Problems...)
	return r
}

// Models returns the model ids in catalog order.
func (a *Aggregate) Models() []catalog.ModelID {
	if a == nil {
		return nil
	}
	out := make([]catalog.ModelID, len(a.models))
	copy(out, a.models)
	return out
}

// Len is the number of models.
func (a *Aggregate) Len() int { return len(a.models) }

// HasModel reports whether m is a key of the aggregate.
func (a *Aggregate) HasModel(m catalog.ModelID) bool {
	_, ok := a.results[m]
	return ok
}

// Result returns the task result for the pair, if loaded.
func (a *Aggregate) Result(m catalog.ModelID, t catalog.TaskID) (*TaskResult, bool) {
	if a == nil {
		return nil, false
	}
	r, ok := a.results[m][t]
	return r, ok
}

// Record returns the test-split record for the pair, or nil. Lookups on a
// nil Aggregate find nothing.
func (a *Aggregate) Record(m catalog.ModelID, t catalog.TaskID) *ScoreRecord {
	r, _ := a.Result(m, t)
	return r.Record()
}

// Score returns one metric for the pair; any missing level yields Absent.
func (a *Aggregate) Score(m catalog.ModelID, t catalog.TaskID, metric string) Score {
	return a.Record(m, t).Get(metric)
}

// Tasks lists the tasks with a loaded result for m, sorted.
func (a *Aggregate) Tasks(m catalog.ModelID) []catalog.TaskID {
	tasks := make([]catalog.TaskID, 0, len(a.results[m]))
	for t := range a.results[m] {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i] < tasks[j] })
	return tasks
}

// Builder assembles an Aggregate from pair outcomes. Add is safe for
// concurrent use; the result does not depend on the order of calls.
type Builder struct {
	mu      sync.Mutex
	models  []catalog.ModelID
	results map[catalog.ModelID]map[catalog.TaskID]*TaskResult
	report  LoadReport
}

// NewBuilder starts a build over models. Every model is a key of the
// resulting aggregate, even if none of its pairs load.
func NewBuilder(models []catalog.ModelID) *Builder {
	b := &Builder{
		models:  make([]catalog.ModelID, 0, len(models)),
		results: make(map[catalog.ModelID]map[catalog.TaskID]*TaskResult, len(models)),
	}
	for _, m := range models {
		if _, dup := b.results[m]; dup {
			continue
		}
		b.models = append(b.models, m)
		b.results[m] = make(map[catalog.TaskID]*TaskResult)
	}
	return b
}

// Add records one outcome. Outcomes for models outside the build are dropped.
func (b *Builder) Add(o Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks, ok := b.results[o.Model]
	if !ok {
		return
	}
	b.report.Pairs++
	switch o.Status {
	case StatusLoaded:
		if o.Result == nil {
			b.report.Absent++
			return
		}
		b.report.Loaded++
		tasks[o.Task] = o.Result
	case StatusMalformed:
		b.report.Malformed++
		b.report.Problems = append(b.report.Problems, newProblem(o))
	default:
		b.report.Absent++
		if o.Err != nil && !isNotFound(o.Err) {
			b.report.Problems = append(b.report.Problems, newProblem(o))
		}
	}
}

// Put stores a parsed result directly, bypassing the loader.
func (b *Builder) Put(m catalog.ModelID, t catalog.TaskID, r *TaskResult) {
	b.Add(Outcome{Model: m, Task: t, Status: StatusLoaded, Result: r})
}

// Build freezes the builder's content into a new Aggregate generation.
func (b *Builder) Build() *Aggregate {
	b.mu.Lock()
	defer b.mu.Unlock()

	results := make(map[catalog.ModelID]map[catalog.TaskID]*TaskResult, len(b.results))
	for m, tasks := range b.results {
		cp := make(map[catalog.TaskID]*TaskResult, len(tasks))
		for t, r := range tasks {
			cp[t] = r
		}
		results[m] = cp
	}

	report := b.report
	report.Problems = append([]PairProblem(nil), b.report.Problems...)
	sort.Slice(report.Problems, func(i, j int) bool {
		if report.Problems[i].Model != report.Problems[j].Model {
			return report.Problems[i].Model < report.Problems[j].Model
		}
		return report.Problems[i].Task < report.Problems[j].Task
	})

	return &Aggregate{
		generation: uuid.NewString(),
		builtAt:    time.Now().UTC(),
		models:     append([]catalog.ModelID(nil), b.models...),
		results:    results,
		report:     report,
	}
}

func newProblem(o Outcome) PairProblem {
	p := PairProblem{Model: o.Model, Task: o.Task, Status: o.Status}
	if o.Err != nil {
		p.Error = o.Err.Error()
	}
	return p
}
