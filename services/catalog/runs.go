package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RunKind string

const (
	RunScrape     RunKind = "scrape"
	RunEnrichment RunKind = "enrichment"
)

type RunState string

const (
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

var ErrRunActive = errors.New("a run of this kind is already active")

// Run is the queryable status record behind a fire-and-forget trigger.
type Run struct {
	Id               string             `json:"runId"`
	Kind             RunKind            `json:"kind"`
	State            RunState           `json:"state"`
	StartedAt        time.Time          `json:"startedAt"`
	FinishedAt       *time.Time         `json:"finishedAt,omitempty"`
	CoursesProcessed int                `json:"coursesProcessed"`
	CoursesSkipped   int                `json:"coursesSkipped"`
	Error            string             `json:"error,omitempty"`
	Enrichment       *EnrichmentSummary `json:"enrichment,omitempty"`
}

// RunRegistry tracks runs in memory and admits at most one active run per
// kind, which also keeps teacher identifier allocation sequential.
type RunRegistry struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: map[string]*Run{}}
}

func (r *RunRegistry) Begin(kind RunKind) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, run := range r.runs {
		if run.Kind == kind && run.State == RunRunning {
			return Run{}, ErrRunActive
		}
	}

	run := &Run{
		Id:        uuid.NewString(),
		Kind:      kind,
		State:     RunRunning,
		StartedAt: time.Now(),
	}
	r.runs[run.Id] = run
	return *run, nil
}

func (r *RunRegistry) Get(id string) (Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

func (r *RunRegistry) noteProcessed(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.CoursesProcessed++
	}
}

func (r *RunRegistry) noteSkipped(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.CoursesSkipped++
	}
}

func (r *RunRegistry) setEnrichment(id string, summary EnrichmentSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.Enrichment = &summary
	}
}

func (r *RunRegistry) complete(id string) {
	r.finish(id, RunCompleted, nil)
}

func (r *RunRegistry) fail(id string, err error) {
	r.finish(id, RunFailed, err)
}

func (r *RunRegistry) finish(id string, state RunState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return
	}
	now := time.Now()
	run.State = state
	run.FinishedAt = &now
	if err != nil {
		run.Error = err.Error()
	}
}
