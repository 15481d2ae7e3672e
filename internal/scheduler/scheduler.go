// Package scheduler drives the fixed worker pool that runs loader and
// resolution tasks concurrently, per spec.md §4.10/§5: a bounded number of
// workers pull from a shared queue, a work counter tracks outstanding
// tasks (including tasks posted by other tasks as the graph fans out), and
// Run blocks until the counter drains to zero. Errors are sticky: one
// task failing does not stop the others from running to completion, and
// every error is kept, not just the first.
package scheduler

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/thought-machine/ninjagraph/internal/resolve"
)

// Scheduler is grounded on src/core/pool.go's channel-of-func worker pool,
// generalised with the atomic outstanding-work counter and sticky
// multi-error aggregation that spec.md §4.10 describes and please's bare
// Pool does not itself need (please's pool stops cleanly via a poison
// message instead of tracking how much work remains).
type Scheduler struct {
	eg    *errgroup.Group
	count int64 // atomic: outstanding posted tasks

	mu                      sync.Mutex
	errs                    *multierror.Error
	writtenFiles            map[string]bool
	genDependencyFiles      []string
	unknownGeneratedInputs  []error
	writeRuntimeDepsTargets map[string]string

	hasError atomic.Bool
}

// New constructs a Scheduler with a fixed pool of workers. workers bounds
// how many tasks run concurrently, matching please's fixed-size Pool;
// unlike please's pool the limit here is expressed via errgroup.SetLimit
// rather than a fixed number of goroutines reading off a channel, since
// posting happens from arbitrary goroutines as the graph fans out rather
// than from one producer.
func New(workers int) *Scheduler {
	eg := &errgroup.Group{}
	if workers > 0 {
		eg.SetLimit(workers)
	}
	return &Scheduler{
		eg:                      eg,
		writtenFiles:            map[string]bool{},
		writeRuntimeDepsTargets: map[string]string{},
	}
}

// Post submits a task to run on the worker pool. Posting increments the
// outstanding work count immediately, before the task actually starts, so
// a task that itself calls Post before returning can never cause Run to
// observe a false zero in between.
func (s *Scheduler) Post(task func() error) {
	atomic.AddInt64(&s.count, 1)
	s.eg.Go(func() error {
		defer atomic.AddInt64(&s.count, -1)
		if err := task(); err != nil {
			s.recordError(err)
		}
		// Always return nil: errgroup's own cancellation-on-error behaviour
		// would stop scheduling new work, which contradicts the sticky,
		// drain-to-completion error policy spec.md §4.10 describes.
		return nil
	})
}

func (s *Scheduler) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = multierror.Append(s.errs, err)
	s.hasError.Store(true)
}

// Run blocks until every posted task (and every task those tasks post in
// turn) has completed, then returns the aggregate of every error recorded
// along the way, or nil if there were none.
func (s *Scheduler) Run() error {
	_ = s.eg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.ErrorOrNil()
}

// HasError reports whether any task has failed so far. It is safe to poll
// concurrently with outstanding work, e.g. to short-circuit emission once
// a run is already doomed.
func (s *Scheduler) HasError() bool {
	return s.hasError.Load()
}

// WorkCount reports the number of tasks posted but not yet finished.
func (s *Scheduler) WorkCount() int64 {
	return atomic.LoadInt64(&s.count)
}

// Warn implements resolve.Sink. A warning about a path this Scheduler has
// itself already written (e.g. a generated ninja file referenced back as
// a source before the writer pass runs) is suppressed rather than
// reported, since it is not actually unknown.
func (s *Scheduler) Warn(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := err.(*resolve.UnknownGeneratedInputWarning); ok && s.writtenFiles[w.Path] {
		return
	}
	s.unknownGeneratedInputs = append(s.unknownGeneratedInputs, err)
}

// RegisterWriteRuntimeDeps implements resolve.Sink.
func (s *Scheduler) RegisterWriteRuntimeDeps(root, outputs string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeRuntimeDepsTargets[root] = outputs
}

// RegisterGenDependencyFile records a depfile path the ninja writer must
// declare as a generator input, e.g. a re-read build-config file.
func (s *Scheduler) RegisterGenDependencyFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genDependencyFiles = append(s.genDependencyFiles, path)
}

// RecordWrittenFile marks path as something this run itself produced,
// distinct from a build target's output - e.g. the ninja files and
// rust-project.json, consulted by Warn above.
func (s *Scheduler) RecordWrittenFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writtenFiles[path] = true
}

// GenDependencyFiles returns the accumulated depfile inputs, sorted by
// caller-insertion order (stable, since the writer always iterates them
// in the same Post order the loader used).
func (s *Scheduler) GenDependencyFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.genDependencyFiles))
	copy(out, s.genDependencyFiles)
	return out
}

// UnknownGeneratedInputs returns every non-suppressed warning recorded via Warn.
func (s *Scheduler) UnknownGeneratedInputs() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.unknownGeneratedInputs))
	copy(out, s.unknownGeneratedInputs)
	return out
}

// WriteRuntimeDepsTargets returns the root label -> runtime-deps-output map
// accumulated during resolution.
func (s *Scheduler) WriteRuntimeDepsTargets() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.writeRuntimeDepsTargets))
	for k, v := range s.writeRuntimeDepsTargets {
		out[k] = v
	}
	return out
}
