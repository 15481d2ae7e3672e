package resolve

import (
	"strings"
	"sync"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
)

// Sink receives side effects from resolution that don't belong on the
// Target itself: non-fatal warnings and the write-runtime-deps side-channel
// registration (spec step 8). The Scheduler implements this;
// tests can supply a trivial in-memory stub.
type Sink interface {
	Warn(err error)
	RegisterWriteRuntimeDeps(root string, outputs string)
}

// OutputRegistry is the process-wide map of every computed output to the
// label that produces it. It backs both DuplicateOutput detection and the
// expensive fallback path of check_sources_generated (consulted only for
// object-file inputs after the cheap dependency-local check fails, per the
// source's own performance-sensitive fallback behaviour).
type OutputRegistry struct {
	mu        sync.Mutex
	producers map[string]label.Label
}

// NewOutputRegistry constructs an empty registry.
func NewOutputRegistry() *OutputRegistry {
	return &OutputRegistry{producers: map[string]label.Label{}}
}

// Register records that owner produces output. Returns a *DuplicateOutputError
// if another target already claimed the same output path.
func (r *OutputRegistry) Register(output string, owner label.Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.producers[output]; ok && existing != owner {
		return &DuplicateOutputError{Output: output, First: existing, Second: owner}
	}
	r.producers[output] = owner
	return nil
}

// Producer returns the label that produces output, if any is registered.
func (r *OutputRegistry) Producer(output string) (label.Label, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.producers[output]
	return l, ok
}

// Context carries the process-wide state the pipeline needs beyond the
// Target being resolved: the build directory (for build_dir/-membership
// tests), the output registry, and the side-effect sink.
type Context struct {
	BuildDir string
	Outputs  *OutputRegistry
	Sink     Sink
}

// InBuildDir reports whether a source-form path falls under the build
// directory, e.g. "//out/Default/gen/foo.h" when BuildDir is "out/Default".
func (c *Context) InBuildDir(f paths.SourceFile) bool {
	prefix := "//" + strings.TrimSuffix(c.BuildDir, "/") + "/"
	return strings.HasPrefix(f.String(), prefix)
}
