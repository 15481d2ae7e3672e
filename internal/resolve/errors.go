// Package resolve implements the per-target finalisation pipeline: merging
// inherited configs, propagating bundle data, resolving precompiled
// headers, computing outputs, and running the validators that must all pass
// before a Target is immutable.
package resolve

import (
	"fmt"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/label"
)

// VisibilityViolationError reports a dep or config reference whose target
// visibility pattern does not include the reader.
type VisibilityViolationError struct {
	Reader label.Label
	Target label.Label
}

func (e *VisibilityViolationError) Error() string {
	return fmt.Sprintf("VisibilityViolation: %s is not visible to %s", e.Target, e.Reader)
}

// TestonlyViolationError reports a non-testonly target depending on a
// testonly dep or config.
type TestonlyViolationError struct {
	Target  label.Label
	Testonly label.Label
}

func (e *TestonlyViolationError) Error() string {
	return fmt.Sprintf("TestonlyViolation: non-testonly target %s depends on testonly %s", e.Target, e.Testonly)
}

// AssertNoDepsViolationError reports a dependency-closure member matching
// one of the target's own assert_no_deps patterns.
type AssertNoDepsViolationError struct {
	Root    label.Label
	Path    []label.Label
	Pattern string
}

func (e *AssertNoDepsViolationError) Error() string {
	parts := make([]string, len(e.Path))
	for i, l := range e.Path {
		parts[i] = l.String()
	}
	return fmt.Sprintf("AssertNoDepsViolation: %s forbids reaching %s (matched pattern %s) via %s",
		e.Root, e.Path[len(e.Path)-1], e.Pattern, strings.Join(parts, " -> "))
}

// PchConflictError reports two sources disagreeing on PCH header or file.
type PchConflictError struct {
	Target    label.Label
	FirstFrom string
	SecondFrom string
	Reason    string
}

func (e *PchConflictError) Error() string {
	return fmt.Sprintf("PchConflict: %s: %s (from %s and %s)", e.Target, e.Reason, e.FirstFrom, e.SecondFrom)
}

// SourceSetLanguageError reports a SOURCE_SET target containing Rust sources.
type SourceSetLanguageError struct {
	Target label.Label
}

func (e *SourceSetLanguageError) Error() string {
	return fmt.Sprintf("SOURCE_SET %s must not contain Rust sources", e.Target)
}

// DuplicateOutputError reports two targets computing the same output file.
type DuplicateOutputError struct {
	Output string
	First  label.Label
	Second label.Label
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("DuplicateOutput: %q produced by both %s and %s", e.Output, e.First, e.Second)
}

// UnknownGeneratedInputWarning is a non-fatal warning: a source or input
// under the build directory that no transitive dependency's computed
// outputs account for.
type UnknownGeneratedInputWarning struct {
	Target label.Label
	Path   string
}

func (w *UnknownGeneratedInputWarning) Error() string {
	return fmt.Sprintf("UnknownGeneratedInput: %s references %q, not produced by any visible dependency", w.Target, w.Path)
}
