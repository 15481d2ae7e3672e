package resolve

import (
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
)

// runValidators implements pipeline step 7: each check runs in sequence,
// the first failure short-circuits the rest (matching spec.md §7's
// propagation policy of failing one target while others keep resolving).
func runValidators(t *graph.Target, ctx *Context) error {
	if err := checkSourceSetLanguages(t); err != nil {
		return err
	}
	if err := checkVisibility(t); err != nil {
		return err
	}
	if err := checkTestonly(t); err != nil {
		return err
	}
	if err := checkAssertNoDeps(t); err != nil {
		return err
	}
	checkSourcesGenerated(t, ctx) // warning only, never fatal
	return nil
}

func checkSourceSetLanguages(t *graph.Target) error {
	if t.OutputType != graph.SourceSet {
		return nil
	}
	for _, s := range t.Sources {
		if s.Type() == paths.RS {
			return &SourceSetLanguageError{Target: t.Label}
		}
	}
	return nil
}

func checkVisibility(t *graph.Target) error {
	for _, dep := range t.AllDeps() {
		if dep.Target == nil {
			continue
		}
		if len(dep.Target.Visibility) == 0 {
			continue
		}
		if !dep.Target.Visibility.Matches(t.Label) {
			return &VisibilityViolationError{Reader: t.Label, Target: dep.Label}
		}
	}
	return nil
}

func checkTestonly(t *graph.Target) error {
	if t.TestOnly {
		return nil
	}
	for _, dep := range t.AllDeps() {
		if dep.Target != nil && dep.Target.TestOnly {
			return &TestonlyViolationError{Target: t.Label, Testonly: dep.Label}
		}
	}
	for _, cd := range t.Configs {
		if cd.Config != nil && cd.Config.TestOnly {
			return &TestonlyViolationError{Target: t.Label, Testonly: cd.Label}
		}
	}
	return nil
}

// checkAssertNoDeps DFSes the private+public dep closure (data_deps excluded
// per spec.md §3 invariant 3, which scopes the closure the same way
// testonly/config propagation does) looking for any label matched by t's
// own assert_no_deps patterns. EXECUTABLE targets cut the walk - an
// executable dependency's own deps are a separate process image and do not
// count toward the assertion.
func checkAssertNoDeps(t *graph.Target) error {
	if len(t.AssertNoDeps) == 0 {
		return nil
	}
	visited := map[*graph.Target]bool{t: true}

	var walk func(dep graph.TargetDep, trail []label.Label) error
	walk = func(dep graph.TargetDep, trail []label.Label) error {
		if dep.Target == nil || visited[dep.Target] {
			return nil
		}
		visited[dep.Target] = true
		trail = append(trail, dep.Label)

		for _, p := range t.AssertNoDeps {
			if p.Matches(dep.Label) {
				return &AssertNoDepsViolationError{Root: t.Label, Path: append([]label.Label{}, trail...), Pattern: patternString(p)}
			}
		}
		if dep.Target.OutputType == graph.Executable {
			return nil // executables cut the walk
		}
		for _, sub := range dep.Target.LinkDeps() {
			if err := walk(sub, trail); err != nil {
				return err
			}
		}
		return nil
	}

	for _, dep := range t.LinkDeps() {
		if err := walk(dep, nil); err != nil {
			return err
		}
	}
	return nil
}

// checkSourcesGenerated is the cheap-then-expensive validator from spec.md
// §4.5 step 7 / §9's open question: for every source or input under the
// build directory, first check whether a transitively reachable
// private/public dep (or a depth-1 data_dep) already produced it via its
// computed_outputs. Object-file inputs that fail the cheap path fall back
// to the process-wide output registry, which is more expensive (it isn't
// scoped to this target's own dep closure) but avoids spurious warnings on
// object files pulled in by less direct means. Anything still unaccounted
// for is reported through the Sink as a non-fatal warning.
func checkSourcesGenerated(t *graph.Target, ctx *Context) {
	if ctx == nil {
		return
	}
	local := map[string]bool{}
	visited := map[*graph.Target]bool{t: true}
	var walk func(dep graph.TargetDep)
	walk = func(dep graph.TargetDep) {
		if dep.Target == nil || visited[dep.Target] {
			return
		}
		visited[dep.Target] = true
		for _, o := range dep.Target.ComputedOutputs {
			local[o.String()] = true
		}
		for _, sub := range dep.Target.LinkDeps() {
			walk(sub)
		}
	}
	for _, dep := range t.LinkDeps() {
		walk(dep)
	}
	for _, dep := range t.DataDeps { // depth 1 only
		if dep.Target == nil {
			continue
		}
		for _, o := range dep.Target.ComputedOutputs {
			local[o.String()] = true
		}
	}

	check := func(f paths.SourceFile) {
		if !ctx.InBuildDir(f) {
			return
		}
		out := paths.FromSourceFile(f, ctx.BuildDir)
		if local[out.String()] {
			return
		}
		if f.Type() == paths.O {
			if _, ok := ctx.Outputs.Producer(out.String()); ok {
				return
			}
		}
		ctx.Sink.Warn(&UnknownGeneratedInputWarning{Target: t.Label, Path: f.String()})
	}
	for _, s := range t.Sources {
		check(s)
	}
	for _, s := range t.Inputs {
		check(s)
	}
}

func patternString(p label.Pattern) string {
	switch p.Kind {
	case label.DirWildcard:
		if p.Dir == "" {
			return "//*"
		}
		return "//" + p.Dir + "/*"
	case label.NameWildcard:
		return "//" + p.Dir + ":*"
	default:
		return "//" + p.Dir + ":" + p.Name
	}
}
