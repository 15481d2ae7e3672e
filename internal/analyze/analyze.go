// Package analyze implements the "analyze" mode's output-filter contract:
// given a set of changed files and a caller's compile/test target
// patterns, it reports which of those patterns are actually affected.
// The reachability walk over the resolved graph is the part spec.md §1
// names as an explicit non-goal (specified interface, unspecified
// algorithm) - this package owns the request/response shape and the
// result-status classification, and calls out to a pluggable Reachable
// function for the graph walk itself, the same split internal/frontend
// draws between declared-item plumbing and the language that produces it.
package analyze

// Status is the three-way verdict analyzer_unittest.cc's fixtures encode
// as a bare JSON string.
type Status string

const (
	// StatusFound means at least one requested target depends on at
	// least one changed file.
	StatusFound Status = "Found dependency"
	// StatusNone means none of the requested targets depend on any
	// changed file.
	StatusNone Status = "No dependency"
	// StatusAll means the analysis could not be narrowed - e.g. a
	// build file itself changed - so the caller should assume
	// everything is affected.
	StatusAll Status = "Found dependency (all)"
)

// Request is the analyze input: the files that changed, and the two
// target-pattern sets the caller wants classified against them, given
// as raw pattern strings exactly as GN's analyze.py JSON protocol
// passes them (a single entry of "all" means the whole graph).
type Request struct {
	Files                    []string
	TestTargets              []string
	AdditionalCompileTargets []string
}

// Result is the analyze output. Status summarises CompileTargets and
// TestTargets; InvalidTargets lists any requested pattern that does not
// resolve to a target in the graph at all.
type Result struct {
	Status         Status
	CompileTargets []string
	TestTargets    []string
	InvalidTargets []string
	Error          string
}

// Reachable reports whether the target pattern transitively depends on
// any of files. The actual dependency walk is supplied by the caller;
// this package only consumes its verdict and classifies the result.
type Reachable func(pattern string, files []string) (bool, error)

// Analyze classifies req.TestTargets and req.AdditionalCompileTargets
// against req.Files using reachable, and assembles the result in the
// same three-way shape GN's analyzer.cc reports. "all" is a special
// compile-target pattern meaning "the whole graph" and is never marked
// invalid or excluded regardless of what reachable would say.
func Analyze(req Request, reachable Reachable) (Result, error) {
	compileAffected, compileInvalid := classify(req.AdditionalCompileTargets, req.Files, reachable)
	testAffected, testInvalid := classify(req.TestTargets, req.Files, reachable)

	res := Result{
		CompileTargets: compileAffected,
		TestTargets:    testAffected,
		InvalidTargets: dedupeStrings(append(compileInvalid, testInvalid...)),
	}

	switch {
	case len(res.CompileTargets) == 0 && len(res.TestTargets) == 0:
		res.Status = StatusNone
	case hasAll(req.AdditionalCompileTargets):
		res.Status = StatusAll
	default:
		res.Status = StatusFound
	}
	return res, nil
}

func classify(patterns []string, files []string, reachable Reachable) ([]string, []string) {
	var affected, invalid []string
	for _, p := range patterns {
		if p == "all" {
			affected = append(affected, p)
			continue
		}
		ok, err := reachable(p, files)
		if err != nil {
			invalid = append(invalid, p)
			continue
		}
		if ok {
			affected = append(affected, p)
		}
	}
	return affected, invalid
}

func hasAll(patterns []string) bool {
	for _, p := range patterns {
		if p == "all" {
			return true
		}
	}
	return false
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
