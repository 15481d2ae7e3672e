// Package checkincludes implements the "check-includes" public-header
// checker's output-filter contract: which targets are in scope for the
// check (per the dotfile's check_targets/no_check_targets and a
// target's own check_includes setting) and how a violation is reported.
// Actually parsing #include directives and matching them against the
// dependency graph is the part spec.md §1 names as an explicit non-goal
// (specified interface, unspecified algorithm) - this package owns the
// scope filter and the Violation shape, and calls out to a pluggable
// IncludeScanner for the source-scanning step itself.
package checkincludes

import "github.com/thought-machine/ninjagraph/internal/label"

// Violation is one disallowed #include: fromFile (in fromTarget) names
// a header that belongs to toTarget, which fromTarget does not have a
// public (or any) dependency path to.
type Violation struct {
	FromTarget label.Label
	FromFile   string
	Include    string
	ToTarget   label.Label
	Reason     string
}

// InScope decides whether target is subject to the check at all, per
// spec.md §6's check_targets/no_check_targets dotfile keys (mutually
// exclusive: check_targets is an allow-list, no_check_targets is a
// deny-list; neither set means every target is in scope) and the
// target's own check_includes flag.
func InScope(target label.Label, checkIncludes bool, checkTargets, noCheckTargets []label.Pattern) bool {
	if !checkIncludes {
		return false
	}
	if len(checkTargets) > 0 {
		return matchesAny(target, checkTargets)
	}
	if len(noCheckTargets) > 0 {
		return !matchesAny(target, noCheckTargets)
	}
	return true
}

func matchesAny(target label.Label, patterns []label.Pattern) bool {
	for _, p := range patterns {
		if p.Matches(target) {
			return true
		}
	}
	return false
}

// IncludeScanner reads one source file's #include directives and returns
// each one with its line number. It does not resolve an include to a
// target or decide whether that dependency is allowed. The scan and
// resolution algorithm belongs to the caller; this package only filters
// and reports the result.
type IncludeScanner func(file string) ([]IncludeRef, error)

// IncludeRef is one #include line a scanner found, not yet checked
// against the dependency graph.
type IncludeRef struct {
	Line    int
	Include string
}

// Allowed decides whether fromTarget may include a header owned by
// toTarget: allowed if they're the same target, or toTarget appears in
// allowedDeps (the transitive public-dependency closure the caller
// computed from the resolved graph).
func Allowed(fromTarget, toTarget label.Label, allowedDeps map[label.Label]bool) bool {
	if fromTarget == toTarget {
		return true
	}
	return allowedDeps[toTarget]
}

// Check scans every file in files (each belonging to fromTarget) with
// scan, and reports a Violation for every resolved include whose owning
// target is not in allowedDeps. resolveOwner maps an #include's
// resolved path back to the target that owns the header, or ("", false)
// if the header isn't owned by any target this checker knows about (in
// which case it's skipped, not reported).
func Check(fromTarget label.Label, files []string, scan IncludeScanner, resolveOwner func(include string) (label.Label, bool), allowedDeps map[label.Label]bool) ([]Violation, error) {
	var violations []Violation
	for _, f := range files {
		refs, err := scan(f)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			owner, ok := resolveOwner(ref.Include)
			if !ok {
				continue
			}
			if Allowed(fromTarget, owner, allowedDeps) {
				continue
			}
			violations = append(violations, Violation{
				FromTarget: fromTarget,
				FromFile:   f,
				Include:    ref.Include,
				ToTarget:   owner,
				Reason:     "no public dependency path from " + fromTarget.String() + " to " + owner.String(),
			})
		}
	}
	return violations, nil
}
