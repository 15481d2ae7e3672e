package resolve

import (
	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/graph"
)

// mergeConfigs implements pipeline step 1: concatenate all_dependent_configs
// of every dep (filtered by cross-toolchain propagates_configs), then
// public_configs of every dep, then the target's own public_configs. The
// result becomes part of t.Configs so step 2 (visibility) and step 5
// (resolved values) see the full set.
func mergeConfigs(t *graph.Target) {
	var merged []graph.ConfigDep

	sameToolchain := func(dep graph.TargetDep) bool {
		return dep.Target.Label.Toolchain() == t.Label.Toolchain()
	}
	propagates := func(dep graph.TargetDep) bool {
		if sameToolchain(dep) {
			return true
		}
		return dep.Target.Toolchain != nil && dep.Target.Toolchain.PropagatesConfigs
	}

	for _, dep := range t.LinkDeps() {
		if dep.Target == nil || !propagates(dep) {
			continue
		}
		merged = append(merged, dep.Target.AllDependentConfigs...)
	}
	for _, dep := range t.LinkDeps() {
		if dep.Target == nil || !propagates(dep) {
			continue
		}
		merged = append(merged, dep.Target.PublicConfigs...)
	}
	merged = append(merged, t.PublicConfigs...)

	t.Configs = append(merged, t.Configs...)
}

// checkConfigVisibility implements step 2: every config pulled in via
// configs/public_configs/all_dependent_configs must be visible to t's label.
func checkConfigVisibility(t *graph.Target) error {
	all := append(append(append([]graph.ConfigDep{}, t.Configs...), t.PublicConfigs...), t.AllDependentConfigs...)
	for _, cd := range all {
		if cd.Config == nil {
			continue
		}
		if err := cd.Config.CheckVisibility(t.Label); err != nil {
			return &VisibilityViolationError{Reader: t.Label, Target: cd.Label}
		}
	}
	return nil
}

// resolveConfigValues computes t.ResolvedConfigValues: every attached
// config's transitive values, in configs-list order, followed by t's own
// values - the same in-order, duplicate-preserving concatenation spec.md
// §4.4 describes for config-to-config resolution, applied one level up at
// the target.
func resolveConfigValues(t *graph.Target) error {
	var final config.Values
	for _, cd := range t.Configs {
		if cd.Config == nil {
			continue
		}
		v, err := cd.Config.Resolve()
		if err != nil {
			return err
		}
		final.Append(v)
	}
	final.Append(t.Own)
	t.ResolvedConfigValues = final
	return nil
}
