package resolve

import (
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/paths"
)

// propagateBundleData implements pipeline step 3: for CREATE_BUNDLE targets,
// walk the private+public dep closure collecting every reachable BUNDLE_DATA
// leaf, without crossing a non-transparent CREATE_BUNDLE (a transparent one
// continues the walk, since its own outputs flow through into the enclosing
// bundle rather than terminating propagation).
func propagateBundleData(t *graph.Target) {
	if t.OutputType != graph.CreateBundle {
		return
	}
	if t.Bundle == nil {
		t.Bundle = &graph.BundleValues{}
	}
	seen := map[*graph.Target]bool{t: true}
	var inputs []paths.SourceFile
	var walk func(dep graph.TargetDep)
	walk = func(dep graph.TargetDep) {
		sub := dep.Target
		if sub == nil || seen[sub] {
			return
		}
		seen[sub] = true
		switch sub.OutputType {
		case graph.BundleData:
			inputs = append(inputs, sub.Sources...)
			return
		case graph.CreateBundle:
			if sub.Bundle == nil || !sub.Bundle.Transparent {
				return // non-transparent create_bundle terminates the walk
			}
			// transparent: fall through and keep walking its own deps
		}
		for _, d := range sub.LinkDeps() {
			walk(d)
		}
	}
	for _, dep := range t.LinkDeps() {
		walk(dep)
	}
	t.Bundle.Inputs = inputs
}
