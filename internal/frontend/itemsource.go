// Package frontend is the out-of-scope boundary named in spec.md §1: the
// actual dynamically-scoped target-definition language (think asp's
// participle-based parser and partial Python interpreter) is not part of
// this repository. What lives here is the narrow surface a real
// parser/evaluator would implement to post declarations to the Builder
// (ItemSource), plus a minimal literal-value scope reader - sufficient to
// evaluate the dotfile and args.gn, both of which spec.md §6 defines as
// "assignments only" languages with no function calls or control flow.
package frontend

import (
	"github.com/thought-machine/ninjagraph/internal/builder"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
)

// ItemSource is implemented by whatever evaluates one build file: once
// evaluation finishes it reports every Target/Config/Toolchain it declared
// (as Builder Items, to be posted via Builder.Declare) and every Pool it
// declared (registered directly on the BuildGraph, since pools carry no
// dependency references for the Builder to track).
type ItemSource interface {
	// Items returns each declared item paired with the labels it
	// references - the same (Item, deps) shape Builder.Declare expects.
	Items() []DeclaredItem

	// Pools returns every pool("name") { depth = N } block this file
	// declared.
	Pools() []*graph.Pool
}

// DeclaredItem pairs a Builder Item with the dependency labels that gate
// its readiness, exactly as Builder.Declare wants them.
type DeclaredItem struct {
	Item builder.Item
	Deps []label.Label
}
