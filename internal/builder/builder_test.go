package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
)

func TestDeclareFiresImmediatelyWithNoDeps(t *testing.T) {
	var fired []label.Label
	b := New(func(item Item) { fired = append(fired, item.Target.Label) })

	l := label.MustParse("//a:a", "")
	tgt := graph.New(l, graph.Group)
	err := b.Declare(Item{Kind: TargetItem, Target: tgt}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []label.Label{l}, fired)
}

func TestDeclareWaitsForDependency(t *testing.T) {
	var fired []label.Label
	b := New(func(item Item) { fired = append(fired, item.label()) })

	a := label.MustParse("//a:a", "")
	dep := label.MustParse("//b:b", "")

	err := b.Declare(Item{Kind: TargetItem, Target: graph.New(a, graph.Group)}, []label.Label{dep})
	assert.NoError(t, err)
	assert.Empty(t, fired) // a is still pending on b

	err = b.Declare(Item{Kind: TargetItem, Target: graph.New(dep, graph.Group)}, nil)
	assert.NoError(t, err)
	// b fires immediately, and a fires as a result of b's declaration.
	assert.ElementsMatch(t, []label.Label{dep, a}, fired)
}

func TestDeclareRejectsDuplicate(t *testing.T) {
	b := New(func(Item) {})
	l := label.MustParse("//a:a", "")
	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(l, graph.Group)}, nil))
	err := b.Declare(Item{Kind: TargetItem, Target: graph.New(l, graph.Group)}, nil)
	assert.Error(t, err)
	var dup *DuplicateItemError
	assert.ErrorAs(t, err, &dup)
}

func TestDetectUnresolvedReference(t *testing.T) {
	b := New(func(Item) {})
	a := label.MustParse("//a:a", "")
	missing := label.MustParse("//b:missing", "")
	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(a, graph.Group)}, []label.Label{missing}))

	errs := b.DetectUnresolved()
	assert.Len(t, errs, 1)
	var unresolved *UnresolvedReferenceError
	assert.ErrorAs(t, errs[0], &unresolved)
	assert.Equal(t, missing, unresolved.Label)
}

func TestDetectDepCycle(t *testing.T) {
	b := New(func(Item) {})
	a := label.MustParse("//a:a", "")
	bl := label.MustParse("//b:b", "")

	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(a, graph.Group)}, []label.Label{bl}))
	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(bl, graph.Group)}, []label.Label{a}))

	errs := b.DetectUnresolved()
	assert.Len(t, errs, 1)
	var cycle *DepCycleError
	assert.ErrorAs(t, errs[0], &cycle)
}

func TestNoErrorsWhenEverythingResolves(t *testing.T) {
	b := New(func(Item) {})
	a := label.MustParse("//a:a", "")
	bl := label.MustParse("//b:b", "")
	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(bl, graph.Group)}, nil))
	assert.NoError(t, b.Declare(Item{Kind: TargetItem, Target: graph.New(a, graph.Group)}, []label.Label{bl}))

	assert.Empty(t, b.DetectUnresolved())
}
