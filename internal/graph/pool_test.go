package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thought-machine/ninjagraph/internal/label"
)

func TestAddPoolAndLookup(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//:link_pool", "")
	assert.NoError(t, g.AddPool(&Pool{Label: l, Depth: 4}))

	p, ok := g.Pool(l)
	assert.True(t, ok)
	assert.Equal(t, 4, p.Depth)
}

func TestAddPoolSameDepthIsIdempotent(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//:link_pool", "")
	assert.NoError(t, g.AddPool(&Pool{Label: l, Depth: 4}))
	assert.NoError(t, g.AddPool(&Pool{Label: l, Depth: 4}))
}

func TestAddPoolConflictingDepthErrors(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//:link_pool", "")
	assert.NoError(t, g.AddPool(&Pool{Label: l, Depth: 4}))
	err := g.AddPool(&Pool{Label: l, Depth: 8})
	assert.Error(t, err)
	var dup *DuplicatePoolError
	assert.ErrorAs(t, err, &dup)
}

func TestAllPoolsReturnsEverything(t *testing.T) {
	g := NewBuildGraph()
	a := label.MustParse("//:a", "")
	b := label.MustParse("//:b", "")
	assert.NoError(t, g.AddPool(&Pool{Label: a, Depth: 1}))
	assert.NoError(t, g.AddPool(&Pool{Label: b, Depth: 2}))
	assert.Len(t, g.AllPools(), 2)
}
