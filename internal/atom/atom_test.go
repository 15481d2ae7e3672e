package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternDeduplicates(t *testing.T) {
	var p Pool
	a := p.Intern("//src/core:core")
	b := p.Intern("//src/core:core")
	assert.True(t, a.Same(b))
	assert.Equal(t, a, b)
	assert.Equal(t, 1, p.Len())
}

func TestInternDistinctStrings(t *testing.T) {
	var p Pool
	a := p.Intern("foo")
	b := p.Intern("bar")
	assert.False(t, a.Same(b))
	assert.NotEqual(t, a, b)
}

func TestEmptyAtom(t *testing.T) {
	var p Pool
	e := p.Intern("")
	assert.True(t, e.IsEmpty())
	assert.True(t, e.Same(Empty))
	assert.Equal(t, "", e.String())
}

func TestInternEqualityIffContentEqual(t *testing.T) {
	var p Pool
	strs := []string{"a", "b", "a", "abc", "ab", "abc"}
	atoms := make([]Atom, len(strs))
	for i, s := range strs {
		atoms[i] = p.Intern(s)
	}
	for i := range strs {
		for j := range strs {
			want := strs[i] == strs[j]
			got := atoms[i] == atoms[j]
			assert.Equal(t, want, got, "strs[%d]=%q strs[%d]=%q", i, strs[i], j, strs[j])
		}
	}
}

func TestSetOrderingAndDedup(t *testing.T) {
	var p Pool
	s := NewSet()
	assert.True(t, s.Add(p.Intern("z")))
	assert.True(t, s.Add(p.Intern("a")))
	assert.False(t, s.Add(p.Intern("z")))
	assert.Equal(t, 2, s.Len())
	items := s.Items()
	assert.Equal(t, "z", items[0].String())
	assert.Equal(t, "a", items[1].String())
	assert.True(t, s.Contains(p.Intern("a")))
}
