package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/label"
)

func TestAddTargetAndLookup(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//foo:bar", "")
	tgt := New(l, Executable)
	g.AddTarget(tgt)

	assert.Equal(t, tgt, g.Target(l))
	assert.Nil(t, g.Target(label.MustParse("//foo:missing", "")))
}

func TestAddTargetPanicsOnDuplicate(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//foo:bar", "")
	g.AddTarget(New(l, Group))
	assert.Panics(t, func() {
		g.AddTarget(New(l, Group))
	})
}

func TestAllTargetsSortedByLabel(t *testing.T) {
	g := NewBuildGraph()
	g.AddTarget(New(label.MustParse("//z:z", ""), Group))
	g.AddTarget(New(label.MustParse("//a:a", ""), Group))
	g.AddTarget(New(label.MustParse("//m:m", ""), Group))

	all := g.AllTargets()
	assert.Len(t, all, 3)
	assert.Equal(t, "//a:a", all[0].Label.String())
	assert.Equal(t, "//m:m", all[1].Label.String())
	assert.Equal(t, "//z:z", all[2].Label.String())
}

func TestAllDepsOrdering(t *testing.T) {
	priv := TargetDep{Label: label.MustParse("//a:priv", "")}
	pub := TargetDep{Label: label.MustParse("//a:pub", "")}
	data := TargetDep{Label: label.MustParse("//a:data", "")}
	gen := TargetDep{Label: label.MustParse("//a:gen", "")}
	tgt := New(label.MustParse("//a:a", ""), Group)
	tgt.PrivateDeps = []TargetDep{priv}
	tgt.PublicDeps = []TargetDep{pub}
	tgt.DataDeps = []TargetDep{data}
	tgt.GenDeps = []TargetDep{gen}

	all := tgt.AllDeps()
	assert.Equal(t, []TargetDep{priv, pub, data, gen}, all)

	linkOnly := tgt.LinkDeps()
	assert.Equal(t, []TargetDep{priv, pub}, linkOnly)
}

func TestIsLinkable(t *testing.T) {
	assert.True(t, New(label.MustParse("//a:a", ""), Executable).IsLinkable())
	assert.False(t, New(label.MustParse("//a:a", ""), Group).IsLinkable())
	assert.False(t, New(label.MustParse("//a:a", ""), Action).IsLinkable())
}

func TestConfigRoundTrip(t *testing.T) {
	g := NewBuildGraph()
	l := label.MustParse("//build/config:cfg", "")
	c := config.New(l)
	g.AddConfig(c)
	assert.Equal(t, c, g.Config(l))
}
