package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDirNormalizesDotComponents(t *testing.T) {
	d := NewSourceDir("//foo/./bar/../baz/", nil)
	assert.Equal(t, "//foo/baz/", d.String())
}

func TestSourceFileNeverEndsInSlash(t *testing.T) {
	f := NewSourceFile("//foo/bar.cc", nil)
	assert.Equal(t, "//foo/bar.cc", f.String())
}

func TestSourceDirAlwaysEndsInSlash(t *testing.T) {
	d := NewSourceDir("//foo/bar", nil)
	assert.Equal(t, "//foo/bar/", d.String())
}

func TestAliasTableRemapsSourceToActual(t *testing.T) {
	tbl := NewAliasTable(
		AliasEntry{SourcePrefix: "foo", ActualPrefix: "vendor/foo-actual"},
		AliasEntry{SourcePrefix: "", ActualPrefix: ""},
	)
	assert.Equal(t, "vendor/foo-actual/bar.cc", tbl.ToActual("//foo/bar.cc"))
}

func TestAliasTableRoundTrip(t *testing.T) {
	tbl := NewAliasTable(
		AliasEntry{SourcePrefix: "third_party/foo", ActualPrefix: "external/foo"},
	)
	for _, p := range []string{"//third_party/foo/bar.cc", "//third_party/foo/baz/qux.h"} {
		actual := tbl.ToActual(p)
		back := tbl.ToSource(actual)
		assert.Equal(t, p, back)
	}
}

func TestAliasTableFirstMatchWins(t *testing.T) {
	tbl := NewAliasTable(
		AliasEntry{SourcePrefix: "foo", ActualPrefix: "actual-foo"},
		AliasEntry{SourcePrefix: "foo/bar", ActualPrefix: "actual-foobar"},
	)
	// Front-to-back: the first listed matching prefix wins, even if a more
	// specific one is listed later.
	assert.Equal(t, "actual-foo/bar/baz.cc", tbl.ToActual("//foo/bar/baz.cc"))
}

func TestClassifyExtension(t *testing.T) {
	cases := map[string]FileType{
		"foo.c":           C,
		"foo.cc":          CPP,
		"foo.cpp":         CPP,
		"foo.h":           H,
		"foo.m":           M,
		"foo.mm":          MM,
		"foo.o":           O,
		"foo.s":           S,
		"foo.rc":          RC,
		"foo.rs":          RS,
		"foo.go":          GO,
		"foo.swift":       Swift,
		"foo.swiftmodule": SwiftModule,
		"foo.modulemap":   ModuleMap,
		"foo.def":         Def,
		"foo.unknown":     Unknown,
		"foo":             Unknown,
		"foo.":            Unknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyExtension(name), "for %s", name)
	}
}

func TestFileSetDedupsByContent(t *testing.T) {
	s := NewFileSet()
	assert.True(t, s.Add(NewSourceFile("//a.cc", nil)))
	assert.False(t, s.Add(NewSourceFile("//a.cc", nil)))
	assert.True(t, s.Add(NewSourceFile("//b.cc", nil)))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.ContainsString("//a.cc"))
}

func TestOutputFileRoundTrip(t *testing.T) {
	f := NewSourceFile("//plz-out/gen/foo/bar.txt", nil)
	o := FromSourceFile(f, "plz-out")
	assert.Equal(t, "gen/foo/bar.txt", o.String())
	back := o.ToSourceFile("plz-out", nil)
	assert.Equal(t, f.String(), back.String())
}
