package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAbsolute(t *testing.T) {
	l, err := Parse("//foo/bar:baz", "")
	assert.NoError(t, err)
	assert.Equal(t, "foo/bar", l.Dir.String())
	assert.Equal(t, "baz", l.Name.String())
	assert.True(t, l.IsDefaultToolchain())
}

func TestParseImplicitName(t *testing.T) {
	l, err := Parse("//foo/bar", "")
	assert.NoError(t, err)
	assert.Equal(t, "foo/bar", l.Dir.String())
	assert.Equal(t, "bar", l.Name.String())
}

func TestParseRelative(t *testing.T) {
	l, err := Parse(":baz", "foo/bar")
	assert.NoError(t, err)
	assert.Equal(t, "foo/bar", l.Dir.String())
	assert.Equal(t, "baz", l.Name.String())
}

func TestParseWithToolchain(t *testing.T) {
	l, err := Parse("//foo:bar(//build/toolchain:clang)", "")
	assert.NoError(t, err)
	assert.Equal(t, "bar", l.Name.String())
	assert.False(t, l.IsDefaultToolchain())
	assert.Equal(t, "//build/toolchain:clang", l.Toolchain().String())
}

func TestStringElidesDefaultToolchain(t *testing.T) {
	l := New("foo", "bar")
	assert.Equal(t, "//foo:bar", l.String())
}

func TestStringKeepsNonDefaultToolchain(t *testing.T) {
	tc := MustParse("//build/toolchain:clang", "")
	l := NewWithToolchain("foo", "bar", tc)
	assert.Equal(t, "//foo:bar(//build/toolchain:clang)", l.String())
}

func TestVisibleNameElidesReaderToolchain(t *testing.T) {
	tc := MustParse("//build/toolchain:clang", "")
	l := NewWithToolchain("foo", "bar", tc)
	reader := NewWithToolchain("other", "thing", tc)
	assert.Equal(t, "//foo:bar", l.VisibleName(reader))
}

func TestDirWildcardPattern(t *testing.T) {
	p := MustParsePattern("//foo/*", "")
	assert.True(t, p.Matches(New("foo", "bar")))
	assert.True(t, p.Matches(New("foo/baz", "bar")))
	assert.False(t, p.Matches(New("other", "bar")))
}

func TestNameWildcardPattern(t *testing.T) {
	p := MustParsePattern("//foo:*", "")
	assert.True(t, p.Matches(New("foo", "bar")))
	assert.False(t, p.Matches(New("foo/baz", "bar")))
}

func TestExactPatternToolchainSensitive(t *testing.T) {
	tc := MustParse("//build/toolchain:clang", "")
	p := MustParsePattern("//foo:bar", "")
	assert.True(t, p.Matches(New("foo", "bar")))
	assert.False(t, p.Matches(NewWithToolchain("foo", "bar", tc)))
}

func TestSetMatchesUnion(t *testing.T) {
	set, err := ParseSet([]string{"//foo/*", "//bar:baz"}, "")
	assert.NoError(t, err)
	assert.True(t, set.Matches(New("foo/x", "y")))
	assert.True(t, set.Matches(New("bar", "baz")))
	assert.False(t, set.Matches(New("qux", "baz")))
}
