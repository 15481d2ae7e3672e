package subst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePatternSegments(t *testing.T) {
	p, err := ParsePattern("gcc -c {{source}} -o {{output}}")
	assert.NoError(t, err)
	assert.Len(t, p.Segments, 4)
	assert.Equal(t, "gcc -c ", p.Segments[0].Literal)
	assert.True(t, p.Segments[1].IsTag)
	assert.Equal(t, TagSource, p.Segments[1].Tag)
	assert.True(t, p.Required.Has(TagSource))
	assert.True(t, p.Required.Has(TagOutput))
	assert.False(t, p.Required.Has(TagLibs))
}

func TestParsePatternRejectsUnknownTag(t *testing.T) {
	_, err := ParsePattern("{{nonsense}}")
	assert.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestValidateDomainRejectsForbiddenTag(t *testing.T) {
	p := MustParsePattern("{{libs}}")
	err := p.ValidateDomain(DomainCompile)
	assert.Error(t, err)
	assert.NoError(t, p.ValidateDomain(DomainLink))
}

func TestExpandWalksSegmentsLinearly(t *testing.T) {
	p := MustParsePattern("gcc -c {{source}} -o {{output}}")
	ctx := NewContext()
	ctx.Set(TagSource, Scalar("foo.cc"))
	ctx.Set(TagOutput, Scalar("foo.o"))
	out, err := p.Expand(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "gcc -c foo.cc -o foo.o", out)
}

func TestExpandMissingValueErrors(t *testing.T) {
	p := MustParsePattern("{{source}}")
	_, err := p.Expand(NewContext())
	assert.Error(t, err)
}

func TestExpandWithPrefixPerItem(t *testing.T) {
	p := MustParsePattern("ld {{libs}}")
	ctx := NewContext()
	ctx.Set(TagLibs, Value{Items: []string{"foo", "bar"}, Prefix: "-l"})
	out, err := p.Expand(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ld -lfoo -lbar", out)
}

func TestExpandPassThroughEmitsNinjaVariable(t *testing.T) {
	p := MustParsePattern("gcc -c {{source}} -o {{output}}")
	ctx := NewContext()
	ctx.MarkPassThrough(TagSource)
	ctx.MarkPassThrough(TagOutput)
	out, err := p.Expand(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "gcc -c ${source} -o ${output}", out)
}

func TestRequiredBitsetNeverLeavesPlaceholderUnexpanded(t *testing.T) {
	p := MustParsePattern("{{source}} {{defines}} {{output}}")
	ctx := NewContext()
	// Supply only the bits the pattern's own Required set names.
	if p.Required.Has(TagSource) {
		ctx.Set(TagSource, Scalar("a"))
	}
	if p.Required.Has(TagDefines) {
		ctx.Set(TagDefines, ValueList("X=1", "Y=2"))
	}
	if p.Required.Has(TagOutput) {
		ctx.Set(TagOutput, Scalar("b"))
	}
	out, err := p.Expand(ctx)
	assert.NoError(t, err)
	assert.NotContains(t, out, "{{")
}

func TestListExpandAll(t *testing.T) {
	l, err := ParseList([]string{"{{output_dir}}/{{label_name}}.o"})
	assert.NoError(t, err)
	ctx := NewContext()
	ctx.Set(TagOutputDir, Scalar("obj"))
	ctx.Set(TagLabelName, Scalar("foo"))
	out, err := l.ExpandAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"obj/foo.o"}, out)
}
