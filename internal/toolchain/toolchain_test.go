package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
)

func TestNewInsertsPhonyBuiltin(t *testing.T) {
	tc := New(label.DefaultToolchain)
	phony, ok := tc.Tool(tool.Phony)
	assert.True(t, ok)
	assert.True(t, phony.Complete())
}

func TestSetToolRejectsDuplicate(t *testing.T) {
	tc := New(label.DefaultToolchain)
	cc := tool.NewCTool(tool.CC)
	cc.SetOutputs(subst.List{})
	assert.NoError(t, tc.SetTool(cc))

	cc2 := tool.NewCTool(tool.CC)
	cc2.SetOutputs(subst.List{})
	err := tc.SetTool(cc2)
	assert.Error(t, err)
}

func TestSetupCompleteMergesBits(t *testing.T) {
	tc := New(label.DefaultToolchain)
	cc := tool.NewCTool(tool.CC)
	cc.SetCommand(subst.MustParsePattern("gcc -c {{source}} -o {{output}}"))
	cc.SetOutputs(subst.List{})
	assert.NoError(t, tc.SetTool(cc))
	assert.NoError(t, tc.SetupComplete())
	bits := tc.RequiredBits()
	assert.True(t, bits.Has(subst.TagSource))
	assert.True(t, bits.Has(subst.TagOutput))
}

func TestSubDirElidedForDefaultToolchain(t *testing.T) {
	tc := New(label.DefaultToolchain)
	assert.Equal(t, "", tc.SubDir())

	other := New(label.MustParse("//build/toolchain:clang", ""))
	assert.Equal(t, "clang", other.SubDir())
}
