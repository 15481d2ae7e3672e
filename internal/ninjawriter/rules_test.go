package ninjawriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

func mustComplete(t *testing.T, comp interface{ SetComplete() error }) {
	t.Helper()
	require.NoError(t, comp.SetComplete())
}

func TestWriteRulesEmitsGeneralToolStamp(t *testing.T) {
	tc := toolchain.New(label.DefaultToolchain)
	st := tool.NewGeneralTool(tool.Stamp)
	st.SetCommand(subst.MustParsePattern("touch {{output}}"))
	mustComplete(t, st)
	require.NoError(t, tc.SetTool(st))

	var b strings.Builder
	require.NoError(t, WriteRules(&b, tc))
	out := b.String()
	assert.Contains(t, out, "rule stamp\n")
	assert.Contains(t, out, "command = touch ${output}\n")
}

func TestWriteRulesEmitsCToolWithDepfileAndPool(t *testing.T) {
	tc := toolchain.New(label.DefaultToolchain)
	cc := tool.NewCTool(tool.CC)
	cc.SetCommand(subst.MustParsePattern("cc -c {{source}} -o {{output}}"))
	cc.SetDepfile(subst.MustParsePattern("{{output}}.d"))
	cc.DepsFormat = tool.DepsGCC
	cc.SetPool(label.MustParse("//:compile_pool", ""))
	mustComplete(t, cc)
	require.NoError(t, tc.SetTool(cc))

	var b strings.Builder
	require.NoError(t, WriteRules(&b, tc))
	out := b.String()
	assert.Contains(t, out, "rule cc\n")
	assert.Contains(t, out, "depfile = ${output}.d\n")
	assert.Contains(t, out, "deps = gcc\n")
	assert.Contains(t, out, "pool = compile_pool\n")
}

func TestWriteRulesSkipsActionAndPhony(t *testing.T) {
	tc := toolchain.New(label.DefaultToolchain)
	act := tool.NewGeneralTool(tool.Action)
	act.SetCommand(subst.MustParsePattern("{{label}}"))
	mustComplete(t, act)
	require.NoError(t, tc.SetTool(act))

	var b strings.Builder
	require.NoError(t, WriteRules(&b, tc))
	out := b.String()
	assert.NotContains(t, out, "rule action")
	assert.NotContains(t, out, "rule phony")
}

func TestWriteRulesEscapesDollarInCommand(t *testing.T) {
	tc := toolchain.New(label.DefaultToolchain)
	cp := tool.NewGeneralTool(tool.Copy)
	cp.SetCommand(subst.MustParsePattern("cp $FOO {{source}} {{output}}"))
	mustComplete(t, cp)
	require.NoError(t, tc.SetTool(cp))

	var b strings.Builder
	require.NoError(t, WriteRules(&b, tc))
	assert.Contains(t, b.String(), "cp $$FOO ${source} ${output}")
}
