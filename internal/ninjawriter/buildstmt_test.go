package ninjawriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

func execToolchain(t *testing.T) *toolchain.Toolchain {
	t.Helper()
	tc := toolchain.New(label.DefaultToolchain)

	ccOutputs, err := subst.ParseList([]string{"{{source_out_dir}}/{{source_name_part}}.o"})
	require.NoError(t, err)
	cc := tool.NewCTool(tool.CC)
	cc.SetCommand(subst.MustParsePattern("cc {{defines}} {{include_dirs}} {{cflags}} -c {{source}} -o {{output}}"))
	cc.SetOutputs(ccOutputs)
	require.NoError(t, cc.SetComplete())
	require.NoError(t, tc.SetTool(cc))

	linkOutputs, err := subst.ParseList([]string{"{{target_out_dir}}/{{target_output_name}}"})
	require.NoError(t, err)
	link := tool.NewCTool(tool.Link)
	link.SetCommand(subst.MustParsePattern("cc {{inputs}} {{libs}} {{ldflags}} -o {{output}}"))
	link.SetOutputs(linkOutputs)
	require.NoError(t, link.SetComplete())
	require.NoError(t, tc.SetTool(link))

	return tc
}

func TestWriteBuildStatementsExecutableWithCompileAndLink(t *testing.T) {
	tc := execToolchain(t)
	target := graph.New(label.MustParse("//app:main", ""), graph.Executable)
	target.Toolchain = tc
	target.Sources = []paths.SourceFile{paths.NewSourceFile("//app/main.c", nil)}
	target.ResolvedConfigValues = config.Values{Defines: []string{"-DFOO"}, Libs: []string{"-lm"}}
	target.ComputedOutputs = []paths.OutputFile{paths.NewOutputFile("app/main")}
	target.DependencyOutputFile = paths.NewOutputFile("app/main")

	var b strings.Builder
	require.NoError(t, WriteBuildStatements(&b, target))
	out := b.String()

	assert.Contains(t, out, "build obj/app/main.o: cc app/main.c")
	assert.Contains(t, out, "defines = -DFOO")
	assert.Contains(t, out, "build app/main: link obj/app/main.o")
	assert.Contains(t, out, "libs = -lm")
}

func TestWriteBuildStatementsGroupIsPhony(t *testing.T) {
	tc := toolchain.New(label.DefaultToolchain)
	target := graph.New(label.MustParse("//app:all", ""), graph.Group)
	target.Toolchain = tc
	target.DependencyOutputFile = paths.NewOutputFile("app/all.stamp")
	dep := graph.New(label.MustParse("//app:main", ""), graph.Executable)
	dep.DependencyOutputFile = paths.NewOutputFile("app/main")
	target.PrivateDeps = []graph.TargetDep{{Label: dep.Label, Target: dep}}

	var b strings.Builder
	require.NoError(t, WriteBuildStatements(&b, target))
	out := b.String()
	assert.Contains(t, out, "build app/all.stamp: phony app/main")
}
