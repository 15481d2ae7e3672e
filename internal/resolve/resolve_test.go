package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

type stubSink struct {
	warnings []error
}

func (s *stubSink) Warn(err error) { s.warnings = append(s.warnings, err) }
func (s *stubSink) RegisterWriteRuntimeDeps(root, outputs string) {}

func newTestContext() (*Context, *stubSink) {
	sink := &stubSink{}
	return &Context{BuildDir: "out/Default", Outputs: NewOutputRegistry(), Sink: sink}, sink
}

func groupToolchain() *toolchain.Toolchain {
	tc := toolchain.New(label.DefaultToolchain)
	return tc
}

func TestResolveGroupComputesStampOutput(t *testing.T) {
	tc := groupToolchain()
	tgt := graph.New(label.MustParse("//:root", ""), graph.Group)
	tgt.Toolchain = tc

	ctx, _ := newTestContext()
	err := Resolve(tgt, ctx)
	assert.NoError(t, err)
	assert.True(t, tgt.Resolved())
	assert.Equal(t, "obj/root.stamp", tgt.DependencyOutputFile.String())
}

func TestMergeConfigsCrossToolchainPropagation(t *testing.T) {
	tcDefault := toolchain.New(label.DefaultToolchain)
	other := label.MustParse("//tc:other", "")

	cfg := config.New(label.MustParse("//b:conf", ""))
	cfg.Own.Defines = []string{"FOO=1"}

	bOther := graph.New(label.NewWithToolchain("b", "b", other), graph.StaticLibrary)
	bOther.PublicConfigs = []graph.ConfigDep{{Label: cfg.Label, Config: cfg}}

	a := graph.New(label.MustParse("//a:a", ""), graph.Executable)
	a.Toolchain = tcDefault
	a.PublicDeps = []graph.TargetDep{{Label: bOther.Label, Target: bOther}}

	// propagates_configs=false: //b:conf should NOT show up in a.Configs.
	tcOther := toolchain.New(other)
	tcOther.PropagatesConfigs = false
	bOther.Toolchain = tcOther
	mergeConfigs(a)
	for _, cd := range a.Configs {
		assert.NotEqual(t, cfg.Label, cd.Label)
	}

	// propagates_configs=true: it should.
	a.Configs = nil
	tcOther.PropagatesConfigs = true
	mergeConfigs(a)
	found := false
	for _, cd := range a.Configs {
		if cd.Label == cfg.Label {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMergeConfigsDoesNotLeakThroughDataOrGenDeps(t *testing.T) {
	tcDefault := toolchain.New(label.DefaultToolchain)

	cfg := config.New(label.MustParse("//b:conf", ""))
	cfg.Own.Defines = []string{"FOO=1"}

	b := graph.New(label.MustParse("//b:b", ""), graph.StaticLibrary)
	b.Toolchain = tcDefault
	b.PublicConfigs = []graph.ConfigDep{{Label: cfg.Label, Config: cfg}}

	a := graph.New(label.MustParse("//a:a", ""), graph.Executable)
	a.Toolchain = tcDefault
	a.DataDeps = []graph.TargetDep{{Label: b.Label, Target: b}}
	a.GenDeps = []graph.TargetDep{{Label: b.Label, Target: b}}

	mergeConfigs(a)
	for _, cd := range a.Configs {
		assert.NotEqual(t, cfg.Label, cd.Label)
	}
}

func TestCheckVisibilityViolation(t *testing.T) {
	dep := graph.New(label.MustParse("//lib:internal", ""), graph.StaticLibrary)
	set, _ := label.ParseSet([]string{"//lib/*"}, "")
	dep.Visibility = set

	user := graph.New(label.MustParse("//app:app", ""), graph.Executable)
	user.PrivateDeps = []graph.TargetDep{{Label: dep.Label, Target: dep}}

	err := checkVisibility(user)
	assert.Error(t, err)
	var vErr *VisibilityViolationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCheckTestonlyViolation(t *testing.T) {
	a := graph.New(label.MustParse("//a:a", ""), graph.StaticLibrary)
	a.TestOnly = true
	b := graph.New(label.MustParse("//b:b", ""), graph.Executable)
	b.TestOnly = false
	b.PrivateDeps = []graph.TargetDep{{Label: a.Label, Target: a}}

	err := checkTestonly(b)
	assert.Error(t, err)
	var tErr *TestonlyViolationError
	assert.ErrorAs(t, err, &tErr)
}

func TestAssertNoDepsTriangle(t *testing.T) {
	forbidden := graph.New(label.MustParse("//forbidden:x", ""), graph.StaticLibrary)
	b := graph.New(label.MustParse("//b:b", ""), graph.StaticLibrary)
	b.PrivateDeps = []graph.TargetDep{{Label: forbidden.Label, Target: forbidden}}
	a := graph.New(label.MustParse("//a:a", ""), graph.StaticLibrary)
	a.PrivateDeps = []graph.TargetDep{{Label: b.Label, Target: b}}
	pat, _ := label.ParsePattern("//forbidden/*", "")
	a.AssertNoDeps = label.Set{pat}

	err := checkAssertNoDeps(a)
	assert.Error(t, err)
	var aErr *AssertNoDepsViolationError
	assert.ErrorAs(t, err, &aErr)
	assert.Equal(t, "//forbidden:x", aErr.Path[len(aErr.Path)-1].String())
}

func TestDuplicateOutputDetected(t *testing.T) {
	reg := NewOutputRegistry()
	l1 := label.MustParse("//a:gen1", "")
	l2 := label.MustParse("//a:gen2", "")
	assert.NoError(t, reg.Register("gen/x.txt", l1))
	err := reg.Register("gen/x.txt", l2)
	assert.Error(t, err)
	var dErr *DuplicateOutputError
	assert.ErrorAs(t, err, &dErr)
}

func TestBundleDataPropagationSkipsNonTransparentBundle(t *testing.T) {
	leaf := graph.New(label.MustParse("//assets:img", ""), graph.BundleData)
	leaf.Sources = []paths.SourceFile{paths.NewSourceFile("//assets/img.png", nil)}

	innerBundle := graph.New(label.MustParse("//inner:bundle", ""), graph.CreateBundle)
	innerBundle.Bundle = &graph.BundleValues{Transparent: false}
	innerBundle.PrivateDeps = []graph.TargetDep{{Label: leaf.Label, Target: leaf}}

	outer := graph.New(label.MustParse("//outer:bundle", ""), graph.CreateBundle)
	outer.PrivateDeps = []graph.TargetDep{{Label: innerBundle.Label, Target: innerBundle}}

	propagateBundleData(outer)
	assert.Empty(t, outer.Bundle.Inputs)
}

func TestBundleDataPropagationCrossesTransparentBundle(t *testing.T) {
	leaf := graph.New(label.MustParse("//assets:img", ""), graph.BundleData)
	leaf.Sources = []paths.SourceFile{paths.NewSourceFile("//assets/img.png", nil)}

	innerBundle := graph.New(label.MustParse("//inner:bundle", ""), graph.CreateBundle)
	innerBundle.Bundle = &graph.BundleValues{Transparent: true}
	innerBundle.PrivateDeps = []graph.TargetDep{{Label: leaf.Label, Target: leaf}}

	outer := graph.New(label.MustParse("//outer:bundle", ""), graph.CreateBundle)
	outer.PrivateDeps = []graph.TargetDep{{Label: innerBundle.Label, Target: innerBundle}}

	propagateBundleData(outer)
	assert.Len(t, outer.Bundle.Inputs, 1)
	assert.Equal(t, "//assets/img.png", outer.Bundle.Inputs[0].String())
}

func TestCheckSourcesGeneratedWarnsOnUnknownInput(t *testing.T) {
	ctx, sink := newTestContext()
	tgt := graph.New(label.MustParse("//a:a", ""), graph.StaticLibrary)
	tgt.Sources = []paths.SourceFile{paths.NewSourceFile("//out/Default/gen/missing.h", nil)}

	checkSourcesGenerated(tgt, ctx)
	assert.Len(t, sink.warnings, 1)
}

func TestCheckSourcesGeneratedSatisfiedByDep(t *testing.T) {
	ctx, sink := newTestContext()
	dep := graph.New(label.MustParse("//gen:g", ""), graph.GeneratedFile)
	dep.ComputedOutputs = []paths.OutputFile{paths.NewOutputFile("gen/present.h")}

	tgt := graph.New(label.MustParse("//a:a", ""), graph.StaticLibrary)
	tgt.PrivateDeps = []graph.TargetDep{{Label: dep.Label, Target: dep}}
	tgt.Sources = []paths.SourceFile{paths.NewSourceFile("//out/Default/gen/present.h", nil)}

	checkSourcesGenerated(tgt, ctx)
	assert.Empty(t, sink.warnings)
}

// Ensure the Tool interface extension (Outputs/RuntimeOutputs) is usable
// through the interface value, not just the concrete type, since
// computeOutputs looks tools up by name from the toolchain's map.
func TestToolInterfaceExposesOutputs(t *testing.T) {
	ct := tool.NewCTool(tool.CC)
	ct.SetOutputs(subst.List{})
	assert.NoError(t, ct.SetComplete())
	var tl tool.Tool = ct
	assert.True(t, tl.Outputs().IsEmpty())
}
