package resolve

import (
	"fmt"

	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
)

// ToolNameForOutputType picks the tool whose outputs list computes this
// target's canonical output: linking types pick their matching C/Rust link
// tool, COPY_FILES uses copy, ACTION/ACTION_FOREACH use action, and group,
// source-set, bundle and generated-file types use the phony builtin (their
// dependency output file is a <name>.stamp path written by a phony
// statement); the stamp tool is never selected. Exported so internal/ninjawriter can pick
// the same rule for a target's final build statement without duplicating
// this switch.
func ToolNameForOutputType(t *graph.Target) tool.Name {
	switch t.OutputType {
	case graph.Executable:
		return tool.Link
	case graph.SharedLibrary:
		return tool.Solink
	case graph.LoadableModule:
		return tool.SolinkModule
	case graph.StaticLibrary:
		return tool.Alink
	case graph.RustLibrary, graph.RustProcMacro:
		return rustToolName(t)
	case graph.CopyFiles:
		return tool.Copy
	case graph.Action, graph.ActionForEach:
		return tool.Action
	default: // Group, SourceSet, BundleData, CreateBundle, GeneratedFile
		return tool.Phony
	}
}

func rustToolName(t *graph.Target) tool.Name {
	ct := graph.CrateRlib
	if t.Rust != nil {
		ct = t.Rust.CrateType
	}
	switch ct {
	case graph.CrateDylib:
		return tool.RustDylib
	case graph.CrateCdylib:
		return tool.RustCdylib
	case graph.CrateStaticlib:
		return tool.RustStaticlib
	case graph.CrateProcMacro:
		return tool.RustMacro
	case graph.CrateBin:
		return tool.RustBin
	default:
		return tool.RustRlib
	}
}

func baseSubstContext(t *graph.Target, outputDir, targetOutDir string) *subst.Context {
	c := subst.NewContext()
	c.Set(subst.TagLabel, subst.Scalar(t.Label.String()))
	c.Set(subst.TagLabelName, subst.Scalar(t.Label.Name.String()))
	c.Set(subst.TagTargetOutDir, subst.Scalar(targetOutDir))
	c.Set(subst.TagTargetOutputName, subst.Scalar(t.Label.Name.String()))
	c.Set(subst.TagOutputDir, subst.Scalar(outputDir))
	c.Set(subst.TagOutputExtension, subst.Scalar(""))
	return c
}

// computeOutputs implements pipeline step 5. For COPY_FILES/ACTION_FOREACH
// the tool's output pattern is expanded once per source; for every other
// type it is expanded once for the whole target.
func computeOutputs(t *graph.Target) error {
	if t.Toolchain == nil {
		return fmt.Errorf("target %s has no toolchain set; cannot compute outputs", t.Label)
	}
	name := ToolNameForOutputType(t)
	tl, ok := t.Toolchain.Tool(name)
	if !ok {
		return fmt.Errorf("toolchain %s has no tool named %q needed by %s", t.Toolchain.Label, name, t.Label)
	}

	targetOutDir := "obj/" + t.Label.Dir.String()
	outputDir := targetOutDir

	if t.OutputType == graph.CopyFiles || t.OutputType == graph.ActionForEach {
		var outs []paths.OutputFile
		for _, src := range t.Sources {
			c := baseSubstContext(t, outputDir, targetOutDir)
			c.Set(subst.TagSource, subst.Scalar(src.String()))
			c.Set(subst.TagSourceOutDir, subst.Scalar(targetOutDir))
			c.Set(subst.TagSourceNamePart, subst.Scalar(src.String()))
			c.Set(subst.TagSourceFilePart, subst.Scalar(src.String()))
			rendered, err := tl.Outputs().ExpandAll(c)
			if err != nil {
				return err
			}
			for _, r := range rendered {
				outs = append(outs, paths.NewOutputFile(r))
			}
		}
		t.ComputedOutputs = outs
	} else {
		c := baseSubstContext(t, outputDir, targetOutDir)
		rendered, err := tl.Outputs().ExpandAll(c)
		if err != nil {
			return err
		}
		outs := make([]paths.OutputFile, 0, len(rendered))
		for _, r := range rendered {
			outs = append(outs, paths.NewOutputFile(r))
		}
		t.ComputedOutputs = outs

		if ct, ok := tl.(*tool.CTool); ok && (name == tool.Solink || name == tool.SolinkModule) {
			if lo, err := ct.LinkOutput.Expand(c); err == nil {
				t.LinkOutputFile = paths.NewOutputFile(lo)
			}
		}
		rtOut, err := tl.RuntimeOutputs().ExpandAll(c)
		if err != nil {
			return err
		}
		for _, r := range rtOut {
			t.RuntimeOutputs = append(t.RuntimeOutputs, paths.NewOutputFile(r))
		}
	}

	if t.IsLinkable() && len(t.ComputedOutputs) > 0 {
		t.DependencyOutputFile = t.ComputedOutputs[0]
	} else {
		t.DependencyOutputFile = paths.NewOutputFile(targetOutDir + "/" + t.Label.Name.String() + ".stamp")
	}
	return nil
}

// lowerSwift implements pipeline step 6: if the target carries a
// SwiftValues payload, allocate one partial object file per Swift source;
// the tool's own output declarations are not consulted. Targets with no
// SwiftValues payload are left untouched.
func lowerSwift(t *graph.Target) {
	if t.Swift == nil {
		return
	}
	targetOutDir := "obj/" + t.Label.Dir.String()
	for _, src := range t.Sources {
		if src.Type() != paths.Swift {
			continue
		}
		partial := paths.NewOutputFile(targetOutDir + "/" + src.String() + ".o")
		t.ComputedOutputs = append(t.ComputedOutputs, partial)
	}
}
