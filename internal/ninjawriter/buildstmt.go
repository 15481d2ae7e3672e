package ninjawriter

import (
	"fmt"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/resolve"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
)

// compileValueContext binds the compile-domain tags (defines, include
// dirs, cflags family) from a target's resolved configuration values, with
// the switch prefixes a CTool declares (e.g. "-D"/"-I" are baked into the
// frontend's own flag strings, not synthesised here - please's cc_toolchain
// templates already write "-D" into each define string at parse time, so
// this mirrors that rather than re-deriving switches from the tool).
func compileValueContext(v config.Values) *subst.Context {
	c := subst.NewContext()
	c.Set(subst.TagDefines, subst.ValueList(v.Defines...))
	c.Set(subst.TagIncludeDirs, subst.ValueList(v.IncludeDirs...))
	c.Set(subst.TagCflags, subst.ValueList(v.Cflags...))
	c.Set(subst.TagCflagsC, subst.ValueList(v.CflagsC...))
	c.Set(subst.TagCflagsCC, subst.ValueList(v.CflagsCC...))
	return c
}

// linkValueContext binds the link-domain tags from resolved values plus
// the object/library inputs gathered for this target's link step.
func linkValueContext(v config.Values, inputs, solibs, rlibs []string) *subst.Context {
	c := subst.NewContext()
	c.Set(subst.TagInputs, subst.ValueList(inputs...))
	c.Set(subst.TagLibs, subst.ValueList(v.Libs...))
	c.Set(subst.TagLdflags, subst.ValueList(v.Ldflags...))
	c.Set(subst.TagSolibs, subst.ValueList(solibs...))
	c.Set(subst.TagRlibs, subst.ValueList(rlibs...))
	c.Set(subst.TagFrameworks, subst.ValueList(v.Frameworks...))
	c.Set(subst.TagFrameworkDirs, subst.ValueList(v.FrameworkDirs...))
	return c
}

func targetOutDirOf(t *graph.Target) string {
	if t.Label.Dir.IsEmpty() {
		return "obj"
	}
	return "obj/" + t.Label.Dir.String()
}

func alwaysContext(t *graph.Target, outputDir, targetOutDir string) *subst.Context {
	c := subst.NewContext()
	c.Set(subst.TagLabel, subst.Scalar(t.Label.String()))
	c.Set(subst.TagLabelName, subst.Scalar(t.Label.Name.String()))
	c.Set(subst.TagTargetOutDir, subst.Scalar(targetOutDir))
	c.Set(subst.TagTargetOutputName, subst.Scalar(t.Label.Name.String()))
	c.Set(subst.TagOutputDir, subst.Scalar(outputDir))
	c.Set(subst.TagOutputExtension, subst.Scalar(""))
	return c
}

// mergeInto copies every binding of src into dst, returning dst for chaining.
func mergeInto(dst, src *subst.Context) *subst.Context {
	for _, tag := range allTags {
		if v, ok := src.Value(tag); ok {
			dst.Set(tag, v)
		}
	}
	return dst
}

// compileSource expands a compile tool's output pattern and writes the
// `build <obj>: <rule> <source>` statement for one source file, returning
// the produced object's path so the caller can fold it into the link step.
func compileSource(b *strings.Builder, t *graph.Target, src paths.SourceFile) (string, tool.Name, error) {
	name, ok := tool.ToolNameForSourceType(src.Type().String())
	if !ok {
		return "", "", nil
	}
	tl, ok := t.Toolchain.Tool(name)
	if !ok {
		return "", "", fmt.Errorf("toolchain %s has no tool named %q to compile %s", t.Toolchain.Label, name, src)
	}

	targetOutDir := targetOutDirOf(t)
	ctx := alwaysContext(t, targetOutDir, targetOutDir)
	ctx.Set(subst.TagSource, subst.Scalar(src.String()))
	ctx.Set(subst.TagSourceOutDir, subst.Scalar(targetOutDir))
	ctx.Set(subst.TagSourceNamePart, subst.Scalar(stemOf(src.String())))
	ctx.Set(subst.TagSourceFilePart, subst.Scalar(src.String()))
	mergeInto(ctx, compileValueContext(t.ResolvedConfigValues))

	outs, err := tl.Outputs().ExpandAll(ctx)
	if err != nil {
		return "", "", err
	}
	if len(outs) == 0 {
		return "", "", fmt.Errorf("tool %q declares no outputs for %s", name, src)
	}
	obj := outs[0]

	fmt.Fprintf(b, "build %s: %s %s\n", EscapePath(obj), name, EscapePath(strings.TrimPrefix(src.String(), "//")))
	writeTargetVarBindings(b, ctx, subst.TagDefines, subst.TagIncludeDirs, subst.TagCflags, subst.TagCflagsC, subst.TagCflagsCC)
	b.WriteString("\n")
	return obj, name, nil
}

func stemOf(p string) string {
	base := p
	if i := strings.LastIndexByte(base, '/'); i != -1 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i != -1 {
		base = base[:i]
	}
	return base
}

// writeTargetVarBindings writes one `  tag_name = value` line per tag that
// has a non-empty binding in ctx, letting the rule's "${tag_name}" literal
// resolve per build statement the way Ninja expects.
func writeTargetVarBindings(b *strings.Builder, ctx *subst.Context, tags ...subst.Tag) {
	for _, tag := range tags {
		v, ok := ctx.Value(tag)
		if !ok {
			continue
		}
		rendered := v.Render()
		if rendered == "" {
			continue
		}
		fmt.Fprintf(b, "  %s = %s\n", tag.Name(), EscapeCommand(rendered))
	}
}

// WriteBuildStatements emits every build statement a target requires: one
// per compilable source, plus the target's own final statement using the
// tool resolve.ToolNameForOutputType selects. tool.Phony-backed types use
// Ninja's native phony syntax; tool.Action-backed types get an inline rule
// of their own, since their command is unique per target.
func WriteBuildStatements(b *strings.Builder, t *graph.Target) error {
	if t.Toolchain == nil {
		return fmt.Errorf("target %s has no resolved toolchain", t.Label)
	}

	var objs []string
	for _, src := range t.Sources {
		if src.Type() == paths.RS {
			continue // rust compiles per-crate, not per source file
		}
		obj, _, err := compileSource(b, t, src)
		if err != nil {
			return err
		}
		if obj != "" {
			objs = append(objs, obj)
		}
	}

	name := resolve.ToolNameForOutputType(t)
	switch name {
	case tool.Phony:
		return writePhonyStatement(b, t)
	case tool.Action:
		return writeActionStatement(b, t)
	default:
		return writeLinkStatement(b, t, name, objs)
	}
}

func writePhonyStatement(b *strings.Builder, t *graph.Target) error {
	deps := depOutputs(t)
	out := t.DependencyOutputFile.String()
	fmt.Fprintf(b, "build %s: phony %s\n\n", EscapePath(out), joinPaths(deps))
	return nil
}

func writeActionStatement(b *strings.Builder, t *graph.Target) error {
	if t.Action == nil {
		return fmt.Errorf("target %s is an action but has no ActionValues", t.Label)
	}
	ruleName := "action_" + sanitizePoolName(t.Label)
	cmd := strings.Join(append([]string{t.Action.Script.String()}, t.Action.Args...), " ")
	fmt.Fprintf(b, "rule %s\n  command = %s\n\n", ruleName, EscapeCommand(cmd))

	outs := make([]string, len(t.ComputedOutputs))
	for i, o := range t.ComputedOutputs {
		outs[i] = o.String()
	}
	ins := make([]string, len(t.Sources))
	for i, s := range t.Sources {
		ins[i] = s.String()
	}
	fmt.Fprintf(b, "build %s: %s %s\n", joinPaths(outs), ruleName, joinPaths(ins))
	if t.Action.Depfile != "" {
		fmt.Fprintf(b, "  depfile = %s\n", EscapePath(t.Action.Depfile))
	}
	b.WriteString("\n")
	return nil
}

func writeLinkStatement(b *strings.Builder, t *graph.Target, name tool.Name, objs []string) error {
	if _, ok := t.Toolchain.Tool(name); !ok {
		return fmt.Errorf("toolchain %s has no tool named %q for %s", t.Toolchain.Label, name, t.Label)
	}

	var solibs, rlibs []string
	var implicit []string
	for _, d := range t.LinkDeps() {
		if d.Target == nil {
			continue
		}
		switch d.Target.OutputType {
		case graph.SharedLibrary, graph.LoadableModule:
			solibs = append(solibs, d.Target.DependencyOutputFile.String())
		case graph.RustLibrary:
			rlibs = append(rlibs, d.Target.DependencyOutputFile.String())
		default:
			implicit = append(implicit, d.Target.DependencyOutputFile.String())
		}
	}

	targetOutDir := targetOutDirOf(t)
	ctx := alwaysContext(t, targetOutDir, targetOutDir)
	mergeInto(ctx, linkValueContext(t.ResolvedConfigValues, objs, solibs, rlibs))

	outs := make([]string, len(t.ComputedOutputs))
	for i, o := range t.ComputedOutputs {
		outs[i] = o.String()
	}

	inputs := append(append([]string{}, objs...), solibs...)
	inputs = append(inputs, rlibs...)

	line := fmt.Sprintf("build %s: %s %s", joinPaths(outs), name, joinPaths(inputs))
	if len(implicit) > 0 {
		line += " | " + joinPaths(implicit)
	}
	b.WriteString(line)
	b.WriteString("\n")
	writeTargetVarBindings(b, ctx, subst.TagLibs, subst.TagLdflags, subst.TagFrameworks, subst.TagFrameworkDirs)
	// A target's own Pool overrides whatever the tool itself declares.
	if !t.Pool.Name.IsEmpty() {
		fmt.Fprintf(b, "  pool = %s\n", poolNinjaName(t.Pool))
	}
	b.WriteString("\n")
	return nil
}

func depOutputs(t *graph.Target) []string {
	var outs []string
	for _, d := range t.AllDeps() {
		if d.Target == nil {
			continue
		}
		outs = append(outs, d.Target.DependencyOutputFile.String())
	}
	return outs
}
