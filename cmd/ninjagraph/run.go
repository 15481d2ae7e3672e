package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/frontend"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/ninjawriter"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// Run drains the Scheduler, then - if nothing failed - writes every
// toolchain's rule file, the top-level build.ninja/.d/.stamp, and
// (when requested) rust-project.json. It mirrors please's own
// Setup -> build -> output pipeline (src/please.go's execute()), just
// with a ninja plan instead of an executed build as the final artefact.
func Run(d *Driver) error {
	cliArgs, err := persistArgsFile(d)
	if err != nil {
		return err
	}
	d.Loader.LoadToolchain(defaultToolchainStub(), cliArgs)

	if err := d.Scheduler.Run(); err != nil {
		return err
	}

	unresolved := d.Builder.DetectUnresolved()
	if len(unresolved) > 0 {
		var b strings.Builder
		for _, e := range unresolved {
			fmt.Fprintln(&b, e)
		}
		return fmt.Errorf("unresolved references:\n%s", b.String())
	}

	toolchains := distinctToolchains(d.Graph.AllTargets())
	for _, tc := range toolchains {
		var b strings.Builder
		if err := ninjawriter.WriteRules(&b, tc); err != nil {
			return fmt.Errorf("writing rules for toolchain %s: %w", tc.Label, err)
		}
		for _, t := range d.Graph.AllTargets() {
			if t.Toolchain != tc {
				continue
			}
			if err := ninjawriter.WriteBuildStatements(&b, t); err != nil {
				return fmt.Errorf("writing build statements for %s: %w", t.Label, err)
			}
		}
		path := ninjawriter.ToolchainFilePath(d.BuildDir, tc.Label)
		if err := ninjawriter.WriteFileIfChanged(path, []byte(b.String())); err != nil {
			return err
		}
		d.Scheduler.RecordWrittenFile(path)
	}

	coord := &ninjawriter.Coordinator{
		Graph:                d.Graph,
		BuildDir:             d.BuildDir,
		NinjaRequiredVersion: d.Dotfile.NinjaRequiredVersion,
		SelfInvocation:       d.SelfInvoke,
		InputFiles:           append(d.Loader.LoadedFiles(), d.Scheduler.GenDependencyFiles()...),
	}
	top, err := coord.WriteTopLevel()
	if err != nil {
		return err
	}
	ninjaPath := d.BuildDir + "/build.ninja"
	depfilePath := d.BuildDir + "/build.ninja.d"
	stampPath := d.BuildDir + "/build.ninja.stamp"
	if err := ninjawriter.WriteFileIfChanged(ninjaPath, []byte(top.Ninja)); err != nil {
		return err
	}
	if err := ninjawriter.WriteFileIfChanged(depfilePath, []byte(top.Depfile)); err != nil {
		return err
	}
	if err := ninjawriter.WriteFileIfChanged(stampPath, []byte{}); err != nil {
		return err
	}
	d.Scheduler.RecordWrittenFile(ninjaPath)
	d.Scheduler.RecordWrittenFile(depfilePath)
	d.Scheduler.RecordWrittenFile(stampPath)

	if opts.RustProject {
		rp, err := ninjawriter.WriteRustProject(d.Graph.AllTargets())
		if err != nil {
			return err
		}
		rpPath := d.BuildDir + "/rust-project.json"
		if err := ninjawriter.WriteFileIfChanged(rpPath, rp); err != nil {
			return err
		}
		d.Scheduler.RecordWrittenFile(rpPath)
	}

	for _, w := range d.Scheduler.UnknownGeneratedInputs() {
		log.Warning(w)
	}
	return nil
}

func distinctToolchains(targets []*graph.Target) []*toolchain.Toolchain {
	seen := map[label.Label]*toolchain.Toolchain{}
	for _, t := range targets {
		if t.Toolchain != nil {
			seen[t.Toolchain.Label] = t.Toolchain
		}
	}
	out := make([]*toolchain.Toolchain, 0, len(seen))
	for _, tc := range seen {
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label.String() < out[j].Label.String() })
	return out
}

// defaultToolchainStub triggers the default toolchain's build-config
// reload; a non-default toolchain is instead loaded the first time a
// target actually references it, via the Loader call a real frontend
// would make from within target-declaration evaluation.
func defaultToolchainStub() *toolchain.Toolchain {
	return toolchain.New(label.DefaultToolchain)
}

// persistArgsFile parses --args (if given), validates it round-trips
// through args.gn formatting (original_source/.../setup.cc's
// SaveArgsToFile does the same before ever writing the file), writes
// args.gn, and returns the flat string overrides LoadToolchain merges
// atop a toolchain's own arg_overrides. Bool/list/scope assignments
// persist to args.gn but aren't meaningful as toolchain cliArgs.
func persistArgsFile(d *Driver) (map[string]string, error) {
	if opts.Args == "" {
		return nil, nil
	}
	scope, err := frontend.ParseArgsFile(opts.Args)
	if err != nil {
		return nil, fmt.Errorf("parsing --args: %w", err)
	}
	formatted, err := frontend.ValidateRoundTrip(scope)
	if err != nil {
		return nil, fmt.Errorf("--args does not round-trip through args.gn formatting: %w", err)
	}
	argsPath := d.BuildDir + "/args.gn"
	if err := ninjawriter.WriteFileIfChanged(argsPath, []byte(formatted)); err != nil {
		return nil, err
	}
	d.Scheduler.RecordWrittenFile(argsPath)

	out := map[string]string{}
	for _, k := range scope.Keys() {
		v, _ := scope.Get(k)
		if v.Kind == frontend.KindString {
			out[k] = v.Str
		}
	}
	return out, nil
}
