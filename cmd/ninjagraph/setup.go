package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/thought-machine/ninjagraph/internal/builder"
	"github.com/thought-machine/ninjagraph/internal/frontend"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/loader"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/resolve"
	"github.com/thought-machine/ninjagraph/internal/scheduler"
)

const defaultDotfileName = ".ninjagraph"
const minNinjaRequiredVersion = "1.7.2"

// BuildFileParser is the pluggable hook a real target-definition language
// would occupy - the frontend boundary spec.md §1 declares out of scope.
// It receives the raw contents of a build file and must post every
// declaration it finds via post.
type BuildFileParser func(contents string, req loader.LoadRequest, post func(frontend.DeclaredItem), pools func(*graph.Pool)) error

// ErrFrontendNotImplemented is returned by the default BuildFileParser:
// this repository implements everything downstream of a declared Item
// (resolution, scheduling, ninja emission) but not the dynamically-scoped
// target-definition language itself.
var ErrFrontendNotImplemented = errors.New("ninjagraph: no target-definition language is wired in; supply a BuildFileParser")

// Driver holds every piece Setup wires together, ready for Run to drive
// the Scheduler to completion and invoke the emitters.
type Driver struct {
	Graph      *graph.BuildGraph
	Builder    *builder.Builder
	Scheduler  *scheduler.Scheduler
	Loader     *loader.Loader
	Context    *resolve.Context
	Dotfile    *frontend.Dotfile
	RunID      string
	RootLabel  label.Label
	Root       string
	BuildDir   string
	SelfInvoke string

	ParseBuildFile BuildFileParser
}

// findDotfile walks upward from dir looking for defaultDotfileName, the
// same upward-search discovery please's own root-finding
// (src/core/config.go's FindRepoRoot) performs for .plzconfig.
func findDotfile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, defaultDotfileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found above %s", defaultDotfileName, dir)
		}
		dir = parent
	}
}

// Setup reads the dotfile, validates its declared ninja_required_version,
// and constructs every piece of the pipeline up to (but not including) the
// root target being loaded - that happens in loadRoots, once the Driver exists.
func Setup() (*Driver, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	dotfilePath := opts.Dotfile
	if dotfilePath == "" {
		found, err := findDotfile(root)
		if err != nil {
			return nil, err
		}
		dotfilePath = found
	}

	contents, err := os.ReadFile(dotfilePath)
	if err != nil {
		return nil, fmt.Errorf("reading dotfile: %w", err)
	}
	dotfile, err := frontend.ParseDotfile(string(contents))
	if err != nil {
		return nil, fmt.Errorf("parsing dotfile %s: %w", dotfilePath, err)
	}

	if dotfile.NinjaRequiredVersion != "" {
		if _, err := semver.NewVersion(dotfile.NinjaRequiredVersion); err != nil {
			return nil, fmt.Errorf("dotfile ninja_required_version %q is not valid semver: %w", dotfile.NinjaRequiredVersion, err)
		}
		min, err := semver.NewVersion(minNinjaRequiredVersion)
		if err == nil {
			declared, _ := semver.NewVersion(dotfile.NinjaRequiredVersion)
			if declared.LessThan(min) {
				log.Warningf("dotfile declares ninja_required_version %s, below this generator's minimum %s", dotfile.NinjaRequiredVersion, minNinjaRequiredVersion)
			}
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := graph.NewBuildGraph()
	sched := scheduler.New(workers)
	ctx := &resolve.Context{BuildDir: "out", Outputs: resolve.NewOutputRegistry(), Sink: sched}

	b := builder.New(func(item builder.Item) {
		onItemReady(item, g, ctx, sched)
	})

	d := &Driver{
		Graph:          g,
		Builder:        b,
		Scheduler:      sched,
		Context:        ctx,
		Dotfile:        dotfile,
		RunID:          uuid.NewString(),
		Root:           root,
		BuildDir:       ctx.BuildDir,
		ParseBuildFile: defaultBuildFileParser,
	}
	d.SelfInvoke = selfInvocation(root, dotfilePath)

	buildConfigFile := paths.NewSourceFile(dotfile.BuildConfig, nil)
	ld := loader.New(d.parseFile, sched, buildConfigFile, dotfile.BuildFileExtension)
	ld.SetSourceRoots(root, dotfile.SecondarySource)
	d.Loader = ld

	return d, nil
}

// parseFile is the Loader's ParseFunc: a toolchain's build-config reload
// is evaluated with the literal-scope reader directly (it's an
// assignments-only scope, per spec.md §6); every other file is handed to
// ParseBuildFile, the pluggable target-definition-language hook.
func (d *Driver) parseFile(req loader.LoadRequest) error {
	contents, err := os.ReadFile(d.Loader.ResolveActualPath(req.File))
	if err != nil {
		return err
	}

	if req.File == d.buildConfigFile() {
		scope, err := frontend.ParseScope(string(contents))
		if err != nil {
			return fmt.Errorf("parsing build-config %s: %w", req.File, err)
		}
		vals := map[string]string{}
		for _, k := range scope.Keys() {
			v, _ := scope.Get(k)
			if v.Kind == frontend.KindString {
				vals[k] = v.Str
			}
		}
		for k, v := range req.ArgScope {
			vals[k] = v
		}
		d.Loader.RecordToolchainSettings(req.Toolchain, vals)
		return nil
	}

	var declared []frontend.DeclaredItem
	var pools []*graph.Pool
	if err := d.ParseBuildFile(string(contents), req, func(it frontend.DeclaredItem) {
		declared = append(declared, it)
	}, func(p *graph.Pool) {
		pools = append(pools, p)
	}); err != nil {
		return err
	}
	for _, p := range pools {
		if err := d.Graph.AddPool(p); err != nil {
			return err
		}
	}
	for _, it := range declared {
		if err := d.Builder.Declare(it.Item, it.Deps); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) buildConfigFile() paths.SourceFile {
	return paths.NewSourceFile(d.Dotfile.BuildConfig, nil)
}

// onItemReady is the Builder's OnReady callback: a Target gets run through
// the resolution pipeline, a Toolchain gets SetupComplete'd, a Config gets
// its transitive values resolved. Errors are logged.
func onItemReady(item builder.Item, g *graph.BuildGraph, ctx *resolve.Context, sched *scheduler.Scheduler) {
	switch item.Kind {
	case builder.TargetItem:
		if err := resolve.Resolve(item.Target, ctx); err != nil {
			log.Errorf("resolving %s: %v", item.Target.Label, err)
		}
	case builder.ToolchainItem:
		if err := item.Toolchain.SetupComplete(); err != nil {
			log.Errorf("completing toolchain %s: %v", item.Toolchain.Label, err)
		}
	case builder.ConfigItem:
		if _, err := item.Config.Resolve(); err != nil {
			log.Errorf("resolving config %s: %v", item.Config.Label, err)
		}
	}
}

// defaultBuildFileParser is installed until a real frontend is wired in.
func defaultBuildFileParser(_ string, req loader.LoadRequest, _ func(frontend.DeclaredItem), _ func(*graph.Pool)) error {
	return fmt.Errorf("%w (requested while loading %s)", ErrFrontendNotImplemented, req.File)
}

// selfInvocation composes the "gn gen ." equivalent the top-level
// coordinator's `rule gn` block re-invokes on regeneration, per spec.md
// §4.9: the current process's own path, --root, -q, --regeneration, and
// (only if a dotfile was explicitly passed) --dotfile.
func selfInvocation(root, dotfilePath string) string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	cmd := fmt.Sprintf("%s gen . --root=%s -q --regeneration", exe, root)
	if opts.Dotfile != "" {
		cmd += " --dotfile=" + dotfilePath
	}
	return cmd
}
