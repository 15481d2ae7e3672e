package ninjawriter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
)

// defaultNinjaRequiredVersion is used when the dotfile doesn't set one.
const defaultNinjaRequiredVersion = "1.7.2"

// Coordinator assembles the top-level build.ninja + build.ninja.d content
// described in spec.md §4.9 from an already-resolved BuildGraph. It does
// not touch the filesystem itself - WriteTopLevel returns the two files'
// contents for the caller to pass to WriteFileIfChanged.
type Coordinator struct {
	Graph *graph.BuildGraph

	// BuildDir is the output directory every toolchain file path is
	// expressed relative to.
	BuildDir string

	// NinjaRequiredVersion is the dotfile's ninja_required_version, or ""
	// to fall back to defaultNinjaRequiredVersion.
	NinjaRequiredVersion string

	// SelfInvocation is the fully-composed "gn gen . --root=... -q
	// --regeneration [--dotfile=...]" command line the `rule gn` block
	// re-invokes on regeneration. Composing it (echoing the process's own
	// path and flags) is a driver-layer concern; the coordinator just
	// writes whatever string it's given.
	SelfInvocation string

	// InputFiles is every file read this run - the Loader's parsed build
	// files plus the Scheduler's registered gen-dependency files - used
	// to build build.ninja.d.
	InputFiles []string
}

// TopLevelOutput is the pair of files WriteTopLevel produces.
type TopLevelOutput struct {
	Ninja   string
	Depfile string
}

// WriteTopLevel renders build.ninja and build.ninja.d. build.ninja.stamp is
// an empty marker file the caller writes separately with WriteFileIfChanged.
func (c *Coordinator) WriteTopLevel() (*TopLevelOutput, error) {
	var b strings.Builder

	version := c.NinjaRequiredVersion
	if version == "" {
		version = defaultNinjaRequiredVersion
	}
	fmt.Fprintf(&b, "ninja_required_version = %s\n\n", version)

	// Step 2-3: self-regeneration rule and the stamp/phony split that
	// keeps Ninja from deleting build.ninja mid-regeneration.
	b.WriteString("rule gn\n")
	fmt.Fprintf(&b, "  command = %s\n", EscapeCommand(c.SelfInvocation))
	b.WriteString("  pool = console\n")
	b.WriteString("  description = Regenerating ninja files\n\n")
	b.WriteString("build build.ninja.stamp: gn\n")
	b.WriteString("  generator = 1\n")
	b.WriteString("  depfile = build.ninja.d\n")
	b.WriteString("build build.ninja: phony build.ninja.stamp\n")

	// Step 4: exactly four blank lines mark the end of the regeneration
	// block, a contract an external "extract the regen command" tool
	// relies on.
	b.WriteString("\n\n\n\n")

	targets := defaultToolchainTargets(c.Graph.AllTargets())

	// Step 6: pool declarations, sorted by Ninja pool name, "console"
	// never redeclared.
	pools := c.Graph.AllPools()
	sort.Slice(pools, func(i, j int) bool {
		return poolNinjaName(pools[i].Label) < poolNinjaName(pools[j].Label)
	})
	for _, p := range pools {
		name := poolNinjaName(p.Label)
		if name == "console" {
			continue
		}
		fmt.Fprintf(&b, "pool %s\n  depth = %d\n\n", name, p.Depth)
	}

	// Step 7: subninja includes, default toolchain first, remainder
	// sorted by filename; two toolchains resolving to the same file path
	// is a DuplicateToolchain error.
	files, err := c.subninjaFiles()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		fmt.Fprintf(&b, "subninja %s\n", EscapePath(f))
	}
	b.WriteString("\n")

	// Step 8: phony aliases in documented priority order.
	aliases := computePhonyAliases(targets)
	for _, a := range aliases {
		fmt.Fprintf(&b, "build %s: phony %s\n", EscapePath(a.Name), EscapePath(a.Target.DependencyOutputFile.String()))
	}
	b.WriteString("\n")

	// Step 9: the "all" rule.
	allOutputs := make([]string, len(targets))
	for i, t := range targets {
		allOutputs[i] = t.DependencyOutputFile.String()
	}
	fmt.Fprintf(&b, "build all: phony %s\n", joinPaths(allOutputs))

	// Step 10: the "default" rule.
	defaultLabel := label.New("", "default")
	if dt := c.Graph.Target(defaultLabel); dt != nil {
		name := dt.DependencyOutputFile.String()
		for _, a := range aliases {
			if a.Target == dt {
				name = a.Name
				break
			}
		}
		fmt.Fprintf(&b, "default %s\n", EscapePath(name))
	} else {
		b.WriteString("default all\n")
	}

	depfile := c.writeDepfile()

	return &TopLevelOutput{Ninja: b.String(), Depfile: depfile}, nil
}

func (c *Coordinator) writeDepfile() string {
	escaped := make([]string, len(c.InputFiles))
	for i, f := range c.InputFiles {
		escaped[i] = EscapeDepfile(f)
	}
	sort.Strings(escaped)
	return "build.ninja.stamp:" + joinWithLeadingSpace(escaped) + "\n"
}

func joinWithLeadingSpace(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(" ")
		b.WriteString(it)
	}
	return b.String()
}

// DuplicateToolchainError reports two toolchains resolving to the same
// output file path.
type DuplicateToolchainError struct {
	Path  string
	First label.Label
	Second label.Label
}

func (e *DuplicateToolchainError) Error() string {
	return fmt.Sprintf("DuplicateToolchain: toolchains %s and %s both write to %s", e.First, e.Second, e.Path)
}

func (c *Coordinator) subninjaFiles() ([]string, error) {
	seen := map[label.Label]bool{}
	pathOwner := map[string]label.Label{}
	var defaultFile string
	var rest []string

	for _, t := range c.Graph.AllTargets() {
		if t.Toolchain == nil {
			continue
		}
		tc := t.Toolchain.Label
		if seen[tc] {
			continue
		}
		seen[tc] = true

		p := ToolchainFilePath(c.BuildDir, tc)
		if owner, ok := pathOwner[p]; ok {
			return nil, &DuplicateToolchainError{Path: p, First: owner, Second: tc}
		}
		pathOwner[p] = tc

		if tc == label.DefaultToolchain {
			defaultFile = p
		} else {
			rest = append(rest, p)
		}
	}

	sort.Strings(rest)
	var out []string
	if defaultFile != "" {
		out = append(out, defaultFile)
	}
	out = append(out, rest...)
	return out, nil
}

// ToolchainFilePath returns the per-toolchain rule file's path under
// buildDir: "<buildDir>/toolchain.ninja" for the default toolchain, or
// "<buildDir>/<toolchain-subdir>/toolchain.ninja" otherwise.
func ToolchainFilePath(buildDir string, tc label.Label) string {
	if tc == label.DefaultToolchain {
		return buildDir + "/toolchain.ninja"
	}
	return buildDir + "/" + toolchainSubdir(tc) + "/toolchain.ninja"
}

func defaultToolchainTargets(all []*graph.Target) []*graph.Target {
	out := make([]*graph.Target, 0, len(all))
	for _, t := range all {
		if t.Label.IsDefaultToolchain() {
			out = append(out, t)
		}
	}
	return out
}

type phonyAlias struct {
	Name   string
	Target *graph.Target
}

// computePhonyAliases implements spec.md §4.9 step 8: seven priority tiers,
// first-claim-wins, against a name space from which every literal computed
// output path is permanently withheld.
func computePhonyAliases(targets []*graph.Target) []phonyAlias {
	reserved := map[string]bool{}
	for _, t := range targets {
		for _, o := range t.ComputedOutputs {
			reserved[o.String()] = true
		}
	}

	claimed := map[string]bool{}
	var aliases []phonyAlias
	claim := func(name string, t *graph.Target) {
		if name == "" || reserved[name] || claimed[name] {
			return
		}
		claimed[name] = true
		aliases = append(aliases, phonyAlias{Name: name, Target: t})
	}

	// Tier 2: short name of targets declared in the root build file.
	for _, t := range targets {
		if t.Label.Dir.IsEmpty() {
			claim(t.Label.Name.String(), t)
		}
	}
	// Tier 3: short name where directory basename equals target name.
	for _, t := range targets {
		if dirBasename(t.Label.Dir.String()) == t.Label.Name.String() {
			claim(t.Label.Name.String(), t)
		}
	}
	// Tier 4: short name of executables, when unique.
	execCount := map[string]int{}
	for _, t := range targets {
		if t.OutputType == graph.Executable {
			execCount[t.Label.Name.String()]++
		}
	}
	for _, t := range targets {
		if t.OutputType == graph.Executable && execCount[t.Label.Name.String()] == 1 {
			claim(t.Label.Name.String(), t)
		}
	}
	// Tier 5: short name of any target, when unique.
	nameCount := map[string]int{}
	for _, t := range targets {
		nameCount[t.Label.Name.String()]++
	}
	for _, t := range targets {
		if nameCount[t.Label.Name.String()] == 1 {
			claim(t.Label.Name.String(), t)
		}
	}
	// Tier 6: full label without leading slashes, both the slash form
	// ("dir/name") and the colon form ("dir:name").
	for _, t := range targets {
		claim(labelPath(t.Label, "/"), t)
	}
	for _, t := range targets {
		claim(labelPath(t.Label, ":"), t)
	}
	// Tier 7: directory-only form when dir basename equals target name.
	for _, t := range targets {
		if dirBasename(t.Label.Dir.String()) == t.Label.Name.String() {
			claim(t.Label.Dir.String(), t)
		}
	}

	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Name < aliases[j].Name })
	return aliases
}

// labelPath joins a label's directory and name with sep, omitting sep
// entirely when the directory is the root ("").
func labelPath(l label.Label, sep string) string {
	if l.Dir.IsEmpty() {
		return l.Name.String()
	}
	return l.Dir.String() + sep + l.Name.String()
}

func dirBasename(dir string) string {
	if i := strings.LastIndexByte(dir, '/'); i != -1 {
		return dir[i+1:]
	}
	return dir
}
