package ninjawriter

import (
	"encoding/json"

	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/resolve"
	"github.com/thought-machine/ninjagraph/internal/tool"
)

// rustCrateDep is one entry of a crate's "deps" list.
type rustCrateDep struct {
	Crate int    `json:"crate"`
	Name  string `json:"name"`
}

// rustCrate is one entry of rust-project.json's "crates" list.
type rustCrate struct {
	RootModule string         `json:"root_module"`
	Edition    string         `json:"edition"`
	Cfg        []string       `json:"cfg,omitempty"`
	Deps       []rustCrateDep `json:"deps,omitempty"`
}

// rustProject is the top-level rust-project.json document.
type rustProject struct {
	Roots  []string    `json:"roots"`
	Crates []rustCrate `json:"crates"`
}

// sysrootDeps hardcodes the dependency graph among synthesised sysroot
// crates, taken verbatim from the original writer's sysroot_deps_map:
// std depends on alloc, core, panic_abort and unwind; alloc depends on core.
var sysrootDeps = map[string][]string{
	"alloc": {"core"},
	"std":   {"alloc", "core", "panic_abort", "unwind"},
}

// sysrootCrateOrder is the fixed synthesis order: a crate's dependencies
// must already have an index before the crate referencing them is added.
var sysrootCrateOrder = []string{"core", "panic_abort", "unwind", "alloc", "std"}

// WriteRustProject builds the rust-project.json document for every
// Rust-producing target in the graph (RUST_LIBRARY, RUST_PROC_MACRO, and
// executables with a Rust crate root), plus one synthesised sysroot crate
// set per distinct rust_sysroot referenced.
func WriteRustProject(targets []*graph.Target) ([]byte, error) {
	proj := rustProject{}
	index := map[*graph.Target]int{}
	sysrootIndex := map[string]map[string]int{} // sysroot path -> crate name -> index
	rootSeen := map[string]bool{}

	for _, t := range targets {
		if t.Rust == nil {
			continue
		}
		rootSeen[t.Rust.CrateRoot.String()] = true
	}

	for _, t := range targets {
		if t.Rust == nil {
			continue
		}
		sysroot := rustSysrootOf(t)
		if sysroot != "" && sysrootIndex[sysroot] == nil {
			sysrootIndex[sysroot] = addSysroot(&proj, sysroot)
		}
	}

	// Pass one: every Rust target gets its crate index reserved before any
	// deps are filled in, so a dependent doesn't care whether its
	// dependency comes earlier or later in targets (AllTargets is sorted
	// by label, not topologically).
	var rustTargets []*graph.Target
	for _, t := range targets {
		if t.Rust == nil {
			continue
		}
		index[t] = len(proj.Crates)
		proj.Crates = append(proj.Crates, rustCrate{
			RootModule: t.Rust.CrateRoot.String(),
			Edition:    t.Rust.Edition,
		})
		rustTargets = append(rustTargets, t)
	}

	// Pass two: fill in deps now that every Rust target has an index.
	for _, t := range rustTargets {
		var deps []rustCrateDep
		for _, rd := range rustDepsOf(t) {
			if depIdx, ok := index[rd]; ok {
				deps = append(deps, rustCrateDep{Crate: depIdx, Name: rd.Rust.CrateName})
			}
		}
		if sysroot := rustSysrootOf(t); sysroot != "" {
			if stdIdx, ok := sysrootIndex[sysroot]["std"]; ok {
				deps = append(deps, rustCrateDep{Crate: stdIdx, Name: "std"})
			}
		}
		proj.Crates[index[t]].Deps = deps
	}

	for root := range rootSeen {
		proj.Roots = append(proj.Roots, root)
	}

	return json.MarshalIndent(proj, "", "  ")
}

// rustDepsOf returns t's direct Rust-target dependencies, transparently
// flattening through any intervening Group target - mirroring the
// original writer's GetRustDeps, which does not stop at a Group boundary
// but does stop at a Rust library's own deps (those belong to that
// library's crate, not to t's).
func rustDepsOf(t *graph.Target) []*graph.Target {
	var out []*graph.Target
	seen := map[*graph.Target]bool{}
	var walk func(*graph.Target)
	walk = func(cur *graph.Target) {
		for _, d := range cur.LinkDeps() {
			if d.Target == nil || seen[d.Target] {
				continue
			}
			seen[d.Target] = true
			if d.Target.Rust != nil {
				out = append(out, d.Target)
				continue
			}
			if d.Target.OutputType == graph.Group {
				walk(d.Target)
			}
		}
	}
	walk(t)
	return out
}

func rustSysrootOf(t *graph.Target) string {
	if t.Toolchain == nil {
		return ""
	}
	tl, ok := t.Toolchain.Tool(resolve.ToolNameForOutputType(t))
	if !ok {
		return ""
	}
	if rt, ok := tl.(*tool.RustTool); ok {
		return rt.RustSysroot
	}
	return ""
}

// addSysroot synthesises one sysroot's crate set into proj, following the
// fixed dependency order so each crate's deps already have indices, and
// returns the name -> crate-index map callers use to wire "std" deps in.
func addSysroot(proj *rustProject, sysroot string) map[string]int {
	indices := map[string]int{}
	for _, name := range sysrootCrateOrder {
		idx := len(proj.Crates)
		indices[name] = idx

		var deps []rustCrateDep
		for _, dep := range sysrootDeps[name] {
			if depIdx, ok := indices[dep]; ok {
				deps = append(deps, rustCrateDep{Crate: depIdx, Name: dep})
			}
		}
		proj.Crates = append(proj.Crates, rustCrate{
			RootModule: sysroot + "/lib/rustlib/src/rust/src/lib" + name + "/lib.rs",
			Edition:    "2018",
			Cfg:        []string{"debug_assertions"},
			Deps:       deps,
		})
	}
	return indices
}
