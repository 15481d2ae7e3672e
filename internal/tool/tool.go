// Package tool implements the per-output-category Tool catalogue: the
// typed description of how each tool (C compile/link, Rust compile/link,
// bundle ops, copy, phony/stamp, generic action) parameterises build
// commands via the subst engine.
//
// Tools follow a builder-then-freeze lifecycle, mirroring how the original
// GN sources build a Tool from a parsed scope: the frontend calls New,
// then a sequence of setters, then SetComplete. After SetComplete no further
// mutation is permitted.
package tool

import (
	"fmt"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/subst"
)

// Category distinguishes the four tagged tool variants.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryC
	CategoryRust
	CategoryBuiltin
)

// Name is the specific tool identity within a category, e.g. "cc" or "solink".
type Name string

// Recognised tool names, grouped by category.
const (
	Stamp             Name = "stamp"
	Copy              Name = "copy"
	Action            Name = "action"
	CopyBundleData    Name = "copy_bundle_data"
	CompileXCAssets   Name = "compile_xcassets"

	CC          Name = "cc"
	CXX         Name = "cxx"
	CXXModule   Name = "cxx_module"
	ObjC        Name = "objc"
	ObjCXX      Name = "objcxx"
	RC          Name = "rc"
	Asm         Name = "asm"
	Alink       Name = "alink"
	Solink      Name = "solink"
	SolinkModule Name = "solink_module"
	Link        Name = "link"

	RustBin      Name = "rust_bin"
	RustRlib     Name = "rust_rlib"
	RustDylib    Name = "rust_dylib"
	RustCdylib   Name = "rust_cdylib"
	RustStaticlib Name = "rust_staticlib"
	RustMacro    Name = "rust_macro"

	Phony Name = "phony"
)

var categoryByName = map[Name]Category{
	Stamp: CategoryGeneral, Copy: CategoryGeneral, Action: CategoryGeneral,
	CopyBundleData: CategoryGeneral, CompileXCAssets: CategoryGeneral,

	CC: CategoryC, CXX: CategoryC, CXXModule: CategoryC, ObjC: CategoryC,
	ObjCXX: CategoryC, RC: CategoryC, Asm: CategoryC, Alink: CategoryC,
	Solink: CategoryC, SolinkModule: CategoryC, Link: CategoryC,

	RustBin: CategoryRust, RustRlib: CategoryRust, RustDylib: CategoryRust,
	RustCdylib: CategoryRust, RustStaticlib: CategoryRust, RustMacro: CategoryRust,

	Phony: CategoryBuiltin,
}

var compileNames = map[Name]bool{
	CC: true, CXX: true, CXXModule: true, ObjC: true, ObjCXX: true, RC: true, Asm: true,
}
var linkNames = map[Name]bool{
	Alink: true, Solink: true, SolinkModule: true, Link: true,
}

// IsCompile reports whether a C-family tool name compiles sources.
func (n Name) IsCompile() bool { return compileNames[n] }

// IsLink reports whether a C-family tool name links/archives a final output.
func (n Name) IsLink() bool { return linkNames[n] }

// base holds the fields every tool category shares.
type base struct {
	name                  Name
	complete              bool
	command               subst.Pattern
	commandLauncher       string
	description           subst.Pattern
	outputs               subst.List
	runtimeOutputs        subst.List
	depfile               subst.Pattern
	rspfile               subst.Pattern
	rspfileContent        subst.Pattern
	pool                  label.Label
	hasPool               bool
	restat                bool
	defaultOutputDir      subst.Pattern
	defaultOutputExtension string
	outputPrefix          string
	requiredBits          subst.Bitset
}

func (b *base) checkMutable() {
	if b.complete {
		panic(fmt.Sprintf("tool %q is complete and can no longer be mutated", b.name))
	}
}

// Name returns the tool's name.
func (b *base) Name() Name { return b.name }

// Complete reports whether SetComplete has run.
func (b *base) Complete() bool { return b.complete }

// SetCommand sets the command pattern.
func (b *base) SetCommand(p subst.Pattern) { b.checkMutable(); b.command = p }

// Command returns the command pattern.
func (b *base) Command() subst.Pattern { return b.command }

// SetCommandLauncher sets a launcher prefix (e.g. a distributed-build wrapper).
func (b *base) SetCommandLauncher(s string) { b.checkMutable(); b.commandLauncher = s }

// CommandLauncher returns the launcher prefix, if any.
func (b *base) CommandLauncher() string { return b.commandLauncher }

// SetDescription sets the human-readable build-step description pattern.
func (b *base) SetDescription(p subst.Pattern) { b.checkMutable(); b.description = p }

func (b *base) Description() subst.Pattern { return b.description }

// SetOutputs sets the tool's output file pattern list.
func (b *base) SetOutputs(l subst.List) { b.checkMutable(); b.outputs = l }

func (b *base) Outputs() subst.List { return b.outputs }

// SetRuntimeOutputs sets the subset of outputs needed at runtime.
func (b *base) SetRuntimeOutputs(l subst.List) { b.checkMutable(); b.runtimeOutputs = l }

func (b *base) RuntimeOutputs() subst.List { return b.runtimeOutputs }

func (b *base) SetDepfile(p subst.Pattern) { b.checkMutable(); b.depfile = p }
func (b *base) Depfile() subst.Pattern     { return b.depfile }
func (b *base) HasDepfile() bool           { return !b.depfile.IsEmpty() }

func (b *base) SetRspfile(p subst.Pattern)        { b.checkMutable(); b.rspfile = p }
func (b *base) Rspfile() subst.Pattern            { return b.rspfile }
func (b *base) SetRspfileContent(p subst.Pattern) { b.checkMutable(); b.rspfileContent = p }
func (b *base) RspfileContent() subst.Pattern     { return b.rspfileContent }

func (b *base) SetPool(p label.Label) { b.checkMutable(); b.pool = p; b.hasPool = true }
func (b *base) Pool() (label.Label, bool) { return b.pool, b.hasPool }

func (b *base) SetRestat(r bool) { b.checkMutable(); b.restat = r }
func (b *base) Restat() bool     { return b.restat }

func (b *base) SetDefaultOutputDir(p subst.Pattern) { b.checkMutable(); b.defaultOutputDir = p }
func (b *base) DefaultOutputDir() subst.Pattern     { return b.defaultOutputDir }

func (b *base) SetDefaultOutputExtension(s string) { b.checkMutable(); b.defaultOutputExtension = s }
func (b *base) DefaultOutputExtension() string     { return b.defaultOutputExtension }

func (b *base) SetOutputPrefix(s string) { b.checkMutable(); b.outputPrefix = s }
func (b *base) OutputPrefix() string     { return b.outputPrefix }

// RequiredBits returns the union of substitution bits used by every pattern
// on this tool, computed once by SetComplete.
func (b *base) RequiredBits() subst.Bitset { return b.requiredBits }

func (b *base) collectBits() subst.Bitset {
	bits := b.command.Required.Union(b.description.Required)
	bits = bits.Union(b.outputs.Required).Union(b.runtimeOutputs.Required)
	bits = bits.Union(b.depfile.Required).Union(b.rspfile.Required).Union(b.rspfileContent.Required)
	bits = bits.Union(b.defaultOutputDir.Required)
	return bits
}

// InvalidToolConfigurationError reports a structural problem detected at
// SetComplete time.
type InvalidToolConfigurationError struct {
	Tool   Name
	Reason string
}

func (e *InvalidToolConfigurationError) Error() string {
	return fmt.Sprintf("InvalidToolConfiguration: tool %q: %s", e.Tool, e.Reason)
}

func checkRspfilePairing(name Name, rspfile, content subst.Pattern) error {
	if rspfile.IsEmpty() != content.IsEmpty() {
		return &InvalidToolConfigurationError{Tool: name, Reason: "rspfile and rspfile_content must either both be set or both be unset"}
	}
	return nil
}

func subsetOf(a, b subst.List) bool {
	allowed := map[string]bool{}
	for _, p := range b.Patterns {
		allowed[p.String()] = true
	}
	for _, p := range a.Patterns {
		if !allowed[p.String()] {
			return false
		}
	}
	return true
}
