// Package graph implements the core build-graph node: Target, its dependency
// buckets, its lazily-allocated per-output-type payloads, and the
// label-keyed BuildGraph that owns every Target and Config across every
// toolchain instantiation.
package graph

import (
	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// OutputType is the kind of output a Target produces.
type OutputType int

const (
	Group OutputType = iota
	Executable
	SharedLibrary
	LoadableModule
	StaticLibrary
	SourceSet
	CopyFiles
	Action
	ActionForEach
	BundleData
	CreateBundle
	GeneratedFile
	RustLibrary
	RustProcMacro
)

func (t OutputType) String() string {
	switch t {
	case Group:
		return "GROUP"
	case Executable:
		return "EXECUTABLE"
	case SharedLibrary:
		return "SHARED_LIBRARY"
	case LoadableModule:
		return "LOADABLE_MODULE"
	case StaticLibrary:
		return "STATIC_LIBRARY"
	case SourceSet:
		return "SOURCE_SET"
	case CopyFiles:
		return "COPY_FILES"
	case Action:
		return "ACTION"
	case ActionForEach:
		return "ACTION_FOREACH"
	case BundleData:
		return "BUNDLE_DATA"
	case CreateBundle:
		return "CREATE_BUNDLE"
	case GeneratedFile:
		return "GENERATED_FILE"
	case RustLibrary:
		return "RUST_LIBRARY"
	case RustProcMacro:
		return "RUST_PROC_MACRO"
	default:
		return "UNKNOWN"
	}
}

// DepOrigin records where a dependency reference was written, for error
// messages that need to point back at source.
type DepOrigin struct {
	File string
	Line int
}

// TargetDep is a dependency edge: a label, plus (once resolved) a pointer
// to the Target the BuildGraph holds for it, plus the origin location of the
// reference for diagnostics.
type TargetDep struct {
	Label  label.Label
	Target *Target // nil until resolved
	Origin DepOrigin
}

// ConfigDep is a reference to a Config attached via configs/public_configs/
// all_dependent_configs.
type ConfigDep struct {
	Label  label.Label
	Config *config.Config // nil until resolved
	Origin DepOrigin
}

// RustCrateType enumerates the kind of crate a Rust target produces.
type RustCrateType int

const (
	CrateAuto RustCrateType = iota
	CrateBin
	CrateRlib
	CrateDylib
	CrateCdylib
	CrateStaticlib
	CrateProcMacro
)

// ActionValues holds the payload for ACTION / ACTION_FOREACH targets.
type ActionValues struct {
	Script            paths.SourceFile
	Args              []string
	Depfile           string
	Outputs           []string // raw, pre-substitution output patterns
	ResponseFileContents []string
}

// BundleValues holds the payload for BUNDLE_DATA / CREATE_BUNDLE targets.
type BundleValues struct {
	RootDir          string
	ResourcesDir     string
	ExecutableDir    string
	PlugInsDir       string
	PartialInfoPlist paths.SourceFile
	Transparent      bool
	Inputs           []paths.SourceFile // resolved during bundle-data propagation
}

// RustValues holds the payload for RUST_LIBRARY / RUST_PROC_MACRO targets
// and for executables whose final source is Rust.
type RustValues struct {
	CrateName  string
	CrateRoot  paths.SourceFile
	CrateType  RustCrateType
	AliasedDeps map[string]label.Label
	Edition    string
}

// SwiftValues holds the payload for targets compiling Swift sources.
type SwiftValues struct {
	ModuleName string
	BridgingHeader paths.SourceFile
}

// GeneratedFileValues holds the payload for GENERATED_FILE targets.
type GeneratedFileValues struct {
	Contents     string
	OutputFormat string // e.g. "json", "scope", "" (plain text)
}

// Metadata is the key -> ordered value list bag a target may carry for
// metadata-collection walks.
type Metadata map[string][]string

// Target is the core build-graph node.
type Target struct {
	Label      label.Label
	OutputType OutputType

	Sources       []paths.SourceFile
	PublicHeaders []paths.SourceFile
	Inputs        []paths.SourceFile

	PrivateDeps []TargetDep
	PublicDeps  []TargetDep
	DataDeps    []TargetDep
	GenDeps     []TargetDep

	Configs             []ConfigDep
	PublicConfigs       []ConfigDep
	AllDependentConfigs []ConfigDep

	Visibility   label.Set
	TestOnly     bool
	AssertNoDeps label.Set

	WriteRuntimeDeps string // raw output path, empty if unset

	// Pool is the label of a Pool this target's build statement should
	// belong to, overriding the tool's own pool. Zero value means "use
	// whatever the tool specifies".
	Pool label.Label

	// Own contributes this target's own configuration values, merged with
	// everything pulled in via configs during resolution.
	Own config.Values

	Action    *ActionValues
	Bundle    *BundleValues
	Rust      *RustValues
	Swift     *SwiftValues
	Generated *GeneratedFileValues
	Metadata  Metadata

	Toolchain *toolchain.Toolchain

	// Derived fields, populated by the resolution pipeline.
	ResolvedConfigValues config.Values
	DependencyOutputFile paths.OutputFile
	LinkOutputFile       paths.OutputFile
	RuntimeOutputs        []paths.OutputFile
	ComputedOutputs        []paths.OutputFile
	SourceTypesUsed        uint32 // bitset over paths.FileType values seen in Sources

	resolved bool
}

// New constructs an empty Target for the given label and output type.
func New(l label.Label, ot OutputType) *Target {
	return &Target{Label: l, OutputType: ot}
}

// IsLinkable reports whether this output type produces a single linked
// binary file (used to choose between the first computed output and a
// .stamp file as the dependency output file).
func (t *Target) IsLinkable() bool {
	switch t.OutputType {
	case Executable, SharedLibrary, LoadableModule, StaticLibrary, RustLibrary, RustProcMacro:
		return true
	default:
		return false
	}
}

// Resolved reports whether the resolution pipeline has finished with this target.
func (t *Target) Resolved() bool { return t.resolved }

// MarkResolved freezes t; callers must not mutate it further.
func (t *Target) MarkResolved() { t.resolved = true }

// AllDeps returns private, public, data and gen deps concatenated, in that
// order - the iteration order the visibility and testonly validators use.
func (t *Target) AllDeps() []TargetDep {
	out := make([]TargetDep, 0, len(t.PrivateDeps)+len(t.PublicDeps)+len(t.DataDeps)+len(t.GenDeps))
	out = append(out, t.PrivateDeps...)
	out = append(out, t.PublicDeps...)
	out = append(out, t.DataDeps...)
	out = append(out, t.GenDeps...)
	return out
}

// LinkDeps returns private+public deps only - the closure used for
// assert_no_deps and config/bundle-data propagation, which excludes
// data_deps (runtime-only) and gen_deps.
func (t *Target) LinkDeps() []TargetDep {
	out := make([]TargetDep, 0, len(t.PrivateDeps)+len(t.PublicDeps))
	out = append(out, t.PrivateDeps...)
	out = append(out, t.PublicDeps...)
	return out
}
