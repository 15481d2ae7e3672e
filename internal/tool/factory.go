package tool

import (
	"fmt"

	"github.com/thought-machine/ninjagraph/internal/subst"
)

// Tool is the common interface every variant implements. Polymorphic
// behaviour (ValidateSubstitutions, SetComplete) is a method on the concrete
// variant; there is no shared base-class dispatch the way the original C++
// uses manual RTTI.
type Tool interface {
	Name() Name
	Category() Category
	Complete() bool
	SetComplete() error
	ValidateSubstitutions() error
	RequiredBits() subst.Bitset
	Outputs() subst.List
	RuntimeOutputs() subst.List
}

func (t *GeneralTool) Category() Category { return CategoryGeneral }
func (t *CTool) Category() Category       { return CategoryC }
func (t *RustTool) Category() Category    { return CategoryRust }
func (t *BuiltinTool) Category() Category { return CategoryBuiltin }

// New constructs the correctly-typed, incomplete Tool variant for name. This
// is the one entry point the frontend calls ("create_tool(name)") before
// applying setters and calling SetComplete.
func New(name Name) (Tool, error) {
	cat, ok := categoryByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool name %q", name)
	}
	switch cat {
	case CategoryGeneral:
		return NewGeneralTool(name), nil
	case CategoryC:
		return NewCTool(name), nil
	case CategoryRust:
		return NewRustTool(name), nil
	case CategoryBuiltin:
		if name == Phony {
			return nil, fmt.Errorf("the phony builtin tool is preconstructed and cannot be redeclared")
		}
		return nil, fmt.Errorf("unknown builtin tool %q", name)
	default:
		return nil, fmt.Errorf("unknown tool category for %q", name)
	}
}

// sourceTypeToolNames maps a SourceFile type (by its paths.FileType.String()
// rendering, to avoid an import cycle with the paths package) to the tool
// name used to compile it. Types absent from this table (O, unrecognised
// types) compile via no tool - objects are passthrough inputs.
var sourceTypeToolNames = map[string]Name{
	"C":      CC,
	"CPP":    CXX,
	"M":      ObjC,
	"MM":     ObjCXX,
	"RC":     RC,
	"S":      Asm,
	"RS":     RustBin,
}

// ToolNameForSourceType returns the tool name used to compile a source file
// of the given type, and false if that type has no associated compile tool
// (e.g. ".o" object files, which pass through as link inputs, or header
// files, which are not compiled directly).
//
// RS is special: this returns rust_bin as a representative placeholder, but
// actual Rust compilation happens per-crate (per module), not per source
// file - callers must detect a target's source list containing an RS file
// and switch to per-crate compilation instead of invoking this per file.
func ToolNameForSourceType(fileType string) (Name, bool) {
	n, ok := sourceTypeToolNames[fileType]
	return n, ok
}
