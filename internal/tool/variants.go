package tool

import "github.com/thought-machine/ninjagraph/internal/subst"

// PCHType is the precompiled-header dialect a C compile tool supports.
type PCHType int

const (
	PCHNone PCHType = iota
	PCHGCC
	PCHMSVC
)

// DepsFormat is the Ninja "deps" mode a C tool's depfile uses.
type DepsFormat int

const (
	DepsNone DepsFormat = iota
	DepsGCC
	DepsMSVC
)

// GeneralTool is the variant covering stamp, copy, action,
// copy_bundle_data and compile_xcassets.
type GeneralTool struct {
	base
}

// NewGeneralTool constructs an incomplete GeneralTool with the given name.
func NewGeneralTool(name Name) *GeneralTool {
	return &GeneralTool{base: base{name: name}}
}

func (t *GeneralTool) domain() subst.Domain {
	switch t.name {
	case Copy, CopyBundleData:
		return subst.DomainCopy | subst.DomainAlways
	case CompileXCAssets:
		return subst.DomainXCAssets | subst.DomainAlways
	default: // stamp, action
		return subst.DomainAlways | subst.DomainCompile | subst.DomainLink | subst.DomainRust | subst.DomainSwift | subst.DomainCopy | subst.DomainXCAssets
	}
}

// ValidateSubstitutions checks every pattern on this tool uses only tags
// valid within its domain.
func (t *GeneralTool) ValidateSubstitutions() error {
	d := t.domain()
	if err := t.command.ValidateDomain(d); err != nil {
		return err
	}
	if err := t.outputs.ValidateDomain(d); err != nil {
		return err
	}
	return nil
}

// SetComplete freezes the tool, computing its required-substitution bitset.
func (t *GeneralTool) SetComplete() error {
	if err := t.ValidateSubstitutions(); err != nil {
		return err
	}
	if err := checkRspfilePairing(t.name, t.rspfile, t.rspfileContent); err != nil {
		return err
	}
	if !subsetOf(t.runtimeOutputs, t.outputs) {
		return &InvalidToolConfigurationError{Tool: t.name, Reason: "runtime_outputs must be a subset of outputs"}
	}
	t.requiredBits = t.collectBits()
	t.complete = true
	return nil
}

// CTool is the variant covering the C/C++/ObjC compile and link tools.
type CTool struct {
	base
	PrecompiledHeaderType PCHType
	DepsFormat            DepsFormat
	LinkOutput            subst.Pattern
	DependOutput          subst.Pattern
	LibSwitch             string
	LibDirSwitch          string
	FrameworkSwitch       string
	WeakFrameworkSwitch   string
	FrameworkDirSwitch    string
	SwiftmoduleSwitch     string
}

// NewCTool constructs an incomplete CTool with the given name.
func NewCTool(name Name) *CTool {
	return &CTool{base: base{name: name}}
}

func (t *CTool) domain() subst.Domain {
	d := subst.DomainAlways
	if t.name.IsCompile() {
		d |= subst.DomainCompile
	}
	if t.name.IsLink() {
		d |= subst.DomainLink
	}
	return d
}

func (t *CTool) ValidateSubstitutions() error {
	d := t.domain()
	if err := t.command.ValidateDomain(d); err != nil {
		return err
	}
	if err := t.outputs.ValidateDomain(d); err != nil {
		return err
	}
	if err := t.LinkOutput.ValidateDomain(d); err != nil {
		return err
	}
	if err := t.DependOutput.ValidateDomain(d); err != nil {
		return err
	}
	return nil
}

// SetComplete freezes the tool, validating the C-family-specific invariants
// (PCH only on compile tools, msvc depsformat disallows a depfile, solink
// link_output/depend_output rules) before computing the required bitset.
func (t *CTool) SetComplete() error {
	if t.PrecompiledHeaderType != PCHNone && !t.name.IsCompile() {
		return &InvalidToolConfigurationError{Tool: t.name, Reason: "precompiled_header_type is only valid on compile tools"}
	}
	if t.DepsFormat == DepsMSVC && t.HasDepfile() {
		return &InvalidToolConfigurationError{Tool: t.name, Reason: "depsformat msvc cannot be combined with a depfile"}
	}
	if err := t.ValidateSubstitutions(); err != nil {
		return err
	}
	if err := checkRspfilePairing(t.name, t.rspfile, t.rspfileContent); err != nil {
		return err
	}
	if !subsetOf(t.runtimeOutputs, t.outputs) {
		return &InvalidToolConfigurationError{Tool: t.name, Reason: "runtime_outputs must be a subset of outputs"}
	}
	if t.name == Solink || t.name == SolinkModule {
		if t.LinkOutput.IsEmpty() && t.DependOutput.IsEmpty() {
			if len(t.outputs.Patterns) == 0 {
				return &InvalidToolConfigurationError{Tool: t.name, Reason: "solink requires at least one output to default link_output/depend_output to"}
			}
			t.LinkOutput = t.outputs.Patterns[0]
			t.DependOutput = t.outputs.Patterns[0]
		} else {
			ol := subst.List{Patterns: t.outputs.Patterns}
			if !t.LinkOutput.IsEmpty() && !subsetOf(subst.List{Patterns: []subst.Pattern{t.LinkOutput}}, ol) {
				return &InvalidToolConfigurationError{Tool: t.name, Reason: "link_output must be listed in outputs"}
			}
			if !t.DependOutput.IsEmpty() && !subsetOf(subst.List{Patterns: []subst.Pattern{t.DependOutput}}, ol) {
				return &InvalidToolConfigurationError{Tool: t.name, Reason: "depend_output must be listed in outputs"}
			}
		}
	}
	t.requiredBits = t.collectBits().Union(t.LinkOutput.Required).Union(t.DependOutput.Required)
	t.complete = true
	return nil
}

// RustTool is the variant covering the rust_* compile/link tools.
type RustTool struct {
	base
	RustSysroot         string
	DynamicLinkSwitch   string
	CrateTypeExtensions map[string]string
}

// NewRustTool constructs an incomplete RustTool with the given name.
func NewRustTool(name Name) *RustTool {
	return &RustTool{base: base{name: name}, CrateTypeExtensions: map[string]string{}}
}

func (t *RustTool) domain() subst.Domain {
	return subst.DomainAlways | subst.DomainRust
}

func (t *RustTool) ValidateSubstitutions() error {
	d := t.domain()
	if err := t.command.ValidateDomain(d); err != nil {
		return err
	}
	return t.outputs.ValidateDomain(d)
}

func (t *RustTool) SetComplete() error {
	if err := t.ValidateSubstitutions(); err != nil {
		return err
	}
	if err := checkRspfilePairing(t.name, t.rspfile, t.rspfileContent); err != nil {
		return err
	}
	if !subsetOf(t.runtimeOutputs, t.outputs) {
		return &InvalidToolConfigurationError{Tool: t.name, Reason: "runtime_outputs must be a subset of outputs"}
	}
	t.requiredBits = t.collectBits()
	t.complete = true
	return nil
}

// BuiltinTool is the variant covering the single "phony" built-in, which is
// preconstructed by the toolchain and cannot be redeclared by the frontend.
type BuiltinTool struct {
	base
}

// NewPhonyTool constructs the complete, immutable phony builtin tool.
func NewPhonyTool() *BuiltinTool {
	t := &BuiltinTool{base: base{name: Phony}}
	t.complete = true
	return t
}

func (t *BuiltinTool) ValidateSubstitutions() error { return nil }
func (t *BuiltinTool) SetComplete() error           { return nil }
