// Package toolchain implements the Toolchain type: a named collection of
// Tools plus argument overrides and a propagates_configs flag. Each
// toolchain produces its own subdirectory of outputs and its own
// independent instantiation of every target that gets built under it.
package toolchain

import (
	"fmt"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
)

// Toolchain is a named set of tools and toolchain-level settings.
type Toolchain struct {
	Label             label.Label
	tools             map[tool.Name]tool.Tool
	Deps              []label.Label // other toolchain targets to prebuild
	PropagatesConfigs bool
	ArgOverrides      map[string]string
	complete          bool
	requiredBits      subst.Bitset
}

// New constructs a Toolchain with the phony builtin tool already inserted,
// matching the auto-insertion the data model calls for.
func New(l label.Label) *Toolchain {
	tc := &Toolchain{
		Label:        l,
		tools:        map[tool.Name]tool.Tool{},
		ArgOverrides: map[string]string{},
	}
	tc.tools[tool.Phony] = tool.NewPhonyTool()
	return tc
}

// SetTool inserts t into the toolchain's tool map. It rejects duplicate
// insertion for the same name and triggers the tool's own completion if it
// has not already been frozen.
func (tc *Toolchain) SetTool(t tool.Tool) error {
	if tc.complete {
		return fmt.Errorf("toolchain %s is already set up; cannot add tool %q", tc.Label, t.Name())
	}
	if _, ok := tc.tools[t.Name()]; ok {
		return fmt.Errorf("DuplicateItem: tool %q already set on toolchain %s", t.Name(), tc.Label)
	}
	if !t.Complete() {
		if err := t.SetComplete(); err != nil {
			return err
		}
	}
	tc.tools[t.Name()] = t
	return nil
}

// Tool looks up a tool by name.
func (tc *Toolchain) Tool(name tool.Name) (tool.Tool, bool) {
	t, ok := tc.tools[name]
	return t, ok
}

// Tools returns every tool registered on this toolchain.
func (tc *Toolchain) Tools() map[tool.Name]tool.Tool {
	return tc.tools
}

// SetupComplete finalises the toolchain: merges every tool's required
// substitution bits and freezes the tool set against further insertion.
func (tc *Toolchain) SetupComplete() error {
	for name, t := range tc.tools {
		if !t.Complete() {
			if err := t.SetComplete(); err != nil {
				return fmt.Errorf("tool %q: %w", name, err)
			}
		}
	}
	var bits subst.Bitset
	for _, t := range tc.tools {
		bits = bits.Union(t.RequiredBits())
	}
	tc.requiredBits = bits
	tc.complete = true
	return nil
}

// RequiredBits returns the union of every tool's required substitution bits.
func (tc *Toolchain) RequiredBits() subst.Bitset {
	if tc.requiredBits != 0 {
		return tc.requiredBits
	}
	var bits subst.Bitset
	for _, t := range tc.tools {
		bits = bits.Union(t.RequiredBits())
	}
	tc.requiredBits = bits
	return bits
}

// SubDir is the output subdirectory name this toolchain writes to: the
// toolchain label's name (e.g. "clang") for any non-default toolchain, and
// "" for the default toolchain.
func (tc *Toolchain) SubDir() string {
	if tc.Label == label.DefaultToolchain {
		return ""
	}
	return tc.Label.Name.String()
}
