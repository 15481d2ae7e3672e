package ninjawriter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/subst"
	"github.com/thought-machine/ninjagraph/internal/tool"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// ruleAccessor exposes the base-promoted tool fields a rule block needs.
// tool.Tool itself doesn't declare these - every concrete variant embeds
// base and promotes them, so a tool.Tool value satisfies this structurally
// without any of the four variants needing to know about ninjawriter.
type ruleAccessor interface {
	Name() tool.Name
	Command() subst.Pattern
	CommandLauncher() string
	Description() subst.Pattern
	Depfile() subst.Pattern
	HasDepfile() bool
	Rspfile() subst.Pattern
	RspfileContent() subst.Pattern
	Pool() (label.Label, bool)
	Restat() bool
}

// WriteRules emits one Ninja `rule` block per tool in tc, in tool-name
// sorted order. tool.Action is skipped: each action/action_foreach target's
// command is unique to that target, so those get their own inline rule
// written alongside the build statement instead. tool.Phony is skipped
// because Ninja's `build ... : phony ...` syntax needs no rule at all.
func WriteRules(b *strings.Builder, tc *toolchain.Toolchain) error {
	tools := tc.Tools()
	names := make([]string, 0, len(tools))
	for n := range tools {
		names = append(names, string(n))
	}
	sort.Strings(names)

	for _, n := range names {
		name := tool.Name(n)
		if name == tool.Action || name == tool.Phony {
			continue
		}
		t := tools[name]
		ra, ok := t.(ruleAccessor)
		if !ok {
			return fmt.Errorf("tool %q does not expose the fields a rule block requires", name)
		}
		if err := writeRule(b, ra, t); err != nil {
			return fmt.Errorf("tool %q: %w", name, err)
		}
	}
	return nil
}

func writeRule(b *strings.Builder, ra ruleAccessor, t tool.Tool) error {
	ctx := ruleLevelContext()

	cmd, err := ra.Command().Expand(ctx)
	if err != nil {
		return err
	}
	if ra.CommandLauncher() != "" {
		cmd = ra.CommandLauncher() + " " + cmd
	}

	fmt.Fprintf(b, "rule %s\n", ra.Name())
	fmt.Fprintf(b, "  command = %s\n", EscapeCommand(cmd))

	if !ra.Description().IsEmpty() {
		desc, err := ra.Description().Expand(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "  description = %s\n", EscapeCommand(desc))
	}

	if !ra.Rspfile().IsEmpty() {
		rsp, err := ra.Rspfile().Expand(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "  rspfile = %s\n", EscapePath(rsp))
		content, err := ra.RspfileContent().Expand(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "  rspfile_content = %s\n", EscapeCommand(content))
	}

	if ra.HasDepfile() {
		dep, err := ra.Depfile().Expand(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "  depfile = %s\n", EscapePath(dep))
		if mode := depsMode(t); mode != "" {
			fmt.Fprintf(b, "  deps = %s\n", mode)
		}
	}

	if p, ok := ra.Pool(); ok {
		fmt.Fprintf(b, "  pool = %s\n", poolNinjaName(p))
	}

	if ra.Restat() {
		b.WriteString("  restat = 1\n")
	}

	b.WriteString("\n")
	return nil
}

// depsMode reports the Ninja "deps" mode for a C-family tool's depfile, or
// "" for tool kinds that don't have one (Rust and General tools use a plain
// Makefile-syntax depfile with no Ninja-side deps caching).
func depsMode(t tool.Tool) string {
	ct, ok := t.(*tool.CTool)
	if !ok {
		return ""
	}
	switch ct.DepsFormat {
	case tool.DepsGCC:
		return "gcc"
	case tool.DepsMSVC:
		return "msvc"
	default:
		return ""
	}
}

// poolNinjaName renders a pool label as it appears in a Ninja `pool =`
// binding.
func poolNinjaName(l label.Label) string {
	return sanitizePoolName(l)
}
