// Package config implements the Config type: a named, composable bundle of
// compile/link values (defines, flags, include dirs, libs, frameworks,
// inputs) that targets attach via configs/public_configs/
// all_dependent_configs and which propagate along dependency edges.
package config

import (
	"fmt"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/label"
)

// Values is the bundle of compile/link settings a Config (or a Target's own
// ConfigValues payload) carries. Order within each slice is significant -
// compile flags especially depend on left-to-right ordering - and
// duplicates are preserved rather than deduplicated.
type Values struct {
	Defines     []string
	IncludeDirs []string
	Cflags      []string
	CflagsC     []string
	CflagsCC    []string
	Ldflags     []string
	Libs        []string
	LibDirs     []string
	Frameworks  []string
	FrameworkDirs []string
	Inputs      []string
}

// Append concatenates other onto v, preserving order and duplicates.
func (v *Values) Append(other Values) {
	v.Defines = append(v.Defines, other.Defines...)
	v.IncludeDirs = append(v.IncludeDirs, other.IncludeDirs...)
	v.Cflags = append(v.Cflags, other.Cflags...)
	v.CflagsC = append(v.CflagsC, other.CflagsC...)
	v.CflagsCC = append(v.CflagsCC, other.CflagsCC...)
	v.Ldflags = append(v.Ldflags, other.Ldflags...)
	v.Libs = append(v.Libs, other.Libs...)
	v.LibDirs = append(v.LibDirs, other.LibDirs...)
	v.Frameworks = append(v.Frameworks, other.Frameworks...)
	v.FrameworkDirs = append(v.FrameworkDirs, other.FrameworkDirs...)
	v.Inputs = append(v.Inputs, other.Inputs...)
}

// Config is a named bundle of values plus an ordered list of sub-configs it
// includes. Configs form a forest (a sub-config may itself have
// sub-configs); resolution walks them depth-first.
type Config struct {
	Label      label.Label
	Own        Values
	SubConfigs []*Config
	Visibility label.Set
	TestOnly   bool

	resolved      Values
	resolvedOK    bool
	resolving     bool // cycle-detection flag
}

// New constructs an empty Config for the given label.
func New(l label.Label) *Config {
	return &Config{Label: l}
}

// CycleError reports a dependency cycle among sub-configs.
type CycleError struct {
	Chain []label.Label
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, l := range e.Chain {
		parts[i] = l.String()
	}
	return "DepCycle: config cycle: " + strings.Join(parts, " -> ")
}

// Resolve computes c's transitive values: an in-order, depth-first
// concatenation of every reachable sub-config's own values, followed by c's
// own values, computed once and cached. Detects cycles in the sub-config
// graph.
func (c *Config) Resolve() (Values, error) {
	if c.resolvedOK {
		return c.resolved, nil
	}
	if c.resolving {
		return Values{}, &CycleError{Chain: []label.Label{c.Label}}
	}
	c.resolving = true
	defer func() { c.resolving = false }()

	var out Values
	for _, sub := range c.SubConfigs {
		v, err := sub.Resolve()
		if err != nil {
			if ce, ok := err.(*CycleError); ok {
				return Values{}, &CycleError{Chain: append([]label.Label{c.Label}, ce.Chain...)}
			}
			return Values{}, err
		}
		out.Append(v)
	}
	out.Append(c.Own)
	c.resolved = out
	c.resolvedOK = true
	return out, nil
}

// CheckVisibility verifies that reader is allowed to depend on this config.
func (c *Config) CheckVisibility(reader label.Label) error {
	if len(c.Visibility) == 0 || c.Visibility.Matches(reader) {
		return nil
	}
	return fmt.Errorf("VisibilityViolation: config %s is not visible to %s", c.Label, reader)
}
