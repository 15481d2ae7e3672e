package subst

import (
	"fmt"
	"strings"
)

// JoinPolicy controls how a multi-valued tag's items are combined into one
// expanded string.
type JoinPolicy int

const (
	// JoinSpace separates items with a single space (the default).
	JoinSpace JoinPolicy = iota
	// JoinNewline separates items with "\n", used by rspfile_content-style
	// per-line substitutions.
	JoinNewline
)

// Value is what a Context supplies for one tag: either a single scalar or a
// list of items to be joined per the tag's policy, optionally with a prefix
// string prepended to every item (e.g. lib_switch -> "-l" per library).
type Value struct {
	Items  []string
	Policy JoinPolicy
	Prefix string
}

// Scalar constructs a single-item Value.
func Scalar(s string) Value { return Value{Items: []string{s}} }

// ValueList constructs a multi-item, space-joined Value.
func ValueList(items ...string) Value { return Value{Items: items, Policy: JoinSpace} }

// Render joins this Value's items per its policy, applying Prefix to each.
func (v Value) Render() string {
	items := v.Items
	if v.Prefix != "" {
		prefixed := make([]string, len(items))
		for i, it := range items {
			prefixed[i] = v.Prefix + it
		}
		items = prefixed
	}
	sep := " "
	if v.Policy == JoinNewline {
		sep = "\n"
	}
	return strings.Join(items, sep)
}

// Context supplies concrete values for tags during expansion.
type Context struct {
	values map[Tag]Value
	// PassThrough tags are emitted as literal Ninja "${name}" text instead
	// of being resolved to a concrete value - used by the rule-emission
	// expansion context for tags that vary per build statement.
	PassThrough map[Tag]bool
}

// NewContext constructs an empty Context.
func NewContext() *Context {
	return &Context{values: map[Tag]Value{}}
}

// Set stores v as the value for tag.
func (c *Context) Set(tag Tag, v Value) {
	if c.values == nil {
		c.values = map[Tag]Value{}
	}
	c.values[tag] = v
}

// Value returns the concrete Value bound to tag, if any. Used by callers
// that need to read a binding back out rather than expand a pattern with
// it (e.g. writing a Ninja build-statement variable line per bound tag).
func (c *Context) Value(tag Tag) (Value, bool) {
	v, ok := c.values[tag]
	return v, ok
}

// MarkPassThrough marks tag to be emitted as "${name}" rather than resolved.
func (c *Context) MarkPassThrough(tag Tag) {
	if c.PassThrough == nil {
		c.PassThrough = map[Tag]bool{}
	}
	c.PassThrough[tag] = true
}

// ExpandError reports a tag a Context could not supply a value for.
type ExpandError struct {
	Pattern string
	Tag     Tag
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("no substitution value supplied for {{%s}} in pattern %q", e.Tag.Name(), e.Pattern)
}

// Expand renders p against ctx. Expansion is purely a linear walk of the
// parsed segments: no re-parsing of substituted values occurs.
func (p Pattern) Expand(ctx *Context) (string, error) {
	var b strings.Builder
	for _, seg := range p.Segments {
		if !seg.IsTag {
			b.WriteString(seg.Literal)
			continue
		}
		if ctx.PassThrough[seg.Tag] {
			b.WriteString("${" + seg.Tag.Name() + "}")
			continue
		}
		v, ok := ctx.values[seg.Tag]
		if !ok {
			return "", &ExpandError{Pattern: p.source, Tag: seg.Tag}
		}
		b.WriteString(v.Render())
	}
	return b.String(), nil
}

// MustExpand is like Expand but panics on error.
func (p Pattern) MustExpand(ctx *Context) string {
	s, err := p.Expand(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// ExpandAll expands every pattern in the list, in order.
func (l List) ExpandAll(ctx *Context) ([]string, error) {
	out := make([]string, 0, len(l.Patterns))
	for _, p := range l.Patterns {
		s, err := p.Expand(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
