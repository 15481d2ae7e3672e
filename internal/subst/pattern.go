package subst

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches a single {{tag_name}} placeholder.
const placeholderPattern = `\{\{([a-z_]+)\}\}`

// Segment is one piece of a parsed Pattern: either a literal string or a tag
// to be substituted at expansion time.
type Segment struct {
	Literal string // valid when IsTag is false
	Tag     Tag    // valid when IsTag is true
	IsTag   bool
}

// Pattern is a sequence of literal and tag segments, plus a bitset recording
// which tags it requires, so required-input discovery doesn't need to
// re-walk the segment list.
type Pattern struct {
	Segments []Segment
	Required Bitset
	source   string
}

// Bitset tracks a set of Tag values using a single machine word; ~40 tags
// comfortably fit in a uint64.
type Bitset uint64

// Set marks t as present.
func (b *Bitset) Set(t Tag) { *b |= Bitset(1) << uint(t) }

// Has reports whether t is present.
func (b Bitset) Has(t Tag) bool { return b&(Bitset(1)<<uint(t)) != 0 }

// Union returns the bitwise union of b and other.
func (b Bitset) Union(other Bitset) Bitset { return b | other }

// ParseError is returned when a pattern uses an unrecognised placeholder.
type ParseError struct {
	Pattern string
	Tag     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("InvalidPlaceholder: unknown substitution tag {{%s}} in pattern %q", e.Tag, e.Pattern)
}

// compiledPlaceholder is placeholderPattern compiled once for the indexed
// scan in ParsePattern; expansion in expand.go walks the parsed segments
// and does not use it.
var compiledPlaceholder = regexp.MustCompile(placeholderPattern)

// ParsePattern parses raw into a Pattern. Every {{...}} token must name a
// known tag or parsing fails with *ParseError.
func ParsePattern(raw string) (Pattern, error) {
	matches := compiledPlaceholder.FindAllStringSubmatchIndex(raw, -1)
	p := Pattern{source: raw}
	pos := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]
		if start > pos {
			p.Segments = append(p.Segments, Segment{Literal: raw[pos:start]})
		}
		name := raw[nameStart:nameEnd]
		tag, ok := LookupTag(name)
		if !ok {
			return Pattern{}, &ParseError{Pattern: raw, Tag: name}
		}
		p.Segments = append(p.Segments, Segment{Tag: tag, IsTag: true})
		p.Required.Set(tag)
		pos = end
	}
	if pos < len(raw) {
		p.Segments = append(p.Segments, Segment{Literal: raw[pos:]})
	}
	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original, unparsed pattern text.
func (p Pattern) String() string { return p.source }

// ValidateDomain returns an "InvalidPlaceholder" error if p uses any tag
// outside of allowed.
func (p Pattern) ValidateDomain(allowed Domain) error {
	for _, seg := range p.Segments {
		if seg.IsTag && !seg.Tag.ValidIn(allowed) {
			return fmt.Errorf("InvalidPlaceholder: tag {{%s}} is not valid here (pattern %q)", seg.Tag.Name(), p.source)
		}
	}
	return nil
}

// IsEmpty reports whether this pattern was never set (zero value).
func (p Pattern) IsEmpty() bool { return p.source == "" && len(p.Segments) == 0 }
