package subst

// List is an ordered sequence of Patterns, e.g. a tool's "outputs" field
// which may list several output file patterns.
type List struct {
	Patterns []Pattern
	Required Bitset
}

// ParseList parses each raw string into a Pattern and accumulates the union
// of required tags.
func ParseList(raws []string) (List, error) {
	l := List{Patterns: make([]Pattern, 0, len(raws))}
	for _, raw := range raws {
		p, err := ParsePattern(raw)
		if err != nil {
			return List{}, err
		}
		l.Patterns = append(l.Patterns, p)
		l.Required = l.Required.Union(p.Required)
	}
	return l, nil
}

// ValidateDomain checks every pattern in the list against allowed.
func (l List) ValidateDomain(allowed Domain) error {
	for _, p := range l.Patterns {
		if err := p.ValidateDomain(allowed); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the list has no patterns.
func (l List) IsEmpty() bool { return len(l.Patterns) == 0 }
