package schema

import (
	"fmt"
	"strings"
)

// Selector is a parsed directive selector: a comma-separated list of
// compound selectors. A compound selector matches when its tag (if any),
// every attribute condition and every class match.
type Selector struct {
	source    string
	compounds []compound
}

type compound struct {
	tag     string
	attrs   []attrCond
	classes []string
}

type attrCond struct {
	name     string
	value    string
	hasValue bool
}

// ParseSelector parses selectors such as "custom-el", "[ngIf]",
// "button[type=submit]", ".card" and "a, [routerLink]".
func ParseSelector(src string) (Selector, error) {
	sel := Selector{source: src}
	for _, part := range strings.Split(src, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Selector{}, fmt.Errorf("schema: empty selector in %q", src)
		}
		c, err := parseCompound(part)
		if err != nil {
			return Selector{}, fmt.Errorf("schema: selector %q: %w", src, err)
		}
		sel.compounds = append(sel.compounds, c)
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(src string) Selector {
	s, err := ParseSelector(src)
	if err != nil {
		panic(err)
	}
	return s
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("[].,=\"' ", rune(s[i])) {
			i++
		}
		return strings.ToLower(s[start:i])
	}

	if s[0] != '[' && s[0] != '.' {
		c.tag = readName()
		if c.tag == "*" {
			c.tag = ""
		}
	}
	for i < len(s) {
		switch s[i] {
		case '[':
			i++
			cond := attrCond{name: readName()}
			if cond.name == "" {
				return c, fmt.Errorf("missing attribute name")
			}
			if i < len(s) && s[i] == '=' {
				i++
				end := strings.IndexByte(s[i:], ']')
				if end < 0 {
					return c, fmt.Errorf("unterminated attribute selector")
				}
				cond.value = strings.Trim(s[i:i+end], `"'`)
				cond.hasValue = true
				i += end
			}
			if i >= len(s) || s[i] != ']' {
				return c, fmt.Errorf("unterminated attribute selector")
			}
			i++
			c.attrs = append(c.attrs, cond)
		case '.':
			i++
			class := readName()
			if class == "" {
				return c, fmt.Errorf("missing class name")
			}
			c.classes = append(c.classes, class)
		default:
			return c, fmt.Errorf("unexpected %q", s[i])
		}
	}
	return c, nil
}

// String returns the selector source.
func (s Selector) String() string { return s.source }

// IsZero reports whether the selector is empty and matches nothing.
func (s Selector) IsZero() bool { return len(s.compounds) == 0 }

// Tag returns the element name of the first compound that has one.
func (s Selector) Tag() string {
	for _, c := range s.compounds {
		if c.tag != "" {
			return c.tag
		}
	}
	return ""
}

// Match reports whether an element with the given tag and attributes
// matches. attrs maps lower-case attribute names to values; bound
// properties appear with an empty value.
func (s Selector) Match(tag string, attrs map[string]string) bool {
	tag = strings.ToLower(tag)
	for _, c := range s.compounds {
		if c.match(tag, attrs) {
			return true
		}
	}
	return false
}

// MatchesTag reports whether one of the compounds names tag explicitly.
func (s Selector) MatchesTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, c := range s.compounds {
		if c.tag == tag {
			return true
		}
	}
	return false
}

func (c compound) match(tag string, attrs map[string]string) bool {
	if c.tag != "" && c.tag != tag {
		return false
	}
	for _, a := range c.attrs {
		v, ok := attrs[a.name]
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	if len(c.classes) > 0 {
		have := strings.Fields(strings.ToLower(attrs["class"]))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
