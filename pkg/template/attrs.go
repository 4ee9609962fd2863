package template

import (
	"strings"
)

type structural struct {
	dir    string
	value  string
	inputs []Binding
	vars   []Variable
}

type classified struct {
	static     []Attribute
	inputs     []Binding
	outputs    []Event
	refs       []Reference
	vars       []Variable
	structural *structural
}

// classify sorts raw attributes by binding syntax.
func (p *parser) classify(raw []Attribute, pos Position) (*classified, error) {
	c := &classified{}
	for _, a := range raw {
		name, value := a.Name, a.Value
		switch {
		case strings.HasPrefix(name, "[(") && strings.HasSuffix(name, ")]"):
			prop := name[2 : len(name)-2]
			if err := c.addInput(p, prop, value, pos); err != nil {
				return nil, err
			}
			c.outputs = append(c.outputs, Event{Name: prop + "change", Handler: value + "=$event", Pos: pos})
		case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
			if err := c.addInput(p, name[1:len(name)-1], value, pos); err != nil {
				return nil, err
			}
		case strings.HasPrefix(name, "bind-"):
			if err := c.addInput(p, strings.TrimPrefix(name, "bind-"), value, pos); err != nil {
				return nil, err
			}
		case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
			c.outputs = append(c.outputs, Event{Name: name[1 : len(name)-1], Handler: value, Pos: pos})
		case strings.HasPrefix(name, "on-"):
			c.outputs = append(c.outputs, Event{Name: strings.TrimPrefix(name, "on-"), Handler: value, Pos: pos})
		case strings.HasPrefix(name, "#"):
			c.refs = append(c.refs, Reference{Name: name[1:], Value: value, Pos: pos})
		case strings.HasPrefix(name, "ref-"):
			c.refs = append(c.refs, Reference{Name: strings.TrimPrefix(name, "ref-"), Value: value, Pos: pos})
		case strings.HasPrefix(name, "let-"):
			key := value
			if key == "" {
				key = "$implicit"
			}
			c.vars = append(c.vars, Variable{Name: strings.TrimPrefix(name, "let-"), Value: key})
		case strings.HasPrefix(name, "*"):
			if c.structural != nil {
				return nil, p.errorf(pos, "can't have multiple template bindings on one element; use only one attribute prefixed with *")
			}
			s, err := parseMicrosyntax(name[1:], value)
			if err != nil {
				return nil, p.wrap(pos, err)
			}
			c.structural = s
		case name == "i18n" || strings.HasPrefix(name, "i18n-"):
			// Translation metadata has no runtime effect.
		case strings.Contains(value, "{{"):
			in, err := parseInterpolation(value, nil)
			if err != nil {
				return nil, p.wrap(pos, err)
			}
			c.inputs = append(c.inputs, Binding{Name: name, Source: value, Expr: in, Pos: pos})
		default:
			c.static = append(c.static, a)
		}
	}
	return c, nil
}

func (c *classified) addInput(p *parser, name, src string, pos Position) error {
	e, err := ParseExpr(src)
	if err != nil {
		return p.wrap(pos, err)
	}
	c.inputs = append(c.inputs, Binding{Name: name, Source: src, Expr: e, Pos: pos})
	return nil
}

// parseMicrosyntax expands a structural directive attribute such as
// *ngFor="let item of items; let i = index" into bindings and variables.
func parseMicrosyntax(dir, value string) (*structural, error) {
	s := &structural{dir: dir, value: value}
	bind := func(key, src string) error {
		e, err := ParseExpr(src)
		if err != nil {
			return err
		}
		s.inputs = append(s.inputs, Binding{Name: key, Source: src, Expr: e})
		return nil
	}

	segments := splitTopLevel(value)
	if len(segments) == 0 {
		// *ngIf with no value still applies the directive.
		s.inputs = append(s.inputs, Binding{Name: dir, Source: "", Expr: &Literal{Value: nil}})
		return s, nil
	}

	for i, seg := range segments {
		if strings.HasPrefix(seg, "let ") {
			rest := strings.TrimSpace(seg[4:])
			name, after := cutWord(rest)
			after = strings.TrimSpace(after)
			if strings.HasPrefix(after, "=") {
				key, _ := cutWord(strings.TrimSpace(after[1:]))
				s.vars = append(s.vars, Variable{Name: name, Value: key})
				continue
			}
			s.vars = append(s.vars, Variable{Name: name, Value: "$implicit"})
			if after == "" {
				continue
			}
			seg = after
		} else if i == 0 {
			expr, alias := cutAlias(seg)
			if err := bind(dir, expr); err != nil {
				return nil, err
			}
			if alias != "" {
				s.vars = append(s.vars, Variable{Name: alias, Value: dir})
			}
			continue
		}

		key, rest := cutWord(seg)
		key = strings.TrimSuffix(key, ":")
		rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "as ") {
			// index as i
			s.vars = append(s.vars, Variable{Name: strings.TrimSpace(rest[3:]), Value: key})
			continue
		}
		expr, alias := cutAlias(rest)
		name := dir + strings.ToLower(key)
		if err := bind(name, expr); err != nil {
			return nil, err
		}
		if alias != "" {
			s.vars = append(s.vars, Variable{Name: alias, Value: name})
		}
	}
	return s, nil
}

// splitTopLevel splits on ';' and ',' outside quotes and parentheses.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	flush := func(end int) {
		if seg := strings.TrimSpace(s[start:end]); seg != "" {
			out = append(out, seg)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case (c == ';' || c == ',') && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return out
}

func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func cutAlias(s string) (expr, alias string) {
	if i := strings.LastIndex(s, " as "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+4:])
	}
	return strings.TrimSpace(s), ""
}
