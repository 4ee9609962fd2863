package module

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/schema"
)

// Scope is the set of components and directives a template compiled in
// Module may use.
type Scope struct {
	Module     *ModuleDef
	Components []*ComponentDef
	Directives []*DirectiveDef
	Schemas    []schema.Schema

	components []*schema.Directive
	directives []*schema.Directive
}

// Schema returns the scope in the form the template validator expects.
func (s *Scope) Schema() schema.Scope {
	out := make(schema.Scope, 0, len(s.components)+len(s.directives))
	out = append(out, s.components...)
	return append(out, s.directives...)
}

// MatchComponent returns the first component whose selector matches the
// element, or nil.
func (s *Scope) MatchComponent(tag string, attrs map[string]string) *ComponentDef {
	for i, d := range s.components {
		if d.Selector.Match(tag, attrs) {
			return s.Components[i]
		}
	}
	return nil
}

// MatchDirectives returns the directives whose selector matches the
// element, in scope order.
func (s *Scope) MatchDirectives(tag string, attrs map[string]string) []*DirectiveDef {
	var out []*DirectiveDef
	for i, d := range s.directives {
		if d.Selector.Match(tag, attrs) {
			out = append(out, s.Directives[i])
		}
	}
	return out
}

// Has reports whether the component is visible in the scope.
func (s *Scope) Has(c *ComponentDef) bool {
	for _, x := range s.Components {
		if x == c {
			return true
		}
	}
	return false
}

func (s *Scope) add(x Exportable, selectors map[Exportable]schema.Selector) {
	switch v := x.(type) {
	case *ComponentDef:
		if s.Has(v) {
			return
		}
		s.Components = append(s.Components, v)
		s.components = append(s.components, &schema.Directive{
			Name:      v.Name,
			Selector:  selectors[v],
			Inputs:    lower(v.Inputs),
			Component: true,
		})
	case *DirectiveDef:
		for _, d := range s.Directives {
			if d == v {
				return
			}
		}
		s.Directives = append(s.Directives, v)
		s.directives = append(s.directives, &schema.Directive{
			Name:     v.Name,
			Selector: selectors[v],
			Inputs:   lower(v.Inputs),
		})
	}
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// exported returns the declarables m exports, following re-exported
// modules.
func exported(m *ModuleDef, visited map[*ModuleDef]bool) []Exportable {
	if visited[m] {
		return nil
	}
	visited[m] = true

	var out []Exportable
	for _, x := range m.Exports {
		if sub, ok := x.(*ModuleDef); ok {
			out = append(out, exported(sub, visited)...)
			continue
		}
		out = append(out, x)
	}
	return out
}
