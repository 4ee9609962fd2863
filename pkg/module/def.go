package module

import "github.com/vango-dev/vtree/pkg/schema"

// Exportable is a value that can appear in ModuleDef.Exports:
// a *ComponentDef, *DirectiveDef or *ModuleDef.
type Exportable interface {
	exportName() string
}

// ComponentDef declares a component.
type ComponentDef struct {
	Name     string
	Selector string

	// Template is the inline template. TemplateURL is loaded through the
	// registry's source.Loader when Template is empty.
	Template    string
	TemplateURL string

	// ExportAs names the instance for #ref="name" references.
	ExportAs string

	// Inputs are the properties a host template may bind.
	Inputs []string

	// New returns the initial component state. A nil New means an empty
	// state.
	New func() map[string]any
}

func (c *ComponentDef) exportName() string { return c.Name }

func (c *ComponentDef) String() string { return c.Name }

// DirectiveDef declares an attribute or structural directive.
type DirectiveDef struct {
	Name     string
	Selector string
	Inputs   []string
	ExportAs string

	// New creates the directive instance. The runtime recognises the
	// interfaces the instance implements.
	New func() any
}

func (d *DirectiveDef) exportName() string { return d.Name }

func (d *DirectiveDef) String() string { return d.Name }

// ModuleDef groups declarations and controls their visibility.
type ModuleDef struct {
	Name         string
	Declarations []*ComponentDef
	Directives   []*DirectiveDef
	Imports      []*ModuleDef
	Exports      []Exportable

	// EntryComponents and Bootstrap are created dynamically and must be
	// declared by some loaded module.
	EntryComponents []*ComponentDef
	Bootstrap       []*ComponentDef

	Schemas []schema.Schema
}

func (m *ModuleDef) exportName() string { return m.Name }

func (m *ModuleDef) String() string { return m.Name }

// Declares reports whether m itself declares the component.
func (m *ModuleDef) Declares(c *ComponentDef) bool {
	for _, d := range m.Declarations {
		if d == c {
			return true
		}
	}
	return false
}
