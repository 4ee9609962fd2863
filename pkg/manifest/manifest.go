package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/schema"
)

// CommonModuleName refers to runtime.CommonModule in imports and exports.
const CommonModuleName = "common"

// DefaultRootName names the module synthesised for a manifest that defines
// components but no modules.
const DefaultRootName = "AppModule"

// Manifest is the file form of a module tree.
type Manifest struct {
	Components []Component `json:"components" yaml:"components" validate:"dive"`
	Modules    []Module    `json:"modules,omitempty" yaml:"modules,omitempty" validate:"dive"`

	// Root names the module passed to the runtime. It may be omitted when
	// there is at most one module.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
}

// Component describes a component.
type Component struct {
	Name        string         `json:"name" yaml:"name" validate:"required"`
	Selector    string         `json:"selector,omitempty" yaml:"selector,omitempty"`
	Template    string         `json:"template,omitempty" yaml:"template,omitempty"`
	TemplateURL string         `json:"templateUrl,omitempty" yaml:"templateUrl,omitempty"`
	ExportAs    string         `json:"exportAs,omitempty" yaml:"exportAs,omitempty"`
	Inputs      []string       `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	State       map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
}

// Module describes a module. Declarations and exports name components;
// imports and exports name modules.
type Module struct {
	Name            string   `json:"name" yaml:"name" validate:"required"`
	Declarations    []string `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Imports         []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Exports         []string `json:"exports,omitempty" yaml:"exports,omitempty"`
	EntryComponents []string `json:"entryComponents,omitempty" yaml:"entryComponents,omitempty"`
	Bootstrap       []string `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	Schemas         []string `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// LoadFile reads a manifest. Files ending in .yaml or .yml are YAML;
// anything else is JSON.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E132").
			WithDetail("Failed to read " + path).
			WithSuggestion("Check the manifest setting in vtree.yaml").
			Wrap(err)
	}
	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Location == nil {
			e.WithLocation(path, 0, 0)
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates manifest data. ext selects the format as in
// LoadFile.
func Parse(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	if isYAML(ext) {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.New("E132").
				WithDetail("Failed to parse manifest: " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("E132").
			WithDetail("Failed to parse manifest: " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func isYAML(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".yaml" || ext == ".yml"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks required fields, duplicate names and schema names.
// References between entries are checked by Build.
func (m *Manifest) Validate() error {
	var msgs []string
	if err := validate.Struct(m); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.New("E132").Wrap(err)
		}
		for _, e := range verrs {
			field := strings.TrimPrefix(e.Namespace(), "Manifest.")
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		}
	}

	seen := make(map[string]bool)
	for _, c := range m.Components {
		if c.Name != "" && seen[c.Name] {
			msgs = append(msgs, fmt.Sprintf("component %s is defined twice", c.Name))
		}
		seen[c.Name] = true
	}
	seen = make(map[string]bool)
	for _, mod := range m.Modules {
		switch {
		case mod.Name == CommonModuleName:
			msgs = append(msgs, fmt.Sprintf("module name %q is reserved", CommonModuleName))
		case mod.Name != "" && seen[mod.Name]:
			msgs = append(msgs, fmt.Sprintf("module %s is defined twice", mod.Name))
		}
		seen[mod.Name] = true
		if _, err := schema.ParseSchemas(mod.Schemas); err != nil {
			msgs = append(msgs, fmt.Sprintf("module %s: %v", mod.Name, err))
		}
	}

	if len(msgs) == 0 {
		return nil
	}
	return errors.New("E132").WithDetail(strings.Join(msgs, "; "))
}

// Set is a built manifest.
type Set struct {
	Root       *module.ModuleDef
	Modules    map[string]*module.ModuleDef
	Components map[string]*module.ComponentDef
}

// Component returns the component named name.
func (s *Set) Component(name string) (*module.ComponentDef, bool) {
	c, ok := s.Components[name]
	return c, ok
}

// ComponentNames returns the component names in sorted order.
func (s *Set) ComponentNames() []string {
	names := make([]string, 0, len(s.Components))
	for n := range s.Components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build turns the manifest into definitions. Every component gets a fresh
// copy of its declared state each time it is instantiated.
func (m *Manifest) Build() (*Set, error) {
	set := &Set{
		Modules:    make(map[string]*module.ModuleDef, len(m.Modules)+1),
		Components: make(map[string]*module.ComponentDef, len(m.Components)),
	}
	for _, c := range m.Components {
		set.Components[c.Name] = newComponent(c)
	}
	set.Modules[CommonModuleName] = runtime.CommonModule
	for _, mod := range m.Modules {
		set.Modules[mod.Name] = &module.ModuleDef{Name: mod.Name}
	}

	for _, spec := range m.Modules {
		def := set.Modules[spec.Name]
		var err error
		if def.Declarations, err = set.components(spec.Name, "declarations", spec.Declarations); err != nil {
			return nil, err
		}
		if def.EntryComponents, err = set.components(spec.Name, "entryComponents", spec.EntryComponents); err != nil {
			return nil, err
		}
		if def.Bootstrap, err = set.components(spec.Name, "bootstrap", spec.Bootstrap); err != nil {
			return nil, err
		}
		for _, name := range spec.Imports {
			imp, ok := set.Modules[name]
			if !ok {
				return nil, unknownModule(spec.Name, name)
			}
			def.Imports = append(def.Imports, imp)
		}
		for _, name := range spec.Exports {
			if c, ok := set.Components[name]; ok {
				def.Exports = append(def.Exports, c)
				continue
			}
			mod, ok := set.Modules[name]
			if !ok {
				return nil, errors.New("E132").
					WithDetail(fmt.Sprintf("module %s exports %s, which is neither a component nor a module", spec.Name, name))
			}
			def.Exports = append(def.Exports, mod)
		}
		if def.Schemas, err = schema.ParseSchemas(spec.Schemas); err != nil {
			return nil, errors.New("E132").
				WithDetail(fmt.Sprintf("module %s: %v", spec.Name, err)).
				WithSuggestion("Use CUSTOM_ELEMENTS_SCHEMA or NO_ERRORS_SCHEMA").
				Wrap(err)
		}
	}

	root, err := m.root(set)
	if err != nil {
		return nil, err
	}
	set.Root = root
	return set, nil
}

func (m *Manifest) root(set *Set) (*module.ModuleDef, error) {
	switch {
	case m.Root != "":
		root, ok := set.Modules[m.Root]
		if !ok {
			return nil, unknownModule("root", m.Root)
		}
		return root, nil
	case len(m.Modules) == 1:
		return set.Modules[m.Modules[0].Name], nil
	case len(m.Modules) == 0:
		root := &module.ModuleDef{Name: DefaultRootName}
		for _, c := range m.Components {
			root.Declarations = append(root.Declarations, set.Components[c.Name])
		}
		return root, nil
	}
	return nil, errors.New("E132").
		WithDetail("the manifest defines several modules but no root").
		WithSuggestion("Set root to the name of the application module")
}

func (s *Set) components(mod, field string, names []string) ([]*module.ComponentDef, error) {
	var out []*module.ComponentDef
	for _, name := range names {
		c, ok := s.Components[name]
		if !ok {
			return nil, errors.New("E132").
				WithDetail(fmt.Sprintf("module %s: %s names unknown component %s", mod, field, name))
		}
		out = append(out, c)
	}
	return out, nil
}

func unknownModule(from, name string) error {
	return errors.New("E102").
		WithDetail(fmt.Sprintf("%s refers to module %s, which the manifest does not define", from, name)).
		WithSuggestion(fmt.Sprintf("Define module %s or import %q for the built-in directives", name, CommonModuleName))
}

func newComponent(c Component) *module.ComponentDef {
	def := &module.ComponentDef{
		Name:        c.Name,
		Selector:    c.Selector,
		Template:    c.Template,
		TemplateURL: c.TemplateURL,
		ExportAs:    c.ExportAs,
		Inputs:      c.Inputs,
	}
	if c.State != nil {
		state := c.State
		def.New = func() map[string]any {
			return deepCopy(state).(map[string]any)
		}
	}
	return def
}

// deepCopy copies the maps and slices decoded from YAML or JSON.
func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
