package schema

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/vtree/pkg/template"
)

// Directive is a directive or component visible in a compilation scope.
type Directive struct {
	Name     string
	Selector Selector

	// Inputs are the lower-case property names the directive accepts.
	Inputs []string

	Component bool
}

// HasInput reports whether name is one of the directive's inputs.
func (d *Directive) HasInput(name string) bool {
	name = strings.ToLower(name)
	for _, in := range d.Inputs {
		if strings.ToLower(in) == name {
			return true
		}
	}
	return false
}

// Scope is the set of directives a template may use.
type Scope []*Directive

// Match returns the directives whose selector matches the element.
func (s Scope) Match(tag string, attrs map[string]string) []*Directive {
	var out []*Directive
	for _, d := range s {
		if d.Selector.Match(tag, attrs) {
			out = append(out, d)
		}
	}
	return out
}

// Component returns the component matching the element, if any.
func (s Scope) Component(tag string, attrs map[string]string) *Directive {
	for _, d := range s {
		if d.Component && d.Selector.Match(tag, attrs) {
			return d
		}
	}
	return nil
}

// Validator checks templates against a DOM schema.
type Validator struct {
	dom      *DOM
	severity Severity
	logger   *slog.Logger
	observe  func(*UnknownSchemaMemberError)
}

// Option configures a Validator.
type Option func(*Validator)

// WithDOM replaces the HTML element schema.
func WithDOM(dom *DOM) Option {
	return func(v *Validator) {
		v.dom = dom
	}
}

// WithSeverity sets what Check does with diagnostics.
func WithSeverity(s Severity) Option {
	return func(v *Validator) {
		v.severity = s
	}
}

// WithLogger sets the logger used in warn mode.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithObserver registers a callback invoked for every diagnostic Check
// sees, whatever the severity.
func WithObserver(fn func(*UnknownSchemaMemberError)) Option {
	return func(v *Validator) {
		v.observe = fn
	}
}

// New creates a Validator. The default is strict HTML validation with
// SeverityError.
func New(opts ...Option) *Validator {
	v := &Validator{dom: HTML}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default().With("component", "schema")
	}
	return v
}

// Severity returns the configured severity.
func (v *Validator) Severity() Severity { return v.severity }

// Check validates doc and applies the severity policy. In error mode the
// first diagnostic is returned; in warn mode every diagnostic is logged and
// Check returns nil.
func (v *Validator) Check(doc *template.Document, scope Scope, schemas []Schema) error {
	diags := v.Validate(doc, scope, schemas)
	if v.observe != nil {
		for _, d := range diags {
			v.observe(d)
		}
	}
	if len(diags) == 0 {
		return nil
	}
	if v.severity == SeverityError {
		return diags[0]
	}
	for _, d := range diags {
		v.logger.Warn(d.Error(),
			"code", d.Code(),
			"kind", d.Kind.String(),
			"element", d.Element,
			"property", d.Property,
			"file", d.File,
			"line", d.Line,
			"column", d.Column,
		)
	}
	return nil
}

// Validate returns every unknown member of doc in document order.
func (v *Validator) Validate(doc *template.Document, scope Scope, schemas []Schema) []*UnknownSchemaMemberError {
	if has(schemas, NoErrors) {
		return nil
	}
	w := &walker{v: v, doc: doc, scope: scope, custom: has(schemas, CustomElements)}
	template.Walk(doc.Nodes, w.visit)
	return w.diags
}

type walker struct {
	v      *Validator
	doc    *template.Document
	scope  Scope
	custom bool
	diags  []*UnknownSchemaMemberError
}

func (w *walker) report(kind MemberKind, element, property string, pos template.Position) {
	w.diags = append(w.diags, &UnknownSchemaMemberError{
		Kind:     kind,
		Element:  element,
		Property: property,
		File:     w.doc.File,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

func (w *walker) visit(n template.Node) bool {
	switch x := n.(type) {
	case *template.Element:
		w.element(x)
	case *template.Template:
		w.embedded(x)
	case *template.Container:
		matched := w.scope.Match("ng-container", template.AttributeNames(x.Attrs, x.Inputs))
		for _, in := range x.Inputs {
			if !consumed(matched, in.Name) {
				w.report(UnknownProperty, "ng-container", in.Name, in.Pos)
			}
		}
	}
	return true
}

func (w *walker) element(e *template.Element) {
	matched := w.scope.Match(e.Name, template.AttributeNames(e.Attrs, e.Inputs))
	customOK := w.custom && strings.Contains(e.Name, "-")

	if !customOK && len(matched) == 0 && !w.v.dom.HasElement(e.Name) {
		w.report(UnknownElement, e.Name, "", e.Position)
	}
	if customOK {
		return
	}
	for _, in := range e.Inputs {
		if isSpecialBinding(in.Name) || consumed(matched, in.Name) || w.v.dom.HasProperty(e.Name, in.Name) {
			continue
		}
		w.report(UnknownProperty, e.Name, in.Name, in.Pos)
	}
}

func (w *walker) embedded(t *template.Template) {
	matched := w.scope.Match("ng-template", template.AttributeNames(t.Attrs, t.Inputs))
	for _, in := range t.Inputs {
		if !consumed(matched, in.Name) {
			w.report(UnusedTemplateBinding, "ng-template", in.Name, t.Position)
		}
	}
}

func consumed(ds []*Directive, name string) bool {
	for _, d := range ds {
		if d.HasInput(name) {
			return true
		}
	}
	return false
}

// isSpecialBinding reports attr., class. and style. bindings, which are
// always allowed.
func isSpecialBinding(name string) bool {
	return strings.HasPrefix(name, "attr.") ||
		strings.HasPrefix(name, "class.") ||
		strings.HasPrefix(name, "style.")
}
