package runtime

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/view"
)

// Directive instances created by a DirectiveDef's New may implement any of
// the interfaces below.

// Attacher receives the directive's host once, right after creation.
type Attacher interface {
	Attach(h *Host)
}

// InputSetter receives input values. name is the input as declared in
// DirectiveDef.Inputs.
type InputSetter interface {
	SetInput(name string, value any)
}

// Checker is called on every change detection after the inputs of the
// host have been set.
type Checker interface {
	Check()
}

// Destroyer is called when the view holding the directive is destroyed.
type Destroyer interface {
	Destroy()
}

// Host is what a directive sees of the node it is attached to.
type Host struct {
	// Element is the native node: an element, or the anchor comment of an
	// <ng-template> or <ng-container>.
	Element *dom.Node

	// Template is set when the host is an <ng-template>, including one
	// produced by a *directive.
	Template *TemplateRef

	node      *view.Node
	vs        *viewState
	container *ViewContainerRef
}

// Container returns the view container anchored at the host. Views created
// in it are rendered right after the host node.
func (h *Host) Container() *ViewContainerRef {
	if h.container == nil {
		h.container = &ViewContainerRef{c: h.node.Attach(), tree: h.vs.tree}
	}
	return h.container
}

// directive is an instantiated directive.
type directive struct {
	def  *module.DirectiveDef
	inst any
}

func newDirective(def *module.DirectiveDef, h *Host) *directive {
	var inst any = struct{}{}
	if def.New != nil {
		inst = def.New()
	}
	if a, ok := inst.(Attacher); ok {
		a.Attach(h)
	}
	return &directive{def: def, inst: inst}
}

// input returns the declared name of input, matched case-insensitively.
func (d *directive) input(name string) (string, bool) {
	return declared(d.def.Inputs, name)
}

func (d *directive) set(name string, v any) {
	if s, ok := d.inst.(InputSetter); ok {
		s.SetInput(name, v)
	}
}

func (d *directive) check() {
	if c, ok := d.inst.(Checker); ok {
		c.Check()
	}
}

func (d *directive) destroy() {
	if x, ok := d.inst.(Destroyer); ok {
		x.Destroy()
	}
}

func declared(inputs []string, name string) (string, bool) {
	for _, in := range inputs {
		if strings.EqualFold(in, name) {
			return in, true
		}
	}
	return "", false
}
