package runtime

import (
	"maps"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/view"
)

// ComponentRef is a live component: its state, its view and the host
// element the view is rendered into.
type ComponentRef struct {
	tree     *tree
	def      *module.ComponentDef
	compiled *module.Compiled
	state    map[string]any

	host     *dom.Node
	hostNode *view.Node
	view     *viewState

	// slots holds the host content distributed to each <ng-content>,
	// keyed by its select attribute.
	slots map[string][]*view.Node

	templates []*TemplateRef
	container *ViewContainerRef
	destroyed bool

	// root is set for components created by CreateComponent, whose host is
	// not part of any view.
	root bool
}

func (t *tree) newComponent(c *module.Compiled, host *dom.Node, hostNode *view.Node, content []template.Node, built []*view.Node) *ComponentRef {
	ref := &ComponentRef{
		tree:     t,
		def:      c.Def,
		compiled: c,
		host:     host,
		hostNode: hostNode,
		slots:    distribute(c.Doc.ContentSelectors, content, built),
	}
	if c.Def.New != nil {
		ref.state = c.Def.New()
	}
	if ref.state == nil {
		ref.state = make(map[string]any)
	}

	vs := &viewState{tree: t, comp: ref, refs: make(map[string]any)}
	vs.syncs = append(vs.syncs, func() {
		host.Children = t.env.dom.Flatten(vs.view)
	})
	ref.view = vs
	vs.init(c.Doc.Nodes)
	return ref
}

// distribute assigns each top-level host content node to the first
// <ng-content> whose selector matches it, or to the default slot. Content
// matching no slot is not rendered.
func distribute(selectors []string, content []template.Node, built []*view.Node) map[string][]*view.Node {
	if len(selectors) == 0 || len(content) == 0 {
		return nil
	}
	type slot struct {
		name string
		sel  schema.Selector
	}
	var named []slot
	hasDefault := false
	for _, s := range selectors {
		if s == "*" {
			hasDefault = true
			continue
		}
		if sel, err := schema.ParseSelector(s); err == nil {
			named = append(named, slot{name: s, sel: sel})
		}
	}

	slots := make(map[string][]*view.Node)
	for i, n := range content {
		target := ""
		if tag, attrs, ok := projectionTarget(n); ok {
			for _, s := range named {
				if s.sel.Match(tag, attrs) {
					target = s.name
					break
				}
			}
		}
		if target == "" {
			if !hasDefault {
				continue
			}
			target = "*"
		}
		slots[target] = append(slots[target], built[i])
	}
	return slots
}

// projectionTarget returns the tag and attributes a content node is
// matched with. A structural directive's template is matched as the
// element it was written on.
func projectionTarget(n template.Node) (string, map[string]string, bool) {
	switch x := n.(type) {
	case *template.Element:
		return x.Name, template.AttributeNames(x.Attrs, x.Inputs), true
	case *template.Container:
		return "ng-container", template.AttributeNames(x.Attrs, x.Inputs), true
	case *template.Template:
		if x.TagName != "ng-template" && len(x.Children) == 1 {
			return projectionTarget(x.Children[0])
		}
		return "ng-template", template.AttributeNames(x.Attrs, x.Inputs), true
	}
	return "", nil, false
}

// Def returns the component's definition.
func (c *ComponentRef) Def() *module.ComponentDef { return c.def }

// Module returns the module that declares the component.
func (c *ComponentRef) Module() *module.ModuleDef { return c.compiled.Module }

// Instance returns the component state. Expressions in the template read
// it; changes become visible on the next DetectChanges.
func (c *ComponentRef) Instance() map[string]any { return c.state }

// Get implements template.Getter so that #ref="exportAs" references to a
// component can be used in expressions.
func (c *ComponentRef) Get(name string) (any, bool) {
	v, ok := c.state[name]
	return v, ok
}

// Set updates one state value.
func (c *ComponentRef) Set(key string, v any) { c.state[key] = v }

// SetState merges values into the state.
func (c *ComponentRef) SetState(values map[string]any) { maps.Copy(c.state, values) }

// DetectChanges evaluates the component's bindings and those of every view
// and child component beneath it.
func (c *ComponentRef) DetectChanges() {
	if c.destroyed {
		return
	}
	c.detectChanges()
}

func (c *ComponentRef) detectChanges() {
	c.view.detectChanges()
	if c.root && c.container != nil {
		for _, v := range c.container.c.Views() {
			if s := c.tree.states[v]; s != nil {
				s.detectChanges()
			}
		}
	}
}

// Query returns the value of the template reference #ref declared in the
// component's own view: a *TemplateRef, a *dom.Node, a child
// *ComponentRef or a directive instance. Nil when there is none.
func (c *ComponentRef) Query(ref string) any {
	return c.view.refs[strings.ToLower(ref)]
}

// Template returns the <ng-template> referenced as #ref.
func (c *ComponentRef) Template(ref string) (*TemplateRef, error) {
	if t, ok := c.Query(ref).(*TemplateRef); ok {
		return t, nil
	}
	return nil, &UnknownRefError{Component: c.def.Name, Ref: ref}
}

// Templates returns the templates declared at the top level of the
// component's view, in document order.
func (c *ComponentRef) Templates() []*TemplateRef { return c.templates }

// ViewContainer returns the container anchored at the host element. Its
// views render after the host.
func (c *ComponentRef) ViewContainer() *ViewContainerRef {
	if c.container == nil {
		c.container = &ViewContainerRef{c: c.hostNode.Attach(), tree: c.tree}
	}
	return c.container
}

// HostElement returns the element the component is rendered into. Its
// children reflect the view as of the last change detection.
func (c *ComponentRef) HostElement() *dom.Node { return c.host }

// RootNodes returns the root nodes of the component's view.
func (c *ComponentRef) RootNodes() []*dom.Node {
	return c.tree.env.flattener.Flatten(c.view.view)
}

// Destroy destroys the component's view, its child components and the
// views in its container.
func (c *ComponentRef) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.container != nil {
		c.container.Clear()
	}
	c.view.view.Destroy()
}

// Destroyed reports whether Destroy has been called.
func (c *ComponentRef) Destroyed() bool { return c.destroyed }
