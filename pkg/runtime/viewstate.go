package runtime

import (
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/view"
)

// viewState is the runtime side of a view: the bindings to refresh, the
// directives and child components it created and the names its
// expressions can see.
type viewState struct {
	tree *tree
	comp *ComponentRef

	// parent is the view the template was declared in; nil for a
	// component's own view.
	parent *viewState

	view    *view.View
	context map[string]any
	vars    map[string]string // lower-cased variable name -> context key
	refs    map[string]any    // lower-cased reference name -> value

	updates    []func()
	syncs      []func()
	children   []*ComponentRef
	directives []*directive
	handle     *ViewRef
}

func (vs *viewState) ref() *ViewRef {
	if vs.handle == nil {
		vs.handle = &ViewRef{vs: vs}
	}
	return vs.handle
}

// child returns the state of an embedded view declared in vs.
func (vs *viewState) child(ctx map[string]any, vars []template.Variable) *viewState {
	c := &viewState{
		tree:    vs.tree,
		comp:    vs.comp,
		parent:  vs,
		context: ctx,
		refs:    make(map[string]any),
	}
	if len(vars) > 0 {
		c.vars = make(map[string]string, len(vars))
		for _, v := range vars {
			c.vars[strings.ToLower(v.Name)] = v.Value
		}
	}
	return c
}

// init builds nodes into a new view and registers it with the tree.
func (vs *viewState) init(nodes []template.Node) {
	vs.view = view.New(vs.build(nodes)...)
	vs.tree.states[vs.view] = vs
	vs.view.OnDestroy(vs.teardown)
	vs.tree.env.metrics.ViewCreated()
	vs.sync()
}

func (vs *viewState) teardown() {
	delete(vs.tree.states, vs.view)
	for _, d := range vs.directives {
		d.destroy()
	}
	for _, c := range vs.children {
		c.Destroy()
	}
	vs.tree.env.metrics.ViewDestroyed()
}

// Lookup implements template.Scope. Variables and references are searched
// from the innermost view outwards; the component state comes last.
func (vs *viewState) Lookup(name string) (any, bool) {
	key := strings.ToLower(name)
	for s := vs; s != nil; s = s.parent {
		if ck, ok := s.vars[key]; ok {
			return contextValue(s.context, ck), true
		}
		if v, ok := s.refs[key]; ok {
			return v, true
		}
	}
	v, ok := vs.comp.state[name]
	return v, ok
}

func contextValue(ctx map[string]any, key string) any {
	if v, ok := ctx[key]; ok {
		return v
	}
	for k, v := range ctx {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func (vs *viewState) scope() *module.Scope { return vs.comp.compiled.Scope }

// detectChanges refreshes bindings, then the views in this view's
// containers, then child components, and finally re-syncs DOM children.
func (vs *viewState) detectChanges() {
	for _, u := range vs.updates {
		u()
	}
	vs.walk(vs.view.Nodes())
	for _, c := range vs.children {
		c.detectChanges()
	}
	vs.sync()
}

func (vs *viewState) walk(nodes []*view.Node) {
	for _, n := range nodes {
		if n.Container != nil {
			for _, v := range n.Container.Views() {
				if s := vs.tree.states[v]; s != nil {
					s.detectChanges()
				}
			}
		}
		vs.walk(n.Children)
	}
}

func (vs *viewState) sync() {
	for _, s := range vs.syncs {
		s()
	}
}

func (vs *viewState) build(nodes []template.Node) []*view.Node {
	out := make([]*view.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, vs.buildNode(n))
	}
	return out
}

func (vs *viewState) buildNode(n template.Node) *view.Node {
	switch x := n.(type) {
	case *template.Element:
		return vs.element(x)
	case *template.Template:
		return vs.embedded(x)
	case *template.Container:
		return vs.container(x)
	case *template.Content:
		return view.NewProjection(vs.comp.slots[x.Select]...)
	case *template.ICU:
		return vs.icu(x)
	case *template.Text:
		return vs.text(x)
	}
	return view.NewComment(dom.NewComment(""))
}

func (vs *viewState) text(x *template.Text) *view.Node {
	native := dom.NewText("")
	if x.Value.Static() {
		native.Data = template.Stringify(x.Value.Eval(vs))
	} else {
		vs.updates = append(vs.updates, func() {
			native.Data = template.Stringify(x.Value.Eval(vs))
		})
	}
	return view.NewText(native)
}

func (vs *viewState) element(x *template.Element) *view.Node {
	native := dom.NewElement(x.Name)
	for _, a := range x.Attrs {
		native.SetAttr(a.Name, a.Value)
	}
	node := view.NewElement(native)
	attrs := template.AttributeNames(x.Attrs, x.Inputs)
	host := &Host{Element: native, node: node, vs: vs}
	dirs := vs.instantiate(vs.scope().MatchDirectives(x.Name, attrs), host)
	at := len(vs.updates)

	var child *ComponentRef
	if def := vs.scope().MatchComponent(x.Name, attrs); def != nil {
		if compiled := vs.tree.compiled[def]; compiled != nil {
			// Host content is declared here and projected into the child.
			node.Children = vs.build(x.Children)
			child = vs.tree.newComponent(compiled, native, node, x.Children, node.Children)
			vs.children = append(vs.children, child)
		}
	}
	if child == nil {
		node.Children = vs.build(x.Children)
		vs.syncs = append(vs.syncs, func() {
			native.Children = vs.tree.env.dom.FlattenNodes(node.Children)
		})
	}

	vs.staticInputs(x.Attrs, x.Inputs, dirs, child)
	vs.bind(at, native, x.Inputs, dirs, child, true)
	vs.addRefs(x.Refs, native, dirs, child)
	return node
}

func (vs *viewState) embedded(x *template.Template) *view.Node {
	native := dom.NewComment("container")
	node := view.NewAnchor(native)
	tpl := &TemplateRef{decl: vs, ast: x}
	if vs.parent == nil {
		vs.comp.templates = append(vs.comp.templates, tpl)
	}

	attrs := template.AttributeNames(x.Attrs, x.Inputs)
	host := &Host{Element: native, Template: tpl, node: node, vs: vs}
	dirs := vs.instantiate(vs.scope().MatchDirectives("ng-template", attrs), host)

	vs.staticInputs(x.Attrs, x.Inputs, dirs, nil)
	vs.bind(len(vs.updates), native, x.Inputs, dirs, nil, false)
	for _, r := range x.Refs {
		if r.Value == "" {
			vs.refs[strings.ToLower(r.Name)] = tpl
			continue
		}
		vs.refs[strings.ToLower(r.Name)] = vs.exported(r, dirs, nil)
	}
	return node
}

func (vs *viewState) container(x *template.Container) *view.Node {
	native := dom.NewComment("ng-container")
	node := view.NewElementContainer(native)
	attrs := template.AttributeNames(x.Attrs, x.Inputs)
	host := &Host{Element: native, node: node, vs: vs}
	dirs := vs.instantiate(vs.scope().MatchDirectives("ng-container", attrs), host)
	at := len(vs.updates)

	node.Children = vs.build(x.Children)
	vs.staticInputs(x.Attrs, x.Inputs, dirs, nil)
	vs.bind(at, native, x.Inputs, dirs, nil, false)
	vs.addRefs(x.Refs, native, dirs, nil)
	return node
}

// icu renders the selected case into a view anchored after the ICU
// comment, switching views when the selected case changes.
func (vs *viewState) icu(x *template.ICU) *view.Node {
	node := view.NewICU(dom.NewComment("ICU"))
	current := -1
	vs.updates = append(vs.updates, func() {
		idx := x.Select(x.Switch.Eval(vs), vs.tree.env.locale)
		if idx == current {
			return
		}
		node.Container.Clear()
		current = idx
		if idx < 0 {
			return
		}
		cs := vs.child(nil, nil)
		cs.init(x.Cases[idx].Nodes)
		// cs.view was just created, so Append cannot fail.
		_ = node.Container.Append(cs.view)
	})
	return node
}

func (vs *viewState) instantiate(defs []*module.DirectiveDef, h *Host) []*directive {
	dirs := make([]*directive, 0, len(defs))
	for _, def := range defs {
		d := newDirective(def, h)
		dirs = append(dirs, d)
		vs.directives = append(vs.directives, d)
	}
	return dirs
}

// staticInputs hands plain attributes that name an input to the directives
// and child component, unless a binding of the same name overrides them.
func (vs *viewState) staticInputs(attrs []template.Attribute, inputs []template.Binding, dirs []*directive, child *ComponentRef) {
	for _, a := range attrs {
		if bound(inputs, a.Name) {
			continue
		}
		for _, d := range dirs {
			if in, ok := d.input(a.Name); ok {
				d.set(in, a.Value)
			}
		}
		if child != nil {
			if in, ok := declared(child.def.Inputs, a.Name); ok {
				child.state[in] = a.Value
			}
		}
	}
}

func bound(inputs []template.Binding, name string) bool {
	for _, b := range inputs {
		if b.Name == name {
			return true
		}
	}
	return false
}

// bind registers the refresh of inputs at position at of the update list,
// ahead of the bindings of the node's children. Values go to every
// directive and child component declaring the input; when nothing consumes
// one and props is set, it becomes a DOM property.
func (vs *viewState) bind(at int, native *dom.Node, inputs []template.Binding, dirs []*directive, child *ComponentRef, props bool) {
	if len(inputs) == 0 && len(dirs) == 0 {
		return
	}
	vs.updates = slices.Insert(vs.updates, at, func() {
		for _, b := range inputs {
			v := b.Expr.Eval(vs)
			consumed := false
			for _, d := range dirs {
				if in, ok := d.input(b.Name); ok {
					d.set(in, v)
					consumed = true
				}
			}
			if child != nil {
				if in, ok := declared(child.def.Inputs, b.Name); ok {
					child.state[in] = v
					consumed = true
				}
			}
			if !consumed && props {
				setProperty(native, b.Name, v)
			}
		}
		for _, d := range dirs {
			d.check()
		}
	})
}

func (vs *viewState) addRefs(refs []template.Reference, native *dom.Node, dirs []*directive, child *ComponentRef) {
	for _, r := range refs {
		key := strings.ToLower(r.Name)
		switch {
		case r.Value != "":
			vs.refs[key] = vs.exported(r, dirs, child)
		case child != nil:
			vs.refs[key] = child
		default:
			vs.refs[key] = native
		}
	}
}

// exported resolves #ref="name" to the directive or component exported
// as name.
func (vs *viewState) exported(r template.Reference, dirs []*directive, child *ComponentRef) any {
	for _, d := range dirs {
		if d.def.ExportAs != "" && strings.EqualFold(d.def.ExportAs, r.Value) {
			return d.inst
		}
	}
	if child != nil && child.def.ExportAs != "" && strings.EqualFold(child.def.ExportAs, r.Value) {
		return child
	}
	vs.tree.env.logger.Warn("no directive exported under reference name",
		"component", vs.comp.def.Name, "ref", r.Name, "exportAs", r.Value,
		"line", r.Pos.Line, "column", r.Pos.Column)
	return nil
}
