package runtime

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/view"
)

// TemplateRef is a reference to an <ng-template> that can be stamped out
// into embedded views. Embedded views see the variables of the view the
// template was declared in.
type TemplateRef struct {
	decl *viewState
	ast  *template.Template
}

// CreateEmbeddedView instantiates the template with ctx as its context.
// The view is not inserted anywhere; its bindings are evaluated by
// DetectChanges.
func (t *TemplateRef) CreateEmbeddedView(ctx map[string]any) *ViewRef {
	if ctx == nil {
		ctx = make(map[string]any)
	}
	vs := t.decl.child(ctx, t.ast.Variables)
	vs.init(t.ast.Children)
	return vs.ref()
}

// Refs returns the names of the template's references.
func (t *TemplateRef) Refs() []string {
	names := make([]string, len(t.ast.Refs))
	for i, r := range t.ast.Refs {
		names[i] = r.Name
	}
	return names
}

// ViewRef is a handle to an embedded view.
type ViewRef struct {
	vs *viewState
}

// RootNodes returns the view's root nodes in document order, descending
// into view containers, element containers, ICU containers and projection
// slots.
func (r *ViewRef) RootNodes() []*dom.Node {
	return r.vs.tree.env.flattener.Flatten(r.vs.view)
}

// DetectChanges evaluates the view's bindings and those of every view
// nested in it.
func (r *ViewRef) DetectChanges() {
	if r.vs.view.Destroyed() {
		return
	}
	r.vs.detectChanges()
}

// Context returns the context the view was created with. Changes become
// visible on the next DetectChanges.
func (r *ViewRef) Context() map[string]any { return r.vs.context }

// Destroy detaches and destroys the view.
func (r *ViewRef) Destroy() { r.vs.view.Destroy() }

// Destroyed reports whether the view has been destroyed.
func (r *ViewRef) Destroyed() bool { return r.vs.view.Destroyed() }

// ViewContainerRef is a container of views anchored at a node.
type ViewContainerRef struct {
	c    *view.Container
	tree *tree
}

// CreateEmbeddedView instantiates tpl with ctx and appends the view.
func (vc *ViewContainerRef) CreateEmbeddedView(tpl *TemplateRef, ctx map[string]any) *ViewRef {
	ref := tpl.CreateEmbeddedView(ctx)
	vc.tree.states[ref.vs.view] = ref.vs
	// A fresh view is never destroyed, so Append cannot fail.
	_ = vc.c.Append(ref.vs.view)
	return ref
}

// Insert places ref at index and returns the index used. An index outside
// [0, Len()] appends. A view attached elsewhere is moved.
func (vc *ViewContainerRef) Insert(ref *ViewRef, index int) (int, error) {
	if ref.Destroyed() {
		return -1, &DestroyedError{What: "view"}
	}
	vc.tree.states[ref.vs.view] = ref.vs
	return vc.c.Insert(ref.vs.view, index)
}

// Remove destroys the view at index.
func (vc *ViewContainerRef) Remove(index int) { vc.c.Remove(index) }

// Detach removes the view at index without destroying it.
func (vc *ViewContainerRef) Detach(index int) *ViewRef {
	return vc.wrap(vc.c.Detach(index))
}

// Len returns the number of views.
func (vc *ViewContainerRef) Len() int { return vc.c.Len() }

// Get returns the view at index, or nil.
func (vc *ViewContainerRef) Get(index int) *ViewRef {
	return vc.wrap(vc.c.Get(index))
}

// IndexOf returns the position of ref, or -1.
func (vc *ViewContainerRef) IndexOf(ref *ViewRef) int {
	return vc.c.IndexOf(ref.vs.view)
}

// Clear destroys every view in the container.
func (vc *ViewContainerRef) Clear() { vc.c.Clear() }

func (vc *ViewContainerRef) wrap(v *view.View) *ViewRef {
	if v == nil {
		return nil
	}
	if vs := vc.tree.states[v]; vs != nil {
		return vs.ref()
	}
	return nil
}
