package view

import (
	"errors"
	"slices"

	"github.com/vango-dev/vtree/pkg/dom"
)

// ErrDestroyed is returned when a destroyed view is inserted into a container.
var ErrDestroyed = errors.New("view: view has been destroyed")

// View is an instantiated, ordered sequence of nodes.
type View struct {
	nodes     []*Node
	parent    *Container
	destroyed bool
	onDestroy []func()

	// placeholder is the synthetic comment the legacy strategy emits for an
	// empty view. Created once so repeated flattening returns the same node.
	placeholder *dom.Node
}

// New creates a view with the given root nodes.
func New(nodes ...*Node) *View {
	return &View{nodes: nodes}
}

// Nodes returns the view's static root nodes.
func (v *View) Nodes() []*Node {
	return v.nodes
}

// Append adds root nodes to the view.
func (v *View) Append(nodes ...*Node) {
	v.nodes = append(v.nodes, nodes...)
}

// Container returns the container the view is inserted in, or nil.
func (v *View) Container() *Container {
	return v.parent
}

// Destroyed reports whether Destroy has been called.
func (v *View) Destroyed() bool {
	return v.destroyed
}

// OnDestroy registers fn to run when the view is destroyed.
func (v *View) OnDestroy(fn func()) {
	v.onDestroy = append(v.onDestroy, fn)
}

// Destroy detaches the view from its container, destroys every view nested
// in its containers and runs the destroy hooks. Calling it twice is a no-op.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	if v.parent != nil {
		if i := v.parent.IndexOf(v); i >= 0 {
			v.parent.Detach(i)
		}
	}
	destroyNested(v.nodes)
	for _, fn := range v.onDestroy {
		fn()
	}
	v.onDestroy = nil
}

func destroyNested(nodes []*Node) {
	for _, n := range nodes {
		if n.Container != nil {
			n.Container.Clear()
		}
		destroyNested(n.Children)
	}
}

// Container is an anchor position holding zero or more views, displayed in
// insertion order.
type Container struct {
	views []*View
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Len returns the number of views in the container.
func (c *Container) Len() int {
	return len(c.views)
}

// Get returns the view at index, or nil when out of range.
func (c *Container) Get(index int) *View {
	if index < 0 || index >= len(c.views) {
		return nil
	}
	return c.views[index]
}

// Views returns a copy of the container's views.
func (c *Container) Views() []*View {
	return slices.Clone(c.views)
}

// IndexOf returns the position of v, or -1.
func (c *Container) IndexOf(v *View) int {
	return slices.Index(c.views, v)
}

// Insert places v at index and returns the index used. An index outside
// [0, Len()] appends. A view attached to another container is moved.
func (c *Container) Insert(v *View, index int) (int, error) {
	if v.destroyed {
		return -1, ErrDestroyed
	}
	if v.parent != nil {
		if i := v.parent.IndexOf(v); i >= 0 {
			v.parent.Detach(i)
		}
	}
	if index < 0 || index > len(c.views) {
		index = len(c.views)
	}
	c.views = slices.Insert(c.views, index, v)
	v.parent = c
	return index, nil
}

// Append inserts v at the end of the container.
func (c *Container) Append(v *View) error {
	_, err := c.Insert(v, -1)
	return err
}

// Detach removes the view at index without destroying it.
func (c *Container) Detach(index int) *View {
	if index < 0 || index >= len(c.views) {
		return nil
	}
	v := c.views[index]
	c.views = slices.Delete(c.views, index, index+1)
	v.parent = nil
	return v
}

// Remove detaches and destroys the view at index.
func (c *Container) Remove(index int) {
	if v := c.Detach(index); v != nil {
		v.Destroy()
	}
}

// Clear destroys every view in the container.
func (c *Container) Clear() {
	for len(c.views) > 0 {
		c.Remove(len(c.views) - 1)
	}
}
