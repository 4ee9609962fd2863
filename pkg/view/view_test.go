package view

import (
	"errors"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
)

func TestContainerInsertOutOfRangeAppends(t *testing.T) {
	c := NewContainer()
	a, b := New(), New()
	c.Append(a)
	idx, err := c.Insert(b, 10)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 || c.Get(1) != b {
		t.Errorf("Insert(10) placed view at %d", idx)
	}
	if c.Get(5) != nil || c.Get(-1) != nil {
		t.Error("Get out of range should return nil")
	}
}

func TestContainerMoveBetweenContainers(t *testing.T) {
	src, dst := NewContainer(), NewContainer()
	v := New(text("x"))
	src.Append(v)
	dst.Append(v)

	if src.Len() != 0 {
		t.Errorf("source still holds %d views", src.Len())
	}
	if v.Container() != dst {
		t.Error("view should belong to destination container")
	}
}

func TestContainerDetachKeepsView(t *testing.T) {
	c := NewContainer()
	v := New(text("x"))
	c.Append(v)

	got := c.Detach(0)
	if got != v || v.Destroyed() {
		t.Fatal("Detach should return the live view")
	}
	if v.Container() != nil {
		t.Error("detached view should have no container")
	}
	if c.Detach(0) != nil {
		t.Error("Detach on empty container should return nil")
	}
	if err := c.Append(v); err != nil {
		t.Errorf("re-inserting a detached view failed: %v", err)
	}
}

func TestContainerRemoveDestroys(t *testing.T) {
	c := NewContainer()
	v := New()
	destroyed := false
	v.OnDestroy(func() { destroyed = true })
	c.Append(v)

	c.Remove(0)
	if !v.Destroyed() || !destroyed {
		t.Error("Remove should destroy the view and run hooks")
	}
	if err := c.Append(v); !errors.Is(err, ErrDestroyed) {
		t.Errorf("inserting destroyed view: err = %v, want ErrDestroyed", err)
	}
}

func TestContainerHoldsOnlyLiveViews(t *testing.T) {
	c := NewContainer()
	a, b, d := New(), New(), New()
	for _, v := range []*View{a, b, d} {
		c.Append(v)
	}

	b.Destroy()
	if c.Len() != 2 || c.IndexOf(b) != -1 {
		t.Fatalf("destroyed view still attached: Len() = %d, IndexOf = %d", c.Len(), c.IndexOf(b))
	}
	// Reordering the remaining views must always succeed.
	for i, v := range c.Views() {
		if _, err := c.Insert(v, c.Len()-1-i); err != nil {
			t.Fatalf("Insert(%d) error = %v", i, err)
		}
	}
	if c.Get(0) != d || c.Get(1) != a {
		t.Errorf("order = [%p %p], want [d a]", c.Get(0), c.Get(1))
	}
}

func TestViewDestroyCascades(t *testing.T) {
	anchor := NewAnchor(dom.NewComment(""))
	child := New(text("child"))
	anchor.Container.Append(child)

	ec := NewElementContainer(dom.NewComment(""), NewAnchor(dom.NewComment("")))
	grandchild := New()
	ec.Children[0].Container.Append(grandchild)

	parent := New(anchor, ec)
	outer := NewContainer()
	outer.Append(parent)

	parent.Destroy()
	parent.Destroy()

	if outer.Len() != 0 {
		t.Error("destroyed view should leave its container")
	}
	if !child.Destroyed() || !grandchild.Destroyed() {
		t.Error("nested views should be destroyed")
	}
	if anchor.Container.Len() != 0 {
		t.Error("nested container should be cleared")
	}
}

func TestContainerViewsIsCopy(t *testing.T) {
	c := NewContainer()
	c.Append(New())
	views := c.Views()
	views[0] = nil
	if c.Get(0) == nil {
		t.Error("Views() must not expose internal slice")
	}
}

func TestAttach(t *testing.T) {
	n := elem("div")
	c := n.Attach()
	if c == nil || n.Attach() != c {
		t.Error("Attach should create once and reuse")
	}
}

func TestViewAppend(t *testing.T) {
	v := New(text("a"))
	v.Append(text("b"), text("c"))
	if len(v.Nodes()) != 3 {
		t.Errorf("len(Nodes()) = %d, want 3", len(v.Nodes()))
	}
}
