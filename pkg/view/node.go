package view

import "github.com/vango-dev/vtree/pkg/dom"

// Kind is the view node discriminator.
type Kind uint8

const (
	KindElement          Kind = iota // Element with static children
	KindText                         // Text node
	KindComment                      // Plain comment
	KindContainer                    // Anchor comment owning a view container
	KindElementContainer             // <ng-container>: anchor comment plus children
	KindProjection                   // <ng-content> slot
	KindICU                          // ICU block: anchor comment plus the selected case view
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindContainer:
		return "Container"
	case KindElementContainer:
		return "ElementContainer"
	case KindProjection:
		return "Projection"
	case KindICU:
		return "ICU"
	default:
		return "Unknown"
	}
}

// Node is a static node of a view.
type Node struct {
	Kind Kind

	// Native is the concrete render node. Nil only for KindProjection.
	Native *dom.Node

	// Container holds the views anchored at this node. Always set for
	// KindContainer and KindICU; an element hosting a structural directive
	// gets one through Attach.
	Container *Container

	// Children are the static children of an element or element container.
	// Element children are not root nodes; they feed the element's own
	// DOM children.
	Children []*Node

	// Projected are the nodes distributed into a projection slot.
	Projected []*Node
}

// NewElement creates an element node.
func NewElement(native *dom.Node, children ...*Node) *Node {
	return &Node{Kind: KindElement, Native: native, Children: children}
}

// NewText creates a text node.
func NewText(native *dom.Node) *Node {
	return &Node{Kind: KindText, Native: native}
}

// NewComment creates a plain comment node.
func NewComment(native *dom.Node) *Node {
	return &Node{Kind: KindComment, Native: native}
}

// NewAnchor creates a container anchor with an empty container.
func NewAnchor(native *dom.Node) *Node {
	return &Node{Kind: KindContainer, Native: native, Container: NewContainer()}
}

// NewElementContainer creates an <ng-container> node.
func NewElementContainer(native *dom.Node, children ...*Node) *Node {
	return &Node{Kind: KindElementContainer, Native: native, Children: children}
}

// NewProjection creates a projection slot holding projected.
func NewProjection(projected ...*Node) *Node {
	return &Node{Kind: KindProjection, Projected: projected}
}

// NewICU creates an ICU anchor with an empty container for its case view.
func NewICU(native *dom.Node) *Node {
	return &Node{Kind: KindICU, Native: native, Container: NewContainer()}
}

// Attach returns the node's container, creating it if needed.
func (n *Node) Attach() *Container {
	if n.Container == nil {
		n.Container = NewContainer()
	}
	return n.Container
}
