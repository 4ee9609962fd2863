package dom

import "strings"

// NodeType is the node type discriminator. Values match the browser DOM's
// Node.nodeType constants.
type NodeType uint8

const (
	ElementNode NodeType = 1 // <div>, <button>, etc.
	TextNode    NodeType = 3 // Plain text node
	CommentNode NodeType = 8 // Anchor or plain comment
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attr is a single static attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a concrete render node.
type Node struct {
	Type     NodeType
	Tag      string         // Element tag name (e.g., "div")
	Attrs    []Attr         // Static attributes in source order
	Props    map[string]any // Bound properties
	Data     string         // For TextNode and CommentNode
	Children []*Node        // Element children, rebuilt by the runtime
}

// NewElement creates an element node.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{
		Type:  ElementNode,
		Tag:   tag,
		Attrs: attrs,
	}
}

// NewText creates a text node.
func NewText(data string) *Node {
	return &Node{
		Type: TextNode,
		Data: data,
	}
}

// NewComment creates a comment node.
func NewComment(data string) *Node {
	return &Node{
		Type: CommentNode,
		Data: data,
	}
}

// NodeName returns the DOM nodeName: the upper-cased tag for elements,
// "#text" and "#comment" otherwise.
func (n *Node) NodeName() string {
	switch n.Type {
	case ElementNode:
		return strings.ToUpper(n.Tag)
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	}
	return ""
}

// TextContent returns the concatenated text of the node and its descendants.
// Comments contribute nothing unless they are the node itself.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, c := range n.Children {
		switch c.Type {
		case TextNode:
			b.WriteString(c.Data)
		case ElementNode:
			c.writeText(b)
		}
	}
}

// Attr returns the value of a static attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces a static attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes a static attribute.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// SetProp sets a bound property.
func (n *Node) SetProp(name string, value any) {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[name] = value
}

// Prop returns a bound property.
func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.Props[name]
	return v, ok
}

// Types returns the node types of nodes, in order.
func Types(nodes []*Node) []NodeType {
	out := make([]NodeType, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type
	}
	return out
}
