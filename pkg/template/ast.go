package template

// Position is a 1-based line and column in the template source.
type Position struct {
	Line   int
	Column int
}

// Node is a template AST node.
type Node interface {
	Pos() Position
}

// Attribute is a static attribute.
type Attribute struct {
	Name  string
	Value string
	Pos   Position
}

// Binding is a property binding: [name]="expr", bind-name="expr" or an
// interpolated attribute value.
type Binding struct {
	Name   string
	Source string
	Expr   Expr
	Pos    Position
}

// Event is an event binding: (name)="handler". The runtime records it but
// does not dispatch events.
type Event struct {
	Name    string
	Handler string
	Pos     Position
}

// Reference is a template reference: #name or #name="exportAs".
type Reference struct {
	Name  string
	Value string
	Pos   Position
}

// Variable is a template input variable: let-name="contextKey".
type Variable struct {
	Name  string
	Value string
}

// Element is a regular element.
type Element struct {
	Name     string
	Attrs    []Attribute
	Inputs   []Binding
	Outputs  []Event
	Refs     []Reference
	Children []Node
	Position Position
}

// Pos implements Node.
func (e *Element) Pos() Position { return e.Position }

// Template is an <ng-template> or the template produced by desugaring a
// structural directive (*ngIf and friends).
type Template struct {
	// TagName is "ng-template", or the tag of the element a structural
	// directive was written on.
	TagName   string
	Attrs     []Attribute
	Inputs    []Binding
	Outputs   []Event
	Refs      []Reference
	Variables []Variable
	Children  []Node
	Position  Position
}

// Pos implements Node.
func (t *Template) Pos() Position { return t.Position }

// Container is an <ng-container>.
type Container struct {
	Attrs    []Attribute
	Inputs   []Binding
	Outputs  []Event
	Refs     []Reference
	Children []Node
	Position Position
}

// Pos implements Node.
func (c *Container) Pos() Position { return c.Position }

// Content is an <ng-content> projection slot.
type Content struct {
	// Select is the CSS selector of the slot, "*" for the default slot.
	Select   string
	Attrs    []Attribute
	Position Position
}

// Pos implements Node.
func (c *Content) Pos() Position { return c.Position }

// Text is a text node, possibly interpolated.
type Text struct {
	Value    *Interpolation
	Position Position
}

// Pos implements Node.
func (t *Text) Pos() Position { return t.Position }

// ICU is a select or plural block: {expr, select, a {..} other {..}}.
type ICU struct {
	Switch   Expr
	Type     string // "select" or "plural"
	Cases    []ICUCase
	Position Position
}

// Pos implements Node.
func (i *ICU) Pos() Position { return i.Position }

// ICUCase is one branch of an ICU block.
type ICUCase struct {
	Key   string
	Nodes []Node
}

// Document is a parsed template.
type Document struct {
	Source string
	File   string
	Nodes  []Node

	// ContentSelectors lists the select attributes of every <ng-content>,
	// in document order, "*" for the default slot.
	ContentSelectors []string
}

// Walk calls fn for n and every descendant, depth-first. Returning false
// skips the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch x := n.(type) {
		case *Element:
			Walk(x.Children, fn)
		case *Template:
			Walk(x.Children, fn)
		case *Container:
			Walk(x.Children, fn)
		case *ICU:
			for _, c := range x.Cases {
				Walk(c.Nodes, fn)
			}
		}
	}
}

// AttributeNames returns the lower-cased names used for selector matching:
// static attribute names followed by bound input names.
func AttributeNames(attrs []Attribute, inputs []Binding) map[string]string {
	names := make(map[string]string, len(attrs)+len(inputs))
	for _, a := range attrs {
		names[a.Name] = a.Value
	}
	for _, in := range inputs {
		if _, ok := names[in.Name]; !ok {
			names[in.Name] = ""
		}
	}
	return names
}
